package postgres_adapter

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresSavedSearchRepository - реализация SavedSearchRepositoryPort для PostgreSQL.
type PostgresSavedSearchRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSavedSearchRepository(pool *pgxpool.Pool) (*PostgresSavedSearchRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresSavedSearchRepository{pool: pool}, nil
}

// Migrate применяет встроенные SQL-миграции по порядку имен файлов.
// Все миграции идемпотентны (IF NOT EXISTS), повторный запуск безопасен.
func (r *PostgresSavedSearchRepository) Migrate(ctx context.Context) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := r.pool.Exec(ctx, string(script)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
	}
	return nil
}

func (r *PostgresSavedSearchRepository) Save(ctx context.Context, search *domain.SavedSearch) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":       "PostgresSavedSearchRepository",
		"method":          "Save",
		"user_id":         search.UserID,
		"saved_search_id": search.ID,
	})

	filtersJSON, err := json.Marshal(toFiltersRecord(search.Filters))
	if err != nil {
		return fmt.Errorf("failed to marshal filters: %w", err)
	}

	query := `INSERT INTO saved_searches (id, user_id, name, filters, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err = r.pool.Exec(ctx, query, search.ID, search.UserID, search.Name, filtersJSON, search.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			repoLogger.Warn("Saved search name is already taken", port.Fields{"name": search.Name})
			return fmt.Errorf("%w: saved search %q already exists", domain.ErrValidation, search.Name)
		}
		repoLogger.Error("Failed to insert saved search", err, port.Fields{"query": query})
		return fmt.Errorf("failed to insert saved search: %w", err)
	}

	repoLogger.Debug("Saved search stored.", nil)
	return nil
}

func (r *PostgresSavedSearchRepository) ListByUser(ctx context.Context, userID string) ([]domain.SavedSearch, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresSavedSearchRepository",
		"method":    "ListByUser",
		"user_id":   userID,
	})

	query := `SELECT id, user_id, name, filters, created_at FROM saved_searches WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		repoLogger.Error("Failed to query saved searches", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query saved searches: %w", err)
	}
	defer rows.Close()

	searches := []domain.SavedSearch{}
	for rows.Next() {
		search, err := scanSavedSearch(rows)
		if err != nil {
			repoLogger.Error("Failed to scan saved search row", err, nil)
			return nil, err
		}
		searches = append(searches, *search)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during saved searches iteration", err, nil)
		return nil, fmt.Errorf("error during saved searches iteration: %w", err)
	}
	return searches, nil
}

func (r *PostgresSavedSearchRepository) Get(ctx context.Context, userID string, id uuid.UUID) (*domain.SavedSearch, error) {
	query := `SELECT id, user_id, name, filters, created_at FROM saved_searches WHERE id = $1 AND user_id = $2`
	search, err := scanSavedSearch(r.pool.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: saved search %s", domain.ErrNotFound, id)
	}
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to get saved search", err, port.Fields{
			"component":       "PostgresSavedSearchRepository",
			"saved_search_id": id,
		})
		return nil, err
	}
	return search, nil
}

func (r *PostgresSavedSearchRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	query := `DELETE FROM saved_searches WHERE id = $1 AND user_id = $2`
	cmdTag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete saved search: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: saved search %s", domain.ErrNotFound, id)
	}
	return nil
}

func scanSavedSearch(row pgx.Row) (*domain.SavedSearch, error) {
	var (
		search      domain.SavedSearch
		filtersJSON []byte
		createdAt   time.Time
	)
	if err := row.Scan(&search.ID, &search.UserID, &search.Name, &filtersJSON, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan saved search: %w", err)
	}

	var rec filtersRecord
	if err := json.Unmarshal(filtersJSON, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode filters of saved search %s: %w", search.ID, err)
	}
	search.Filters = rec.toDomain()
	search.CreatedAt = createdAt.UTC()
	return &search, nil
}

package contracts

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed forms
var formsFS embed.FS

// FormValidator проверяет пользовательские формы по JSON-схемам из forms/.
type FormValidator struct {
	schemas map[string]*jsonschema.Schema
}

var _ port.FormValidatorPort = (*FormValidator)(nil)

// NewFormValidator компилирует все схемы форм. Ошибка компиляции - ошибка конфигурации сборки.
func NewFormValidator() (*FormValidator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	// Добавляем все схемы как ресурсы, чтобы они могли ссылаться друг на друга через `$ref`
	err := fs.WalkDir(formsFS, "forms", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := formsFS.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking form schemas: %w", err)
	}

	v := &FormValidator{schemas: make(map[string]*jsonschema.Schema, len(paths))}
	for _, path := range paths {
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", path, err)
		}
		key := generateKeyFromPath(path)
		if key == "" {
			return nil, fmt.Errorf("unexpected schema path %s", path)
		}
		v.schemas[key] = schema
	}
	return v, nil
}

// generateKeyFromPath преобразует путь вида "forms/site-visit/v1.json" в ключ "SiteVisitForm/1.0.0".
func generateKeyFromPath(path string) string {
	trimmedPath := strings.TrimPrefix(path, "forms/")
	trimmedPath = strings.TrimSuffix(trimmedPath, ".json")

	parts := strings.Split(trimmedPath, "/")
	if len(parts) != 2 {
		return ""
	}
	return formKey(parts[0], strings.Replace(parts[1], "v", "", 1)+".0.0")
}

func formKey(form, version string) string {
	caser := cases.Title(language.English)

	var nameBuilder strings.Builder
	for _, p := range strings.Split(form, "-") {
		nameBuilder.WriteString(caser.String(p))
	}
	nameBuilder.WriteString("Form")
	return fmt.Sprintf("%s/%s", nameBuilder.String(), version)
}

// Validate проверяет значение формы по актуальной (первой) версии схемы.
func (v *FormValidator) Validate(form string, value interface{}) error {
	key := formKey(form, "1.0.0")
	schema, ok := v.schemas[key]
	if !ok {
		return fmt.Errorf("schema for form '%s' not found", form)
	}

	// Схема работает с универсальным представлением JSON, поэтому прогоняем значение через encoding/json
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: form is not serializable: %v", domain.ErrValidation, err)
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: form is not a valid JSON: %v", domain.ErrValidation, err)
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			field, message := firstLeaf(ve)
			return &FieldError{Field: field, Message: message}
		}
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// FieldError - ошибка валидации конкретного поля формы.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", domain.ErrValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", domain.ErrValidation, e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return domain.ErrValidation }

// firstLeaf спускается к первой конкретной причине ошибки.
func firstLeaf(ve *jsonschema.ValidationError) (string, string) {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	field := strings.TrimPrefix(ve.InstanceLocation, "/")
	field = strings.ReplaceAll(field, "/", ".")
	return field, ve.Message
}

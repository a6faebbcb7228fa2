package session

import (
	"context"
	"fmt"
	"session-service/internal/core/port"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper по расписанию удаляет простаивающие сессии.
type Sweeper struct {
	cron     *cron.Cron
	registry *Registry
	maxIdle  time.Duration
	logger   port.LoggerPort
}

// NewSweeper создает планировщик. schedule - cron-выражение с секундами или дескриптор вида "@every 5m".
func NewSweeper(registry *Registry, schedule string, maxIdle time.Duration, logger port.LoggerPort) (*Sweeper, error) {
	s := &Sweeper{
		cron:     cron.New(cron.WithSeconds()),
		registry: registry,
		maxIdle:  maxIdle,
		logger:   logger.WithFields(port.Fields{"component": "SessionSweeper"}),
	}
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return nil, fmt.Errorf("failed to schedule session sweep %q: %w", schedule, err)
	}
	return s, nil
}

// Sweep выполняет одну очистку. Вызывается планировщиком, но доступен и напрямую.
func (s *Sweeper) Sweep() {
	evicted := s.registry.EvictIdle(s.maxIdle)
	if evicted > 0 {
		s.logger.Info("Idle sessions evicted", port.Fields{"evicted": evicted, "remaining": s.registry.Len()})
		return
	}
	s.logger.Debug("No idle sessions to evict", port.Fields{"remaining": s.registry.Len()})
}

func (s *Sweeper) Start() {
	s.logger.Info("Session sweeper started", port.Fields{"max_idle": s.maxIdle.String()})
	s.cron.Start()
}

// Stop останавливает планировщик и ждет завершения текущей очистки или отмены ctx.
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("Session sweeper did not stop in time", nil)
	}
}

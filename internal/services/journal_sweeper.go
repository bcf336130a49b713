package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/backend/internal/infrastructure/journal"
)

// SweeperConfig controls the retention loop.
type SweeperConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// JournalSweeper periodically trims journal entries older than the
// retention window so the BoltDB file stays bounded.
type JournalSweeper struct {
	store  *journal.Store
	cfg    SweeperConfig
	logger *zap.Logger
	stopCh chan struct{}
	doneCh chan struct{}
}

func NewJournalSweeper(store *journal.Store, cfg SweeperConfig, logger *zap.Logger) *JournalSweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JournalSweeper{
		store:  store,
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (s *JournalSweeper) Start() {
	go s.loop()
}

// Stop signals the loop and waits for it to exit or the context to expire.
func (s *JournalSweeper) Stop(ctx context.Context) {
	close(s.stopCh)
	select {
	case <-s.doneCh:
	case <-ctx.Done():
	}
}

func (s *JournalSweeper) loop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *JournalSweeper) sweep() {
	cutoff := time.Now().Add(-s.cfg.Retention)
	removed, err := s.store.Cleanup(cutoff)
	if err != nil {
		s.logger.Warn("journal cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Info("journal entries trimmed", zap.Int("removed", removed))
	}
}

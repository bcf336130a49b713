package services

import (
	"context"

	"github.com/taskhive/backend/internal/infrastructure/journal"
	"github.com/taskhive/backend/usecase"
)

// JournalBridge adapts the BoltDB journal to the recorder port the use
// cases depend on.
type JournalBridge struct {
	store *journal.Store
}

func NewJournalBridge(store *journal.Store) *JournalBridge {
	return &JournalBridge{store: store}
}

func (b *JournalBridge) Record(_ context.Context, entry usecase.ActivityEntry) error {
	if b == nil || b.store == nil {
		return nil
	}
	return b.store.Append(journal.Entry{
		Entity:    entry.Entity,
		Operation: entry.Operation,
		ActorID:   entry.ActorID,
		TargetID:  entry.TargetID,
		Detail:    entry.Detail,
	})
}

var _ usecase.ActivityRecorder = (*JournalBridge)(nil)

package memory

import (
	"context"
	"sync"

	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

// ActionLog is an append-only list of applied buyer actions.
type ActionLog struct {
	mu      sync.Mutex
	records []domain.OfferActionRecord
}

func NewActionLog() *ActionLog {
	return &ActionLog{}
}

func (l *ActionLog) RecordAction(_ context.Context, rec domain.OfferActionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	return nil
}

func (l *ActionLog) ListActions(_ context.Context, offerID string) ([]domain.OfferActionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := []domain.OfferActionRecord{}
	for _, rec := range l.records {
		if rec.OfferID == offerID {
			out = append(out, rec)
		}
	}
	return out, nil
}

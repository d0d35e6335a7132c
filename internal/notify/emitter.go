package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

// Emitter accepts notification records for delivery.
type Emitter interface {
	Emit(ctx context.Context, n domain.Notification) error
}

// LogEmitter writes notifications to a structured logger.
type LogEmitter struct {
	logger *slog.Logger
}

func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEmitter{logger: logger}
}

func (e *LogEmitter) Emit(ctx context.Context, n domain.Notification) error {
	e.logger.InfoContext(ctx, "notification emitted",
		"id", n.ID,
		"type", string(n.Type),
		"recipient", n.RecipientID,
		"message", n.Message,
	)
	return nil
}

// Fanout sends every notification to all emitters, even if one fails.
type Fanout []Emitter

func (f Fanout) Emit(ctx context.Context, n domain.Notification) error {
	var errs []error
	for _, e := range f {
		if err := e.Emit(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps emitted notifications in memory.
type Recorder struct {
	mu    sync.Mutex
	items []domain.Notification
	err   error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailWith makes later Emit calls return err without recording.
func (r *Recorder) FailWith(err error) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
	return r
}

func (r *Recorder) Emit(_ context.Context, n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.items = append(r.items, n)
	return nil
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder) Notifications() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, len(r.items))
	copy(out, r.items)
	return out
}

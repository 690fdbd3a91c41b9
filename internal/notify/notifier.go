// Package notify dispatches best-effort change notifications toward the
// simulated remote backend. Dispatch outcomes never affect local results;
// the session store is the source of truth.
package notify

import (
	"context"
	"errors"

	"github.com/voxboard-ai/dashboard-core/internal/model"
)

// Notifier delivers a single change event. Implementations are invoked on
// detached goroutines and must honor ctx deadlines.
type Notifier interface {
	Publish(ctx context.Context, event model.ChangeEvent) error
}

// Nop discards all events. Used when no sync target is configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, event model.ChangeEvent) error {
	return nil
}

// Multi fans an event out to several notifiers, collecting all failures.
type Multi []Notifier

func (m Multi) Publish(ctx context.Context, event model.ChangeEvent) error {
	var errs []error
	for _, n := range m {
		if err := n.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

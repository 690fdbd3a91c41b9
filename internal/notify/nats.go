package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/voxboard-ai/dashboard-core/internal/model"
	natsclient "github.com/voxboard-ai/dashboard-core/internal/nats"
)

const (
	// StreamName is the name of the change events stream.
	StreamName = "VOXBOARD_CHANGES"

	// SubjectPrefix is the prefix for all change event subjects.
	SubjectPrefix = "change"
)

// StreamNotifier publishes change events to a JetStream stream, one subject
// per tenant, collection and change type.
type StreamNotifier struct {
	client *natsclient.Client
}

// NewStreamNotifier creates a stream notifier over an established client.
func NewStreamNotifier(client *natsclient.Client) *StreamNotifier {
	return &StreamNotifier{client: client}
}

// EnsureStream ensures the change events stream exists.
func (n *StreamNotifier) EnsureStream(ctx context.Context) error {
	js := n.client.JetStream()

	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Description: "Collection change events for remote sync",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// EventSubject returns the subject for a change event.
func EventSubject(event model.ChangeEvent) string {
	return fmt.Sprintf("%s.%s.%s.%s", SubjectPrefix, event.TenantID, event.Collection, event.Type)
}

func (n *StreamNotifier) Publish(ctx context.Context, event model.ChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	if _, err := n.client.JetStream().Publish(ctx, EventSubject(event), data); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}

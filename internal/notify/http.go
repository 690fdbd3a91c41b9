package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/voxboard-ai/dashboard-core/internal/model"
)

// HTTPNotifier mirrors mutations to a remote API: POST on create, PATCH on
// update, DELETE on delete, against /api/<collection>[/<id>]. Responses are
// drained and discarded.
type HTTPNotifier struct {
	baseURL string
	client  *http.Client
}

// NewHTTPNotifier creates a notifier targeting baseURL.
func NewHTTPNotifier(baseURL string) *HTTPNotifier {
	return &HTTPNotifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (n *HTTPNotifier) Publish(ctx context.Context, event model.ChangeEvent) error {
	method := http.MethodPost
	url := fmt.Sprintf("%s/api/%s", n.baseURL, event.Collection)

	switch event.Type {
	case model.ChangeUpdated:
		method = http.MethodPatch
		url = fmt.Sprintf("%s/%s", url, event.RecordID)
	case model.ChangeDeleted:
		method = http.MethodDelete
		url = fmt.Sprintf("%s/%s", url, event.RecordID)
	}

	var body io.Reader
	if event.Record != nil {
		payload, err := json.Marshal(event.Record)
		if err != nil {
			return fmt.Errorf("failed to marshal sync payload: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", event.TenantID)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("sync request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sync endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"vendor-hub.backend/internal/config"
	"vendor-hub.backend/internal/domain/entities"
)

// HTTPDispatcher posts notifications to the external sink. An empty sink
// URL turns delivery into a no-op, which keeps local setups working
// without a sink running.
type HTTPDispatcher struct {
	url    string
	client *http.Client
}

// NewHTTPDispatcher creates a dispatcher from notify configuration
func NewHTTPDispatcher(cfg config.NotifyConfig) *HTTPDispatcher {
	return &HTTPDispatcher{
		url:    cfg.SinkURL,
		client: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type sinkPayload struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	ReferenceID *string `json:"referenceId,omitempty"`
}

// Dispatch pushes one notification to the sink
func (d *HTTPDispatcher) Dispatch(ctx context.Context, n *entities.Notification) error {
	if d.url == "" {
		return nil
	}

	payload := sinkPayload{
		ID:      n.ID.String(),
		UserID:  n.UserID.String(),
		Type:    string(n.Type),
		Title:   n.Title,
		Message: n.Message,
	}
	if n.ReferenceID != nil {
		ref := n.ReferenceID.String()
		payload.ReferenceID = &ref
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification sink returned status %d", resp.StatusCode)
	}
	return nil
}

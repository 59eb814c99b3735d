package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RowWriter is the write half of the row store. The spreadsheet itself
// lives behind an external endpoint (an Apps Script webhook bound to the
// sheet); this codebase only knows how to append and upsert rows.
type RowWriter interface {
	// Append adds a row to the named tab.
	Append(ctx context.Context, tab string, row []string) error
	// Upsert replaces the first row whose keyColumn cell equals
	// row[keyColumn], appending when no such row exists. Idempotent:
	// writing the same row twice is a no-op on the second call.
	Upsert(ctx context.Context, tab string, keyColumn int, row []string) error
}

// WebhookWriter posts row mutations to the sheet-bound webhook endpoint.
type WebhookWriter struct {
	client   *http.Client
	endpoint string
	secret   string
}

func NewWebhookWriter(endpoint, secret string) *WebhookWriter {
	return &WebhookWriter{
		client:   &http.Client{Timeout: 15 * time.Second},
		endpoint: endpoint,
		secret:   secret,
	}
}

type webhookMutation struct {
	Action    string   `json:"action"` // "append" or "upsert"
	Tab       string   `json:"tab"`
	KeyColumn int      `json:"keyColumn,omitempty"`
	Row       []string `json:"row"`
}

func (w *WebhookWriter) Append(ctx context.Context, tab string, row []string) error {
	return w.send(ctx, webhookMutation{Action: "append", Tab: tab, Row: row})
}

func (w *WebhookWriter) Upsert(ctx context.Context, tab string, keyColumn int, row []string) error {
	return w.send(ctx, webhookMutation{Action: "upsert", Tab: tab, KeyColumn: keyColumn, Row: row})
}

func (w *WebhookWriter) send(ctx context.Context, m webhookMutation) error {
	if w.endpoint == "" {
		return fmt.Errorf("sheet writer: no endpoint configured")
	}

	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("sheet writer: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.secret != "" {
		req.Header.Set("X-Webhook-Secret", w.secret)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sheet writer: %s %s: %w", m.Action, m.Tab, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sheet writer: %s %s: unexpected status %d", m.Action, m.Tab, resp.StatusCode)
	}
	return nil
}

var _ RowWriter = (*WebhookWriter)(nil)

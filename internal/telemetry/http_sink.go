package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"lingo-shooter/internal/domain"
)

// HTTPSink posts history records as JSON to a remote endpoint.
type HTTPSink struct {
	endpoint string
	client   *http.Client
}

func NewHTTPSink(endpoint string, client *http.Client) *HTTPSink {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSink{endpoint: endpoint, client: client}
}

func (s *HTTPSink) Save(ctx context.Context, rec domain.HistoryRecord) (domain.HistoryStatus, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return domain.HistoryStatus{}, fmt.Errorf("marshal history: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.HistoryStatus{}, fmt.Errorf("build history request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.HistoryStatus{}, fmt.Errorf("post history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.HistoryStatus{}, fmt.Errorf("post history: unexpected status %d", resp.StatusCode)
	}
	var status domain.HistoryStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return domain.HistoryStatus{}, fmt.Errorf("decode history reply: %w", err)
	}
	return status, nil
}

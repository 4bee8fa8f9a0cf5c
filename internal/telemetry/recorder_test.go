package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"lingo-shooter/internal/domain"
)

type memoryStore struct {
	mu      sync.Mutex
	records []domain.HistoryRecord
	err     error
}

func (s *memoryStore) Save(_ context.Context, rec domain.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func sampleEvent() domain.AnswerEvent {
	return domain.AnswerEvent{
		UserID:      "uabc123xyz",
		QuestionID:  "q_0002",
		Correct:     false,
		AnswerIndex: 3,
		Elapsed:     2250 * time.Millisecond,
		At:          time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
	}
}

func TestRecorderDeliversInBackground(t *testing.T) {
	store := &memoryStore{}
	rec := NewRecorder(NewStoreSink(store), time.Second)

	rec.Record(sampleEvent())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rec.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if len(store.records) != 1 {
		t.Fatalf("expected one record, got %d", len(store.records))
	}
	got := store.records[0]
	if got.QuestionID != "q_0002" || got.AnswerIndex != 3 || got.Time != 2.25 || got.PlayedAt != "2026-02-03T04:05:06Z" {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestRecorderSwallowsSinkFailure(t *testing.T) {
	store := &memoryStore{err: errors.New("connection refused")}
	rec := NewRecorder(NewStoreSink(store), time.Second)

	status := rec.Save(context.Background(), domain.NewHistoryRecord(sampleEvent()))
	if status.Status != StatusOffline {
		t.Fatalf("expected offline status, got %+v", status)
	}
}

func TestRecorderWithoutSinkIsOffline(t *testing.T) {
	rec := NewRecorder(nil, 0)
	status := rec.Save(context.Background(), domain.NewHistoryRecord(sampleEvent()))
	if status.Status != StatusOffline {
		t.Fatalf("expected offline status, got %+v", status)
	}
}

func TestHTTPSinkPostsRecord(t *testing.T) {
	var received domain.HistoryRecord
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(domain.HistoryStatus{Status: StatusOK})
	}))
	defer server.Close()

	rec := NewRecorder(NewHTTPSink(server.URL, server.Client()), time.Second)
	status := rec.Save(context.Background(), domain.NewHistoryRecord(sampleEvent()))
	if status.Status != StatusOK {
		t.Fatalf("expected ok, got %+v", status)
	}
	if received.UserID != "uabc123xyz" || received.QuestionID != "q_0002" {
		t.Fatalf("unexpected payload %+v", received)
	}
}

func TestHTTPSinkOfflineOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	rec := NewRecorder(NewHTTPSink(server.URL, server.Client()), time.Second)
	status := rec.Save(context.Background(), domain.NewHistoryRecord(sampleEvent()))
	if status.Status != StatusOffline {
		t.Fatalf("expected offline, got %+v", status)
	}
}

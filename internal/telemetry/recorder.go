// Package telemetry delivers answer history to a sink without ever failing the game.
package telemetry

import (
	"context"
	"log"
	"sync"
	"time"

	"lingo-shooter/internal/domain"
)

const (
	StatusOK      = "ok"
	StatusOffline = "offline"
)

// Sink persists or transmits a history record.
type Sink interface {
	Save(ctx context.Context, rec domain.HistoryRecord) (domain.HistoryStatus, error)
}

// Store is a history store that only reports errors.
type Store interface {
	Save(ctx context.Context, rec domain.HistoryRecord) error
}

// StoreSink adapts a Store to a Sink.
type StoreSink struct {
	store Store
}

func NewStoreSink(store Store) StoreSink {
	return StoreSink{store: store}
}

func (s StoreSink) Save(ctx context.Context, rec domain.HistoryRecord) (domain.HistoryStatus, error) {
	if err := s.store.Save(ctx, rec); err != nil {
		return domain.HistoryStatus{}, err
	}
	return domain.HistoryStatus{Status: StatusOK}, nil
}

// Recorder implements app.Telemetry. Each event is delivered on its own goroutine;
// delivery failures are logged locally and reported as an offline status.
type Recorder struct {
	sink    Sink
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRecorder builds a recorder. A nil sink logs every record locally.
func NewRecorder(sink Sink, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Recorder{sink: sink, timeout: timeout}
}

// Record dispatches the event and returns immediately.
func (r *Recorder) Record(ev domain.AnswerEvent) {
	rec := domain.NewHistoryRecord(ev)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.Save(context.Background(), rec)
	}()
}

// Save delivers rec synchronously. It never returns an error.
func (r *Recorder) Save(ctx context.Context, rec domain.HistoryRecord) domain.HistoryStatus {
	if r.sink == nil {
		return offline(rec, nil)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	status, err := r.sink.Save(ctx, rec)
	if err != nil {
		return offline(rec, err)
	}
	return status
}

// Flush waits for in-flight deliveries or until ctx is done.
func (r *Recorder) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func offline(rec domain.HistoryRecord, err error) domain.HistoryStatus {
	if err != nil {
		log.Printf("history saved locally (sink offline: %v): %+v", err, rec)
	} else {
		log.Printf("history saved locally: %+v", rec)
	}
	return domain.HistoryStatus{Status: StatusOffline, Message: "saved to local log"}
}

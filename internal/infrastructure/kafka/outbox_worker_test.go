package kafka

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

type memOutboxRepo struct {
	mu     sync.Mutex
	events []*usecase.OutboxEvent
}

func (m *memOutboxRepo) seed(n int) {
	for i := 0; i < n; i++ {
		m.events = append(m.events, &usecase.OutboxEvent{
			ID:       "evt-" + strconv.Itoa(i),
			EventID:  "uuid-" + strconv.Itoa(i),
			RecordID: "rec-" + strconv.Itoa(i),
			Payload:  []byte(`{"n":` + strconv.Itoa(i) + `}`),
			Status:   usecase.Pending,
		})
	}
}

func (m *memOutboxRepo) Create(_ context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return event, nil
}

func (m *memOutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var batch []*usecase.OutboxEvent
	for _, ev := range m.events {
		if len(batch) >= limit {
			break
		}
		if ev.Status == usecase.Pending {
			ev.Status = usecase.Processing
			batch = append(batch, ev)
		}
	}
	return batch, nil
}

func (m *memOutboxRepo) MarkAsProcessed(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ev := range m.events {
		if ev.ID == id {
			ev.Status = usecase.Processed
			return nil
		}
	}
	return errors.New("event not found: " + id)
}

func (m *memOutboxRepo) countByStatus(status usecase.OutboxStatus) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, ev := range m.events {
		if ev.Status == status {
			n++
		}
	}
	return n
}

type memProducer struct {
	mu       sync.Mutex
	written  []string
	writeErr error
}

func (m *memProducer) WriteRawMessage(_ context.Context, req *usecase.WriteRawMessageReq) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return m.writeErr
	}
	m.written = append(m.written, req.RecordID)
	return nil
}

func TestOutboxWorker_DrainProcessesAllPending(t *testing.T) {
	repo := &memOutboxRepo{}
	repo.seed(25) // больше одного батча

	producer := &memProducer{}
	w := NewOutboxWorker(repo, nopLogger{}, producer, time.Second)

	if ok := w.drain(context.Background()); !ok {
		t.Fatal("drain() = false, want true")
	}

	if got := repo.countByStatus(usecase.Processed); got != 25 {
		t.Errorf("processed = %d, want 25", got)
	}
	if got := repo.countByStatus(usecase.Pending); got != 0 {
		t.Errorf("pending = %d, want 0", got)
	}
	if len(producer.written) != 25 {
		t.Errorf("written = %d, want 25", len(producer.written))
	}
}

func TestOutboxWorker_ProducerFailureLeavesEventUnprocessed(t *testing.T) {
	repo := &memOutboxRepo{}
	repo.seed(3)

	producer := &memProducer{writeErr: errors.New("connection refused")}
	w := NewOutboxWorker(repo, nopLogger{}, producer, time.Second)

	hasMore, err := w.processBatch(context.Background())
	if err != nil {
		t.Fatalf("processBatch() error = %v", err)
	}
	if !hasMore {
		t.Error("processBatch() should report the batch it consumed")
	}

	if got := repo.countByStatus(usecase.Processed); got != 0 {
		t.Errorf("processed = %d, want 0 after producer failure", got)
	}
}

func TestOutboxWorker_StartStop(t *testing.T) {
	repo := &memOutboxRepo{}
	repo.seed(2)

	producer := &memProducer{}
	w := NewOutboxWorker(repo, nopLogger{}, producer, 10*time.Millisecond)

	w.Start(context.Background())

	deadline := time.After(2 * time.Second)
	for repo.countByStatus(usecase.Processed) < 2 {
		select {
		case <-deadline:
			t.Fatal("worker did not process seeded events in time")
		case <-time.After(10 * time.Millisecond):
		}
	}

	w.Stop() // не должен зависнуть
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("read: i/o timeout"), true},
		{errors.New("write: broken pipe"), true},
		{errors.New("unknown topic or partition"), false},
		{nil, false},
	}

	for _, tc := range tests {
		if got := isRetryableError(tc.err); got != tc.want {
			t.Errorf("isRetryableError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

package kafka

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.NewLogrusLoggerWithWriter(io.Discard, "error")
}

func TestPayloadEncoderProductEvent(t *testing.T) {
	occurred := time.Date(2026, 10, 17, 12, 30, 0, 0, time.UTC)
	record := &usecase.SubmissionRecord{
		EventID:    "0b1c6c3e-0000-4000-8000-000000000001",
		EventType:  usecase.ProductCreated,
		Path:       "/ajax/219/products",
		Body:       usecase.NewProductCreateBody(domain.NewProductDraft("Apple", 1)),
		OccurredAt: occurred,
	}

	payload, err := NewPayloadEncoder().Encode(record)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	event, err := DecodePayload(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	fields := event.GetFields()
	if fields["event_type"].GetStringValue() != "product.created" || fields["path"].GetStringValue() != "/ajax/219/products" {
		t.Fatalf("event = %v", event)
	}
	if fields["occurred_at"].GetStringValue() != "2026-10-17T12:30:00Z" {
		t.Fatalf("occurred_at = %s", fields["occurred_at"].GetStringValue())
	}

	body := fields["body"].GetStructValue().GetFields()
	if body["name"].GetStringValue() != "Apple" || body["recipe_amount"].GetNumberValue() != 1 || body["category_id"].GetNumberValue() != 1 {
		t.Fatalf("body = %v", body)
	}
	if body["measure_type"].GetStringValue() != "KILOGRAM" {
		t.Fatalf("measure_type = %v", body["measure_type"])
	}
}

func TestNewMessage(t *testing.T) {
	msg := newMessage(usecase.NewWriteRawMessageReq("/ajax/219/product_categories", usecase.CategoryCreated, []byte("x")))

	if string(msg.Key) != "/ajax/219/product_categories" || string(msg.Value) != "x" {
		t.Fatalf("message = %+v", msg)
	}
	if len(msg.Headers) != 1 || msg.Headers[0].Key != EventTypeHeader || string(msg.Headers[0].Value) != "category.created" {
		t.Fatalf("headers = %+v", msg.Headers)
	}
}

type fakeOutboxRepo struct {
	mu        sync.Mutex
	batches   [][]*usecase.OutboxEvent
	processed []int64
	getErr    error
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	return event, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(_ context.Context, _ int) ([]*usecase.OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	if len(f.batches) == 0 {
		return nil, nil
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return batch, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processed = append(f.processed, id)
	return nil
}

type fakeProducer struct {
	mu     sync.Mutex
	sent   []*usecase.WriteRawMessageReq
	failOn map[string]error
}

func (f *fakeProducer) WriteRawMessage(_ context.Context, req *usecase.WriteRawMessageReq) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failOn[string(req.Payload)]; ok {
		return err
	}
	f.sent = append(f.sent, req)
	return nil
}

func outboxEvent(id int64, payload string) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:        id,
		EventID:   payload,
		EventType: usecase.ProductCreated,
		Path:      "/ajax/219/products",
		Payload:   []byte(payload),
		Status:    usecase.Processing,
	}
}

func TestDrainPublishesAllBatches(t *testing.T) {
	repo := &fakeOutboxRepo{batches: [][]*usecase.OutboxEvent{
		{outboxEvent(1, "a"), outboxEvent(2, "b")},
		{outboxEvent(3, "c")},
	}}
	producer := &fakeProducer{}
	w := NewOutboxWorker(repo, testLogger(), producer, 2, "")

	w.drain(context.Background())

	if len(producer.sent) != 3 {
		t.Fatalf("sent = %d", len(producer.sent))
	}
	if producer.sent[0].Key != "/ajax/219/products" || producer.sent[0].EventType != usecase.ProductCreated {
		t.Fatalf("message = %+v", producer.sent[0])
	}
	if len(repo.processed) != 3 || repo.processed[2] != 3 {
		t.Fatalf("processed = %v", repo.processed)
	}
}

func TestProcessBatchSkipsFailedEvents(t *testing.T) {
	repo := &fakeOutboxRepo{batches: [][]*usecase.OutboxEvent{
		{outboxEvent(1, "a"), outboxEvent(2, "b")},
	}}
	producer := &fakeProducer{failOn: map[string]error{"a": errors.New("dial tcp: connection refused")}}
	w := NewOutboxWorker(repo, testLogger(), producer, 10, "")

	hasMore, err := w.processBatch(context.Background())
	if err != nil || !hasMore {
		t.Fatalf("hasMore = %v, err = %v", hasMore, err)
	}
	if len(repo.processed) != 1 || repo.processed[0] != 2 {
		t.Fatalf("processed = %v", repo.processed)
	}
}

func TestProcessBatchStopsWhenBrokerDown(t *testing.T) {
	repo := &fakeOutboxRepo{batches: [][]*usecase.OutboxEvent{
		{outboxEvent(1, "a")},
		{outboxEvent(2, "b")},
	}}
	producer := &fakeProducer{failOn: map[string]error{"a": errors.New("broker not available")}}
	w := NewOutboxWorker(repo, testLogger(), producer, 10, "")

	w.drain(context.Background())

	if len(producer.sent) != 0 || len(repo.batches) != 1 {
		t.Fatalf("drain must stop after a fully failed batch: sent %d, left %d", len(producer.sent), len(repo.batches))
	}
}

func TestProcessBatchRepoError(t *testing.T) {
	repo := &fakeOutboxRepo{getErr: errors.New("db down")}
	w := NewOutboxWorker(repo, testLogger(), &fakeProducer{}, 10, "")

	if _, err := w.processBatch(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("dial tcp 127.0.0.1:9092: connect: Connection Refused"), true},
		{errors.New("read: i/o timeout"), true},
		{errors.New("[3] Unknown Topic Or Partition"), false},
	}

	for _, tt := range tests {
		if got := isRetryableError(tt.err); got != tt.want {
			t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

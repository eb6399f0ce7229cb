package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/jitter"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/jackc/pgx/v5"
)

// OutboxChannel — канал LISTEN/NOTIFY, в который пишет триггер outbox_events
const OutboxChannel = "outbox_pending"

type OutboxWorker struct {
	repo      usecase.OutboxRepository
	logger    logger.Logger
	producer  usecase.MessageProducer
	batchSize int
	reconnect jitter.Backoff
	stop      chan struct{}
	stopOnce  sync.Once
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	dbConnStr string
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	batchSize int,
	dbConnStr string,
) *OutboxWorker {
	return &OutboxWorker{
		repo:      repo,
		logger:    logger,
		producer:  producer,
		batchSize: batchSize,
		reconnect: jitter.Backoff{Base: 2 * time.Second, Max: 30 * time.Second, Factor: jitter.DefaultJitter},
		stop:      make(chan struct{}),
		dbConnStr: dbConnStr,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	// Запускаем слушатель уведомлений
	go func() {
		defer w.wg.Done()
		w.listenOutboxNotifications(ctx)
	}()
}

// Stop прерывает ожидание уведомлений и дожидается завершения горутин воркера.
func (w *OutboxWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		if w.cancel != nil {
			w.cancel()
		}
	})
	w.wg.Wait()
}

func (w *OutboxWorker) run(ctx context.Context) {
	// Обрабатываем "остатки" при старте
	w.logger.Infof("Draining pending outbox events on startup...")
	w.drain(ctx)

	select {
	case <-ctx.Done():
		w.logger.Infof("Worker stopped by context cancellation")
	case <-w.stop:
		w.logger.Infof("Worker stopped")
	}
}

// drain обрабатывает батчи, пока в outbox есть ожидающие события.
func (w *OutboxWorker) drain(ctx context.Context) {
	for {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("Batch processing failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	var conn *pgx.Conn

	connect := func() error {
		c, err := pgx.Connect(ctx, w.dbConnStr)
		if err != nil {
			return e.Wrap("failed to connect for LISTEN", err)
		}

		if _, err = c.Exec(ctx, "LISTEN "+OutboxChannel); err != nil {
			c.Close(ctx)
			return e.Wrap("failed to LISTEN", err)
		}

		conn = c
		w.logger.Infof("Subscribed to '%s' channel", OutboxChannel)
		return nil
	}

	if err := connect(); err != nil {
		w.logger.Warnf("Initial connect failed: %v", err)
		return
	}
	defer func() {
		if conn != nil {
			conn.Close(context.Background())
		}
	}()

	attempt := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		default:
		}

		if conn == nil {
			if err := w.reconnect.Sleep(ctx, attempt); err != nil {
				return
			}
			if err := connect(); err != nil {
				w.logger.Warnf("Reconnect failed: %v", err)
				attempt++
				continue
			}
			attempt = 0
			// пока соединения не было, уведомления могли потеряться
			w.drain(ctx)
		}

		ctxWithTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
		notif, err := conn.WaitForNotification(ctxWithTimeout)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				continue
			}
			w.logger.Warnf("Connection lost: %v. Reconnecting...", err)
			conn.Close(ctx)
			conn = nil
			continue
		}

		if notif != nil && notif.Channel == OutboxChannel {
			w.logger.Debugf("Received outbox notification, draining outbox events")
			w.drain(ctx)
		}
	}
}

// processBatch публикует один батч. Возвращает true, если батч был не пустым.
// Событие, которое не удалось отправить, остаётся в PROCESSING и забирается повторно после таймаута блокировки.
func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.batchSize)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	sent := 0
	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			w.logger.Warnf("outbox event %s not published: %v", event.EventID, err)
			continue
		}
		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
			continue
		}
		sent++
	}

	// весь батч упал: брокер недоступен, не крутим цикл впустую
	if sent == 0 {
		return false, nil
	}

	return true, nil
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	req := usecase.NewWriteRawMessageReq(event.Path, event.EventType, event.Payload)
	if err := w.producer.WriteRawMessage(ctx, req); err != nil {
		if isRetryableError(err) {
			return e.Wrap("Temporary Kafka failure, will retry", err)
		}
		return e.Wrap("Permanent Kafka failure", err)
	}
	return nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}

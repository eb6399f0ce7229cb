package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/DRSN-tech/catalog-admin/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// OutboxJournal пишет успешные отправки в outbox-таблицу; публикацией в Kafka занимается OutboxWorker.
type OutboxJournal struct {
	outboxRepo OutboxRepository
	dbPool     transaction.Transactional
	encoder    EventEncoder
	logger     logger.Logger
}

func NewOutboxJournal(
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	encoder EventEncoder,
	logger logger.Logger,
) *OutboxJournal {
	return &OutboxJournal{
		outboxRepo: outboxRepo,
		dbPool:     dbPool,
		encoder:    encoder,
		logger:     logger,
	}
}

// Record сохраняет событие и уведомление outbox_pending в одной транзакции.
func (j *OutboxJournal) Record(ctx context.Context, record *SubmissionRecord) error {
	const op = "OutboxJournal.Record"

	payload, err := j.encoder.Encode(record)
	if err != nil {
		return e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, j.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				j.logger.Warnf("outbox rollback failed: %v", e.Wrap(op, rbErr))
			}
		}
	}()
	ctx = tr.WithTx(ctx, tx.Transaction())

	event := &OutboxEvent{
		EventID:   record.EventID,
		EventType: record.EventType,
		Path:      record.Path,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: record.OccurredAt,
	}

	if _, err = j.outboxRepo.Create(ctx, event); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

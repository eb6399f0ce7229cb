package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/google/uuid"
)

// SubmissionUseCase отправляет формы в бэкенд и возвращает явный результат отправки.
type SubmissionUseCase struct {
	backend CatalogBackend
	journal SubmissionJournal
	logger  logger.Logger
	now     func() time.Time
}

func NewSubmissionUC(backend CatalogBackend, journal SubmissionJournal, logger logger.Logger) *SubmissionUseCase {
	if journal == nil {
		journal = NopJournal{}
	}

	return &SubmissionUseCase{
		backend: backend,
		journal: journal,
		logger:  logger,
		now:     time.Now,
	}
}

// HandleCreate выполняет POST и при успехе вызывает OnSuccess ровно один раз.
// Ошибка записи в журнал не влияет на результат: сущность в бэкенде уже создана.
func (s *SubmissionUseCase) HandleCreate(ctx context.Context, req *CreateReq) SubmitResult {
	const op = "SubmissionUseCase.HandleCreate"

	if err := s.backend.Create(ctx, req.Path, req.Body); err != nil {
		var reqErr *e.RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode != 0 {
			s.logger.Warnf("%s: backend rejected %s with status %d", op, req.Path, reqErr.StatusCode)
		} else {
			s.logger.Errorf(e.Wrap(op, err), "backend request %s failed", req.Path)
		}

		return NewRequestFailedResult(MsgRequestFail)
	}

	s.logger.Infof("created via %s", req.Path)

	record := &SubmissionRecord{
		EventID:    uuid.NewString(),
		EventType:  req.EventType,
		Path:       req.Path,
		Body:       req.Body,
		OccurredAt: s.now().UTC(),
	}
	if err := s.journal.Record(ctx, record); err != nil {
		s.logger.Warnf("failed to journal submission %s: %v", record.EventID, e.Wrap(op, err))
	}

	if req.OnSuccess != nil {
		req.OnSuccess(ctx)
	}

	return NewOKResult(req.SuccessMsg)
}

// NopJournal используется, когда журнал отправок выключен.
type NopJournal struct{}

func (NopJournal) Record(context.Context, *SubmissionRecord) error {
	return nil
}

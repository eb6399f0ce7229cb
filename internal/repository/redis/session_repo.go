package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/internal/repository/redis/converter"
	"github.com/DRSN-tech/catalog-admin/pkg/clients"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// SessionRepo хранит состояние страницы добавления посетителя под ключом его cookie
type SessionRepo struct {
	client *clients.RedisClient
	conv   converter.SessionConverter
	logger logger.Logger
}

func NewSessionRepo(client *clients.RedisClient, conv converter.SessionConverter, logger logger.Logger) *SessionRepo {
	return &SessionRepo{
		client: client,
		conv:   conv,
		logger: logger,
	}
}

// maxUpdateAttempts — сколько раз Update повторяет транзакцию при параллельном изменении сессии
const maxUpdateAttempts = 5

type stringGetter interface {
	Get(ctx context.Context, key string) *r.StringCmd
}

func (s *SessionRepo) Load(ctx context.Context, id string) (*domain.PageSession, error) {
	return s.read(ctx, s.client.Client, id)
}

// Update читает сессию под WATCH, применяет fn и записывает результат в MULTI/EXEC.
// Если ключ изменился между чтением и записью, транзакция повторяется.
func (s *SessionRepo) Update(ctx context.Context, id string, ttl time.Duration, fn func(*domain.PageSession)) error {
	key := sessionKey(id)

	txf := func(tx *r.Tx) error {
		session, err := s.read(ctx, tx, id)
		if err != nil {
			if !errors.Is(err, e.ErrSessionNotFound) {
				return err
			}
			session = &domain.PageSession{}
		}

		fn(session)

		data, err := json.Marshal(s.conv.ToRedisModel(session))
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe r.Pipeliner) error {
			pipe.Set(ctx, key, data, ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, r.TxFailedErr) {
			return e.Wrap(whereami.WhereAmI(), err)
		}
		s.logger.Debugf("session %s changed concurrently, retrying update (attempt %d)", id, attempt+1)
	}

	return e.Wrap(whereami.WhereAmI(), e.ErrSessionConflict)
}

func (s *SessionRepo) read(ctx context.Context, getter stringGetter, id string) (*domain.PageSession, error) {
	data, err := getter.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, e.ErrSessionNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.PageSessionRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		s.logger.Warnf("Redis unmarshal failed for session %s: %v", id, e.Wrap(whereami.WhereAmI(), err))
		return nil, e.ErrSessionNotFound
	}

	return s.conv.ToDomain(&model), nil
}

func sessionKey(id string) string {
	return "add-page:session:" + id
}

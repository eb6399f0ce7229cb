package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/cfg"
	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/internal/repository/redis/converter"
	"github.com/DRSN-tech/catalog-admin/pkg/clients"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

type CategoryCacheRepo struct {
	client    *clients.RedisClient
	conv      converter.CategoryConverter
	cfg       *cfg.RedisCfg
	accountID string
	logger    logger.Logger
}

func NewCategoryCacheRepo(client *clients.RedisClient, conv converter.CategoryConverter,
	cfg *cfg.RedisCfg, accountID string, logger logger.Logger) *CategoryCacheRepo {
	return &CategoryCacheRepo{
		client:    client,
		conv:      conv,
		cfg:       cfg,
		accountID: accountID,
		logger:    logger,
	}
}

// Get возвращает закэшированный список категорий или e.ErrCacheMiss
func (c *CategoryCacheRepo) Get(ctx context.Context) (domain.Categories, error) {
	data, err := c.client.Client.Get(ctx, c.key()).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, e.ErrCacheMiss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.CategoryListRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		c.logger.Warnf("Redis unmarshal failed, dropping categories entry: %v", e.Wrap(whereami.WhereAmI(), err))
		if err := c.client.Client.Del(ctx, c.key()).Err(); err != nil {
			c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, e.ErrCacheMiss
	}

	return c.conv.ToDomain(&model), nil
}

// Set кэширует список категорий на CategoryTTL
func (c *CategoryCacheRepo) Set(ctx context.Context, categories domain.Categories) error {
	data, err := json.Marshal(c.conv.ToRedisModel(categories, time.Now().UTC()))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, c.key(), data, c.cfg.CategoryTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Invalidate удаляет список из кэша
func (c *CategoryCacheRepo) Invalidate(ctx context.Context) error {
	if err := c.client.Client.Del(ctx, c.key()).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// key возвращает Redis-ключ списка категорий аккаунта
func (c *CategoryCacheRepo) key() string {
	return fmt.Sprintf("account:%s:categories", c.accountID)
}

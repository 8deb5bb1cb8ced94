package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/clients"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// CacheRepo кэширует публичные проекции записей каталога.
// Кэш вспомогательный: любая его ошибка логируется и приравнивается к промаху.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.RecordConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.RecordConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProduct возвращает закэшированный товар или (nil, nil) при промахе.
func (c *CacheRepo) GetProduct(ctx context.Context, collection, id string) (*usecase.ProductInfo, error) {
	data, err := c.get(ctx, collection, id)
	if err != nil || data == nil {
		return nil, err
	}

	var model converter.ProductInfoRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, nil
	}

	return c.conv.ProductToUseCase(&model), nil
}

// SetProduct кэширует товар с TTL из конфигурации.
func (c *CacheRepo) SetProduct(ctx context.Context, collection string, info *usecase.ProductInfo) error {
	return c.set(ctx, collection, info.ID, c.conv.ToProductRedisModel(info))
}

// GetDetail возвращает закэшированную detail-запись или (nil, nil) при промахе.
func (c *CacheRepo) GetDetail(ctx context.Context, collection, id string) (*usecase.DetailInfo, error) {
	data, err := c.get(ctx, collection, id)
	if err != nil || data == nil {
		return nil, err
	}

	var model converter.DetailInfoRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, nil
	}

	return c.conv.DetailToUseCase(&model), nil
}

// SetDetail кэширует detail-запись с TTL из конфигурации.
func (c *CacheRepo) SetDetail(ctx context.Context, collection string, info *usecase.DetailInfo) error {
	return c.set(ctx, collection, info.ID, c.conv.ToDetailRedisModel(info))
}

// Delete удаляет записи из кэша по идентификаторам.
func (c *CacheRepo) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.recordKey(collection, id)
	}

	if err := c.client.Client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

func (c *CacheRepo) get(ctx context.Context, collection, id string) ([]byte, error) {
	data, err := c.client.Client.Get(ctx, c.recordKey(collection, id)).Bytes()
	if errors.Is(err, r.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		c.logger.Warnf("Redis GET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return data, nil
}

func (c *CacheRepo) set(ctx context.Context, collection, id string, model any) error {
	data, err := json.Marshal(model)
	if err != nil {
		c.logger.Warnf("Failed to marshal record for caching (key: %s): %v",
			c.recordKey(collection, id), e.Wrap(whereami.WhereAmI(), err))
		return nil
	}

	if err := c.client.Client.Set(ctx, c.recordKey(collection, id), data, c.cfg.RecordTTL).Err(); err != nil {
		c.logger.Warnf("Redis SET failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// recordKey возвращает Redis-ключ записи каталога.
func (c *CacheRepo) recordKey(collection, id string) string {
	return fmt.Sprintf("catalog:%s:%s", collection, id)
}

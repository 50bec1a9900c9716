package redis

import (
	"context"

	"github.com/DRSN-tech/order-backoffice/internal/cfg"
	"github.com/DRSN-tech/order-backoffice/pkg/clients"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/jimlawless/whereami"
)

const idempotencyPrefix = "idempotency:"

// IdempotencyRepo хранит ключи идемпотентности запросов с TTL.
type IdempotencyRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
}

func NewIdempotencyRepo(client *clients.RedisClient, cfg *cfg.RedisCfg) *IdempotencyRepo {
	return &IdempotencyRepo{client: client, cfg: cfg}
}

// Reserve атомарно занимает ключ через SET NX. Возвращает false, если ключ уже занят другим запросом.
func (i *IdempotencyRepo) Reserve(ctx context.Context, key string) (bool, error) {
	ok, err := i.client.Client.SetNX(ctx, idempotencyPrefix+key, 1, i.cfg.IdempotencyTTL).Result()
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return ok, nil
}

func (i *IdempotencyRepo) Release(ctx context.Context, key string) error {
	if err := i.client.Client.Del(ctx, idempotencyPrefix+key).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

package cache

import (
	"context"
	"sync"

	"github.com/boushrabettir/ginder-backend/cfg"
	"github.com/redis/go-redis/v9"
)

type Redis struct {
	Config *cfg.Config
	once   sync.Once
	client *redis.Client
}

func NewRedis(config *cfg.Config) (*Redis, error) {
	return &Redis{
		Config: config,
	}, nil
}

func (r *Redis) Client() *redis.Client {
	r.once.Do(func() {
		r.client = redis.NewClient(&redis.Options{
			Addr:     r.Config.Redis.Addr,
			Password: r.Config.Redis.Password,
			DB:       r.Config.Redis.DB,
		})
	})
	return r.client
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.Client().Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

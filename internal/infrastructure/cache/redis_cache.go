package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/pkg/config"
)

var (
	_ ports.Cache        = (*RedisCache)(nil)
	_ ports.RateLimiter  = (*RedisCache)(nil)
	_ ports.TokenRevoker = (*RedisCache)(nil)
)

const keyPrefix = "rankitpro:"

// RedisCache implementa caché de dashboards, rate limit y revocación de tokens sobre Redis.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisClient crea el cliente. Acepta "host:port" o una URL redis:// / rediss://.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	if strings.HasPrefix(cfg.Addr, "redis://") || strings.HasPrefix(cfg.Addr, "rediss://") {
		opts, err := redis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, fmt.Errorf("redis: parse URL: %w", err)
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), nil
}

// NewRedisCache envuelve un cliente ya creado.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

// Ping verifica conectividad (health check).
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra el cliente subyacente.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetJSON lee y deserializa la clave. false si no existe.
func (c *RedisCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("redis decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON serializa v y lo guarda con TTL.
func (c *RedisCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("redis encode %s: %w", key, err)
	}
	return c.client.Set(ctx, keyPrefix+key, data, ttl).Err()
}

// Delete borra las claves indicadas.
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	return c.client.Del(ctx, full...).Err()
}

// Hit incrementa el contador de la ventana; la primera vez fija la expiración.
func (c *RedisCache) Hit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	k := keyPrefix + "rl:" + key
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis rate limit: %w", err)
	}
	return incr.Val() <= int64(limit), nil
}

// Reset limpia el contador (login exitoso).
func (c *RedisCache) Reset(ctx context.Context, key string) error {
	return c.client.Del(ctx, keyPrefix+"rl:"+key).Err()
}

// Revoke marca el jti como revocado hasta que el token expire.
func (c *RedisCache) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, keyPrefix+"revoked:"+tokenID, "1", ttl).Err()
}

// IsRevoked informa si el jti fue revocado.
func (c *RedisCache) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.client.Exists(ctx, keyPrefix+"revoked:"+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis revoked: %w", err)
	}
	return n > 0, nil
}

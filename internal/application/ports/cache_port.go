package ports

import (
	"context"
	"time"
)

// Cache almacenamiento clave/valor con TTL (dashboards).
// GetJSON devuelve false si la clave no existe.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// RateLimiter ventana fija por clave. Hit suma un intento y devuelve false si se superó el límite.
type RateLimiter interface {
	Hit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Reset(ctx context.Context, key string) error
}

// TokenRevoker lista de jti revocados (logout) hasta su expiración natural.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

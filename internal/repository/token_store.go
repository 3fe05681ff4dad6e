package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "auth:revoked:"

// TokenStore tracks revoked JWT identifiers until their natural expiry.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type tokenStore struct {
	client *redis.Client
}

// NewTokenStore instantiates a Redis-backed token revocation store.
func NewTokenStore(client *redis.Client) TokenStore {
	return &tokenStore{client: client}
}

func (s *tokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.client.Set(ctx, revokedTokenPrefix+jti, "1", ttl).Err()
}

func (s *tokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if _, err := s.client.Get(ctx, revokedTokenPrefix+jti).Result(); err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

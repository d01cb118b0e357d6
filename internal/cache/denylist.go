package cache

import (
	"context"
	"errors"
	"time"
)

const revokedKeyPrefix = "powerscale:revoked:"

// TokenDenylist remembers signed-out token ids until the token would have expired anyway.
type TokenDenylist struct {
	store Store
}

func NewTokenDenylist(store Store) *TokenDenylist {
	return &TokenDenylist{store: store}
}

func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, remaining time.Duration) error {
	if tokenID == "" || remaining <= 0 {
		return nil
	}
	return d.store.Set(ctx, revokedKeyPrefix+tokenID, []byte("1"), remaining)
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	_, err := d.store.Get(ctx, revokedKeyPrefix+tokenID)
	if errors.Is(err, ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

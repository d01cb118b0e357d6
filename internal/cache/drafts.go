package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	DraftTTL       = 24 * time.Hour
	draftKeyPrefix = "powerscale:draft:"
)

// DraftStore parks serialized plan builders between requests.
type DraftStore struct {
	store Store
	ttl   time.Duration
}

func NewDraftStore(store Store) *DraftStore {
	return &DraftStore{store: store, ttl: DraftTTL}
}

func draftKey(kind string, userID int64) string {
	return fmt.Sprintf("%s%s:%d", draftKeyPrefix, kind, userID)
}

// Load returns ErrMiss when the user has no draft of this kind.
func (d *DraftStore) Load(ctx context.Context, kind string, userID int64) ([]byte, error) {
	return d.store.Get(ctx, draftKey(kind, userID))
}

func (d *DraftStore) Save(ctx context.Context, kind string, userID int64, draft []byte) error {
	return d.store.Set(ctx, draftKey(kind, userID), draft, d.ttl)
}

func (d *DraftStore) Delete(ctx context.Context, kind string, userID int64) error {
	return d.store.Delete(ctx, draftKey(kind, userID))
}

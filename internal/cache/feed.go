package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/saeid-a/PowerScaleBack/internal/models"
	log "github.com/sirupsen/logrus"
)

const (
	FeedTTL = 60 * time.Second
	feedKey = "powerscale:feed:default"
)

// FeedCache holds the default profile list shown for an empty search.
type FeedCache struct {
	store Store
	ttl   time.Duration
}

func NewFeedCache(store Store) *FeedCache {
	return &FeedCache{store: store, ttl: FeedTTL}
}

func (f *FeedCache) Get(ctx context.Context) ([]models.PublicProfile, bool) {
	raw, err := f.store.Get(ctx, feedKey)
	if err != nil {
		return nil, false
	}
	var profiles []models.PublicProfile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		log.WithError(err).Warn("discarding unreadable feed cache entry")
		return nil, false
	}
	return profiles, true
}

func (f *FeedCache) Set(ctx context.Context, profiles []models.PublicProfile) {
	raw, err := json.Marshal(profiles)
	if err != nil {
		return
	}
	if err := f.store.Set(ctx, feedKey, raw, f.ttl); err != nil {
		log.WithError(err).Warn("failed to cache default feed")
	}
}

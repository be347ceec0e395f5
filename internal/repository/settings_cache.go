package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vitesse-mobility/service-rental/internal/domain/settings"
)

const settingsCacheKey = "rental:settings"

// CachedSettingsStore is a read-through Redis cache over a settings.Store.
// Settings are read on every price calculation, so the hot path avoids a
// database round trip. Updates invalidate the cache before writing through.
type CachedSettingsStore struct {
	inner  settings.Store
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewCachedSettingsStore wraps the store with a Redis cache.
func NewCachedSettingsStore(inner settings.Store, client *redis.Client, ttl time.Duration, log *zap.Logger) *CachedSettingsStore {
	return &CachedSettingsStore{inner: inner, client: client, ttl: ttl, log: log}
}

// Get returns settings from cache when present, falling back to the inner
// store. Cache failures degrade to the inner store rather than failing the
// request.
func (s *CachedSettingsStore) Get(ctx context.Context) (settings.PlatformSettings, error) {
	cached, err := s.client.Get(ctx, settingsCacheKey).Result()
	if err == nil {
		var ps settings.PlatformSettings
		if err := json.Unmarshal([]byte(cached), &ps); err == nil {
			return ps, nil
		}
		s.log.Warn("discarding malformed settings cache entry")
	} else if err != redis.Nil {
		s.log.Warn("settings cache read failed", zap.Error(err))
	}

	ps, err := s.inner.Get(ctx)
	if err != nil {
		return settings.PlatformSettings{}, err
	}

	if payload, err := json.Marshal(ps); err == nil {
		if err := s.client.Set(ctx, settingsCacheKey, payload, s.ttl).Err(); err != nil {
			s.log.Warn("settings cache write failed", zap.Error(err))
		}
	}
	return ps, nil
}

// Update writes through to the inner store and invalidates the cache.
func (s *CachedSettingsStore) Update(ctx context.Context, ps settings.PlatformSettings) error {
	if err := s.inner.Update(ctx, ps); err != nil {
		return err
	}
	if err := s.client.Del(ctx, settingsCacheKey).Err(); err != nil {
		s.log.Warn("settings cache invalidation failed", zap.Error(err))
	}
	return nil
}

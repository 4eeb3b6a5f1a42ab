package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/mehular0ra/pingme/pkg/models"
)

const presenceTTL = 5 * time.Minute

func InitRedis(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opt.PoolSize = 100
	opt.MinIdleConns = 10
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second
	opt.PoolTimeout = 4 * time.Second

	return redis.NewClient(opt), nil
}

func presenceKey(code string) string {
	return fmt.Sprintf("presence:%s", code)
}

// CachePresence mirrors the durable presence flags into Redis with a short
// TTL. The in-memory registry stays the source of truth for reachability;
// this cache only serves the REST presence lookup.
func (s *Store) CachePresence(presence models.UserPresence) error {
	data, err := json.Marshal(presence)
	if err != nil {
		return err
	}
	return s.RDB.Set(s.Ctx, presenceKey(presence.UserCode), data, presenceTTL).Err()
}

// GetCachedPresence returns the cached presence for code, or nil on a cache
// miss.
func (s *Store) GetCachedPresence(code string) (*models.UserPresence, error) {
	data, err := s.RDB.Get(s.Ctx, presenceKey(code)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var presence models.UserPresence
	if err := json.Unmarshal(data, &presence); err != nil {
		return nil, err
	}
	return &presence, nil
}

package database

import (
	"context"
	"fmt"
	"time"
	"voxadmin/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// Valkey logical databases. Caches are separated from pub/sub so a cache reset
// never touches event traffic.
const (
	// USER_CACHE_INDEX (DB 0) - user profiles and default model preferences
	USER_CACHE_INDEX = iota

	// EVENTS_CACHE_INDEX (DB 1) - pub/sub for configuration change events
	EVENTS_CACHE_INDEX
)

type cacheSlot struct {
	name   string
	index  int
	client *CacheClient
}

func (c *Cache) slots() []cacheSlot {
	return []cacheSlot{
		{name: "user", index: USER_CACHE_INDEX, client: &c.User},
		{name: "events", index: EVENTS_CACHE_INDEX, client: &c.Events},
	}
}

func (s *DB) initializeCacheDB(cfg config.Config) error {
	log := s.log.Function("initializeCacheDB")

	if !cfg.CacheEnabled() {
		log.Warn("cache address not configured, running without cache")
		return nil
	}

	address := fmt.Sprintf("%s:%d", cfg.DatabaseCacheAddress, cfg.DatabaseCachePort)
	log.Info("Connecting to valkey", "address", address)

	for _, slot := range s.Cache.slots() {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{address},
			SelectDB:    slot.index,
		})
		if err != nil {
			s.closeCache()
			return log.Err("failed to create valkey client", err, "cache", slot.name)
		}
		*slot.client = client
	}

	if cfg.DatabaseCacheReset >= 0 {
		go s.resetCacheDB(cfg.DatabaseCacheReset)
	}

	return nil
}

// resetCacheDB flushes one logical database at startup, selected by DB_CACHE_RESET.
func (s *DB) resetCacheDB(index int) {
	log := logger.New("database").File("cache.database").Function("resetCacheDB")

	for _, slot := range s.Cache.slots() {
		if slot.index != index || *slot.client == nil {
			continue
		}

		if err := flushCache(*slot.client); err != nil {
			log.Er("failed to reset cache database", err, "cache", slot.name)
			return
		}
		log.Info("Cache database reset", "cache", slot.name)
		return
	}

	log.Warn("Unknown cache database index", "index", index)
}

func (s *DB) closeCache() {
	for _, slot := range s.Cache.slots() {
		if *slot.client != nil {
			(*slot.client).Close()
			*slot.client = nil
		}
	}
}

func flushCache(client CacheClient) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Do(ctx, client.B().Flushdb().Build()).Error()
}

// FlushAllCaches empties every configured logical database.
func (s *DB) FlushAllCaches() error {
	log := logger.New("database").Function("FlushAllCaches")

	for _, slot := range s.Cache.slots() {
		if *slot.client == nil {
			continue
		}
		if err := flushCache(*slot.client); err != nil {
			return log.Err("failed to flush cache database", err, "cache", slot.name)
		}
		log.Info("Cache database flushed", "cache", slot.name)
	}

	return nil
}

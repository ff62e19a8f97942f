package database

import (
	"fmt"

	"brightnest/config"

	"github.com/valkey-io/valkey-go"
)

// Valkey Database Index Organization
// Each database index provides logical separation for different cache categories
const (
	// GENERAL_CACHE_INDEX (DB 0) - General purpose caching, including the
	// pricing/business configuration blob
	GENERAL_CACHE_INDEX = iota

	// SESSION_CACHE_INDEX (DB 1) - User sessions and auth-related temporary data
	SESSION_CACHE_INDEX

	// HOME_CACHE_INDEX (DB 2) - Home profiles and preferred-cleaner lookups
	HOME_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 3) - Pub/sub event bus and outbound notification queues
	EVENTS_CACHE_INDEX

	// RATE_LIMIT_CACHE_INDEX (DB 4) - Fixed-window rate limit counters
	RATE_LIMIT_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.ErrMsg("failed to initialize cache database: address or port is empty")
	}

	clients := []struct {
		target *CacheClient
		name   string
		index  int
	}{
		{&s.Cache.General, "general", GENERAL_CACHE_INDEX},
		{&s.Cache.Session, "session", SESSION_CACHE_INDEX},
		{&s.Cache.Home, "home", HOME_CACHE_INDEX},
		{&s.Cache.Events, "events", EVENTS_CACHE_INDEX},
		{&s.Cache.RateLimit, "rateLimit", RATE_LIMIT_CACHE_INDEX},
	}

	for _, c := range clients {
		client, err := valkey.NewClient(
			valkey.ClientOption{
				InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
				SelectDB:    c.index,
			},
		)
		if err != nil {
			return log.Err("failed to create valkey client", err, "cache", c.name)
		}
		*c.target = client
	}

	log.Info("cache database initialized")
	return nil
}

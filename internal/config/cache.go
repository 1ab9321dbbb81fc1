package config

import (
	"time"
)

// CacheConfig controls the Redis response cache used on the read-only
// catalog endpoints (movie list, showtime listings). Seat availability is
// deliberately never cached: readers must observe committed bookings
// immediately, and a cached projection would break that.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads cache settings from the environment. The default
// TTL is short because the catalog changes whenever an admin adds a
// showtime.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       getenv("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

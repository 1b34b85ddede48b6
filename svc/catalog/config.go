package catalog

import "time"

// DefaultSuggestDelay is the pause in typing before a suggestion search runs.
const DefaultSuggestDelay = 300 * time.Millisecond

// Config tunes the search cache and the suggestion debounce.
type Config struct {
	CacheSize    int           `env:"CATALOG_CACHE_SIZE" envDefault:"64"`
	CacheTTL     time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"1m"`
	SuggestDelay time.Duration `env:"CATALOG_SUGGEST_DELAY" envDefault:"300ms"`
}

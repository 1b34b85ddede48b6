package session

import "time"

// DefaultCheckInterval is how often the expiry check runs.
const DefaultCheckInterval = 5 * time.Minute

// Config holds the manager settings loaded from the environment.
type Config struct {
	CheckInterval time.Duration `env:"SESSION_CHECK_INTERVAL" envDefault:"5m"`

	// TokenKey enables HS256 signature checks when the backend shares its key.
	TokenKey string `env:"SESSION_TOKEN_KEY"`
}

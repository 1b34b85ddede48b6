package apiclient

import "time"

// Config describes the backend the client talks to.
type Config struct {
	BaseURL          string        `env:"PHARMACY_API_URL" envDefault:"http://localhost:5000/api"`
	Timeout          time.Duration `env:"PHARMACY_API_TIMEOUT" envDefault:"15s"`
	RetryAttempts    uint          `env:"PHARMACY_API_RETRY_ATTEMPTS" envDefault:"3"`
	RetryMaxInterval time.Duration `env:"PHARMACY_API_RETRY_MAX_INTERVAL" envDefault:"2s"`
}

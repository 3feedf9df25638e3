package upstream

import "time"

// Config represents the configuration for the commerce API client
type Config struct {
	// BaseURL is the commerce API base URL, e.g. https://api.example.com/api
	BaseURL string

	// Timeout bounds each request; zero means the 30s default
	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	return nil
}

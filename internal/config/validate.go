package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be > 0 (got %v)", c.Cache.TTL)
	}

	if c.Webhook.DeliveryTimeout <= 0 {
		return fmt.Errorf("webhook.delivery_timeout must be > 0 (got %v)", c.Webhook.DeliveryTimeout)
	}

	if c.RabbitMQ.Queue == "" {
		return fmt.Errorf("rabbitmq.queue must not be empty")
	}

	if c.Report.ArtifactDir == "" {
		return fmt.Errorf("report.artifact_dir must not be empty")
	}

	if c.RateLimit.MaxPerMinute <= 0 {
		return fmt.Errorf("rate_limit.max_per_minute must be > 0 (got %d)", c.RateLimit.MaxPerMinute)
	}

	return nil
}

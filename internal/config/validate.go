package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Game.validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}

	return nil
}

func (g *GameConfig) validate() error {
	if g.UniquenessScanLimit <= 0 {
		return fmt.Errorf("uniqueness_scan_limit must be > 0 (got %d)", g.UniquenessScanLimit)
	}
	if g.ReviewDueLimit <= 0 {
		return fmt.Errorf("review_due_limit must be > 0 (got %d)", g.ReviewDueLimit)
	}
	return nil
}

// internal/routes/assessment/assessment-api/config.go
package assessmentapi

import "immigria-site/internal/common/config"

type Config struct {
	RequireStepFields bool
	MaxBodyBytes      int64
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		RequireStepFields: cfg.Assessment.RequireStepFields,
		MaxBodyBytes:      4 << 10,
	}
}

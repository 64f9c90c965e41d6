// internal/routes/assessment/assessment-wizard/config.go
package assessmentwizard

import (
	"time"

	"immigria-site/internal/common/config"
)

type Config struct {
	CookieName        string
	CookieTTL         time.Duration
	SecureCookie      bool
	RequireStepFields bool
}

func LoadConfig(cfg *config.Config) *Config {
	name := cfg.Sessions.CookieName
	if name == "" {
		name = DefaultCookieName
	}
	return &Config{
		CookieName:        name,
		CookieTTL:         cfg.Sessions.TTL(),
		SecureCookie:      cfg.App.Environment == "production",
		RequireStepFields: cfg.Assessment.RequireStepFields,
	}
}

// internal/routes/forms/lead-form/config.go
package leadform

type Config struct {
	MaxBodyBytes int64
}

func LoadConfig() *Config {
	return &Config{
		MaxBodyBytes: 16 << 10,
	}
}

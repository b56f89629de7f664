package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ConfigError reports a missing or invalid configuration value.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}

var (
	ErrMissingAccessToken   = ConfigError{Message: "missing WHATSAPP_ACCESS_TOKEN"}
	ErrMissingPhoneNumberID = ConfigError{Message: "missing WHATSAPP_PHONE_NUMBER_ID"}
	ErrMissingVerifyToken   = ConfigError{Message: "missing WHATSAPP_VERIFY_TOKEN"}
)

// Config holds the echobot settings, sourced from the environment.
type Config struct {
	AccessToken   string
	PhoneNumberID string
	VerifyToken   string
	BaseURL       string
	APIVersion    string
	Port          string
	LogLevel      string

	Tracing TracingConfig
}

// TracingConfig selects the trace exporter for the demo binary.
type TracingConfig struct {
	Enabled      bool
	UseStdout    bool
	OTLPEndpoint string
	SampleRate   float64
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AccessToken:   os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		VerifyToken:   os.Getenv("WHATSAPP_VERIFY_TOKEN"),
		BaseURL:       os.Getenv("WHATSAPP_BASE_URL"),
		APIVersion:    os.Getenv("WHATSAPP_API_VERSION"),
		Port:          os.Getenv("PORT"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		Tracing: TracingConfig{
			Enabled:      os.Getenv("TRACING_ENABLED") == "true",
			UseStdout:    os.Getenv("TRACING_OTLP_ENDPOINT") == "",
			OTLPEndpoint: os.Getenv("TRACING_OTLP_ENDPOINT"),
			SampleRate:   parseFloat(os.Getenv("TRACING_SAMPLE_RATE"), 0.1),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func validate(c *Config) error {
	if c.AccessToken == "" {
		return ErrMissingAccessToken
	}
	if c.PhoneNumberID == "" {
		return ErrMissingPhoneNumberID
	}
	if c.VerifyToken == "" {
		return ErrMissingVerifyToken
	}
	return nil
}

func applyDefaults(c *Config) {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func parseFloat(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

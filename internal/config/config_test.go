package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("WHATSAPP_ACCESS_TOKEN", "token-123")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "108100000000001")
	t.Setenv("WHATSAPP_VERIFY_TOKEN", "verify-123")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("TRACING_ENABLED", "")
	t.Setenv("TRACING_OTLP_ENDPOINT", "")
	t.Setenv("TRACING_SAMPLE_RATE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token-123", cfg.AccessToken)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Tracing.Enabled)
	assert.True(t, cfg.Tracing.UseStdout)
	assert.InDelta(t, 0.1, cfg.Tracing.SampleRate, 0.0001)
}

func TestLoadReadsOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WHATSAPP_BASE_URL", "https://graph.example.com")
	t.Setenv("WHATSAPP_API_VERSION", "v19.0")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("TRACING_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("TRACING_SAMPLE_RATE", "0.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://graph.example.com", cfg.BaseURL)
	assert.Equal(t, "v19.0", cfg.APIVersion)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Tracing.Enabled)
	assert.False(t, cfg.Tracing.UseStdout)
	assert.Equal(t, "collector:4318", cfg.Tracing.OTLPEndpoint)
	assert.InDelta(t, 0.5, cfg.Tracing.SampleRate, 0.0001)
}

func TestLoadRejectsMissingRequiredValues(t *testing.T) {
	tests := []struct {
		name    string
		unset   string
		wantErr error
	}{
		{name: "access token", unset: "WHATSAPP_ACCESS_TOKEN", wantErr: ErrMissingAccessToken},
		{name: "phone number id", unset: "WHATSAPP_PHONE_NUMBER_ID", wantErr: ErrMissingPhoneNumberID},
		{name: "verify token", unset: "WHATSAPP_VERIFY_TOKEN", wantErr: ErrMissingVerifyToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			cfg, err := Load()
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseFloatFallback(t *testing.T) {
	assert.InDelta(t, 0.25, parseFloat("0.25", 0.1), 0.0001)
	assert.InDelta(t, 0.1, parseFloat("", 0.1), 0.0001)
	assert.InDelta(t, 0.1, parseFloat("lots", 0.1), 0.0001)
}

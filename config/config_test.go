package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "local")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("NEWS_COUNT_ON_HOME_PAGE", "10")

	cfg, err := Load("yanews")
	require.NoError(t, err)

	assert.Equal(t, ":8001", cfg.HTTP.Address)
	assert.Equal(t, 10, cfg.News.PageSize)
	assert.Equal(t, defaultDevSecret, cfg.JWT.SecretKey)
	assert.Equal(t, "yanews", cfg.Tracing.ServiceName)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("HTTP_ADDRESS", ":9999")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("JWT_EXPIRATION_TIME", "120")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("NEWS_COUNT_ON_HOME_PAGE", "3")

	cfg, err := Load("yanote")
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTP.Address)
	assert.Equal(t, "s3cret", cfg.JWT.SecretKey)
	assert.Equal(t, 2*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3, cfg.News.PageSize)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "prod without secret",
			env:  map[string]string{"ENV": "prod", "JWT_SECRET_KEY": ""},
		},
		{
			name: "zero page size",
			env:  map[string]string{"ENV": "local", "NEWS_COUNT_ON_HOME_PAGE": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("yanote")
			assert.Error(t, err)
		})
	}
}

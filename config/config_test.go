package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
webhook:
  url: https://n8n.example.org/webhook/agenda
`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Webhook.Timeout)
	assert.Equal(t, 30, cfg.Webhook.ListPastDays)
	assert.Equal(t, 60, cfg.Webhook.ListFutureDays)
	assert.Equal(t, "America/Boa_Vista", cfg.Webhook.Location.String())
	assert.Equal(t, 2*time.Hour, cfg.Booking.Duration)
	assert.Equal(t, "Balcão", cfg.Booking.DefaultAttendant)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.Equal(t, 3600, cfg.Push.TTL)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  port: 9000
webhook:
  url: https://n8n.example.org/webhook/agenda
  timeout_seconds: 30
  timezone: America/Sao_Paulo
  headers:
    X-Api-Key: secret
booking:
  duration_minutes: 60
  default_attendant: Recepção
`))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Webhook.Timeout)
	assert.Equal(t, "America/Sao_Paulo", cfg.Webhook.Location.String())
	assert.Equal(t, "secret", cfg.Webhook.Headers["X-Api-Key"])
	assert.Equal(t, time.Hour, cfg.Booking.Duration)
	assert.Equal(t, "Recepção", cfg.Booking.DefaultAttendant)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeConfig(t, "server:\n  port: 8080\n"))
	assert.ErrorContains(t, err, "webhook.url")

	_, err = Load(writeConfig(t, `
webhook:
  url: https://n8n.example.org/webhook/agenda
  timezone: Mars/Olympus_Mons
`))
	assert.ErrorContains(t, err, "timezone")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConfigLoad(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Setenv(EnvSourceURL, "")
	t.Setenv(EnvPort, "")

	cfg := `host: "127.0.0.1"
port: "9000"
debug: true
log_level: "DEBUG"
refresh_interval_ms: 2500
maintenance_cron: "30 4 * * *"

map:
  center_lat: 31.5
  center_lng: 74.3
  zoom: 9

source:
  url: "https://tracker.example.com/api/last-location"
  timeout_seconds: 3
  poll_interval_seconds: 7
  insecure_skip_verify: true

storage:
  driver: "postgres"
  host: "localhost"
  port: "5432"
  database: "tracker"
`

	conf, err := New(writeConfig(t, cfg))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", conf.GetListenAddress())
	assert.True(t, conf.Debug)
	assert.Equal(t, log.DebugLevel, conf.GetLogLevel())
	assert.Equal(t, 2500*time.Millisecond, conf.GetRefreshInterval())
	assert.Equal(t, "30 4 * * *", conf.MaintenanceCron)
	assert.Equal(t, Map{
		CenterLat: 31.5,
		CenterLng: 74.3,
		Zoom:      9,
		TileURL:   "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Title:     "Live Vehicle Tracking in Pakistan",
	}, conf.Map)
	assert.Equal(t, Source{
		URL:                 "https://tracker.example.com/api/last-location",
		TimeoutSeconds:      3,
		PollIntervalSeconds: 7,
		InsecureSkipVerify:  true,
	}, conf.Source)
	assert.Equal(t, 3*time.Second, conf.GetSourceTimeout())
	assert.Equal(t, 7*time.Second, conf.GetPollInterval())
	assert.Equal(t, map[string]string{
		"driver":   "postgres",
		"host":     "localhost",
		"port":     "5432",
		"database": "tracker",
	}, conf.Store)
}

func TestConfigDefaults(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Setenv(EnvSourceURL, "")
	t.Setenv(EnvPort, "")

	conf, err := New(writeConfig(t, `
source:
  url: "https://tracker.example.com/api/last-location"
`))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8051", conf.GetListenAddress())
	assert.False(t, conf.Debug)
	assert.Equal(t, log.InfoLevel, conf.GetLogLevel())
	assert.Equal(t, 5*time.Second, conf.GetRefreshInterval())
	assert.Equal(t, 5*time.Second, conf.GetPollInterval())
	assert.Equal(t, 5*time.Second, conf.GetSourceTimeout())
	assert.False(t, conf.Source.InsecureSkipVerify)
	assert.Equal(t, "0 3 * * *", conf.MaintenanceCron)
	assert.Equal(t, 30.3753, conf.Map.CenterLat)
	assert.Equal(t, 69.3451, conf.Map.CenterLng)
	assert.Equal(t, 6, conf.Map.Zoom)
	assert.Equal(t, "sqlite", conf.Store["driver"])
}

func TestConfigEnvironmentOverrides(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Setenv(EnvSourceURL, "https://override.example.com/secret/path")
	t.Setenv(EnvPort, "8099")

	conf, err := New(writeConfig(t, `
port: "8051"
source:
  url: "https://tracker.example.com/api/last-location"
`))
	require.NoError(t, err)

	assert.Equal(t, "https://override.example.com/secret/path", conf.Source.URL)
	assert.Equal(t, "8099", conf.Port)
}

func TestConfigErrors(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Setenv(EnvSourceURL, "")
	t.Setenv(EnvPort, "")

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "Missing source URL",
			content: `port: "8051"`,
		},
		{
			name: "Invalid source URL",
			content: `
source:
  url: "not a url"
`,
		},
		{
			name: "Non-numeric port",
			content: `
port: "http"
source:
  url: "https://tracker.example.com"
`,
		},
		{
			name: "Unknown log level",
			content: `
log_level: "VERBOSE"
source:
  url: "https://tracker.example.com"
`,
		},
		{
			name: "Latitude out of range",
			content: `
map:
  center_lat: 120
source:
  url: "https://tracker.example.com"
`,
		},
		{
			name:    "Broken YAML",
			content: "source: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestConfigMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	_, err = New("")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 3001,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			ReadTimeout:     60 * time.Second,
			WriteTimeout:    5 * time.Second,
			OutboxDepth:     64,
		},
		Chat: ChatConfig{
			MaxMessageLength: 500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestServerAddr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "0.0.0.0:3001", cfg.Server.Addr())
}

func TestInvalidServerPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestInvalidOutboxDepth(t *testing.T) {
	cfg := validConfig()
	cfg.WebSocket.OutboxDepth = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outbox_depth")
}

func TestInvalidChatLength(t *testing.T) {
	cfg := validConfig()
	cfg.Chat.MaxMessageLength = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_message_length")
}

func TestInvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestInvalidLogFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.format")
}

func TestNegativeTimeouts(t *testing.T) {
	cfg := validConfig()
	cfg.WebSocket.ReadTimeout = -time.Second
	cfg.WebSocket.WriteTimeout = -time.Second
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read_timeout")
	assert.Contains(t, err.Error(), "write_timeout")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, 500, cfg.Chat.MaxMessageLength)
	assert.Equal(t, 64, cfg.WebSocket.OutboxDepth)
	assert.Empty(t, cfg.Rooms.CatalogPath)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  host: 127.0.0.1
  port: 8080
websocket:
  read_timeout: 30s
  outbox_depth: 16
chat:
  max_message_length: 200
logging:
  level: debug
  format: console
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, 30*time.Second, cfg.WebSocket.ReadTimeout)
	assert.Equal(t, 16, cfg.WebSocket.OutboxDepth)
	assert.Equal(t, 200, cfg.Chat.MaxMessageLength)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Defaults fill unspecified keys.
	assert.Equal(t, 4096, cfg.WebSocket.ReadBufferSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: -1\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestPortValidationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Server.Port = rapid.IntRange(-100, 70000).Draw(t, "port")
		err := cfg.Validate()
		if cfg.Server.Port >= 1 && cfg.Server.Port <= 65535 {
			assert.NoError(t, err)
		} else {
			assert.Error(t, err)
		}
	})
}

package observability

import (
	"testing"

	"github.com/smallbiznis/orderdesk/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(config.Config{
		AppName:           "  ",
		Environment:       "production",
		AppVersion:        "1.2.3",
		LogLevel:          "WARNING",
		LogFormat:         "Console",
		OTelEnabled:       true,
		OTLPEndpoint:      "collector:4318",
		OTLPProtocol:      "http",
		OTelSamplingRatio: 3,
	})

	assert.Equal(t, "orderdesk", cfg.ServiceName)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.True(t, cfg.OtelEnabled)
	assert.Equal(t, "http/protobuf", cfg.OtelExporterProtocol)
	assert.Equal(t, 1.0, cfg.OtelSamplingRatio)
	assert.False(t, cfg.Debug())
}

func TestLoadConfigDisablesTracingWithoutEndpoint(t *testing.T) {
	cfg := LoadConfig(config.Config{
		Environment:       "development",
		LogLevel:          "verbose",
		OTelEnabled:       true,
		OTelSamplingRatio: -1,
	})

	assert.False(t, cfg.OtelEnabled)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "grpc", cfg.OtelExporterProtocol)
	assert.Equal(t, 0.0, cfg.OtelSamplingRatio)
	assert.True(t, cfg.Debug())
}

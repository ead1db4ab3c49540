package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "yfinance-mcp")
	assert.Contains(t, out.String(), common.GetVersion())
}

func TestRootCommand_Flags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"config", "transport", "host", "port", "log-level"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "t", cmd.Flags().Lookup("transport").Shorthand)
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := common.NewDefaultConfig()
	err := applyFlagOverrides(cfg, flagOverrides{transport: "SSE", host: "127.0.0.1", port: 9001, logLevel: "debug"})
	require.NoError(t, err)

	assert.Equal(t, common.TransportSSE, cfg.Server.Transport)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestApplyFlagOverrides_EmptyKeepsConfig(t *testing.T) {
	cfg := common.NewDefaultConfig()
	require.NoError(t, applyFlagOverrides(cfg, flagOverrides{}))
	assert.Equal(t, common.NewDefaultConfig().Server, cfg.Server)
}

func TestApplyFlagOverrides_InvalidTransport(t *testing.T) {
	cfg := common.NewDefaultConfig()
	err := applyFlagOverrides(cfg, flagOverrides{transport: "websocket"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "websocket")
}

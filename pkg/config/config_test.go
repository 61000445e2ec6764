package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
environment: test
server:
  port: 8080
`

func TestLoad_AppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.MarketData.IndexTicker != "URTH" || c.MarketData.VolTicker != "^VIX" {
		t.Fatalf("ticker defaults = %s/%s", c.MarketData.IndexTicker, c.MarketData.VolTicker)
	}
	if c.MarketData.CacheTTL != 30*time.Minute {
		t.Fatalf("cache ttl = %v", c.MarketData.CacheTTL)
	}
	if c.MarketData.ChartPoints != 504 {
		t.Fatalf("chart points = %d", c.MarketData.ChartPoints)
	}
	if c.Engine.DrawdownB != -20 || c.Engine.DrawdownC != -40 {
		t.Fatalf("drawdown triggers = %v/%v", c.Engine.DrawdownB, c.Engine.DrawdownC)
	}
	if c.Engine.SpreadElevated != 2.5 || c.Engine.SpreadExtreme != 4.5 || c.Engine.VolatilityStress != 30 {
		t.Fatalf("stress triggers = %v/%v/%v",
			c.Engine.SpreadElevated, c.Engine.SpreadExtreme, c.Engine.VolatilityStress)
	}
	if c.Monitor.Interval != 30*time.Minute {
		t.Fatalf("monitor interval = %v", c.Monitor.Interval)
	}
	if c.Redis.Prefix != "gpo" {
		t.Fatalf("redis prefix = %s", c.Redis.Prefix)
	}
	if c.Log.Level != "info" {
		t.Fatalf("log level = %s", c.Log.Level)
	}
}

func TestLoad_ExplicitValuesWin(t *testing.T) {
	c, err := Load(writeConfig(t, `
environment: production
server:
  port: 9000
market_data:
  index_ticker: ACWI
  cache_ttl: 5m
engine:
  drawdown_b: -15
  drawdown_c: -35
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MarketData.IndexTicker != "ACWI" {
		t.Fatalf("index ticker = %s", c.MarketData.IndexTicker)
	}
	if c.MarketData.CacheTTL != 5*time.Minute {
		t.Fatalf("cache ttl = %v", c.MarketData.CacheTTL)
	}
	if c.Engine.DrawdownB != -15 || c.Engine.DrawdownC != -35 {
		t.Fatalf("drawdown triggers = %v/%v", c.Engine.DrawdownB, c.Engine.DrawdownC)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing environment",
			yaml:    "server:\n  port: 8080\n",
			wantErr: "environment is required",
		},
		{
			name:    "missing port",
			yaml:    "environment: test\n",
			wantErr: "server.port is required",
		},
		{
			name:    "positive drawdown trigger",
			yaml:    minimalConfig + "engine:\n  drawdown_b: 20\n  drawdown_c: -40\n",
			wantErr: "must be negative",
		},
		{
			name:    "triggers out of order",
			yaml:    minimalConfig + "engine:\n  drawdown_b: -40\n  drawdown_c: -20\n",
			wantErr: "must be at or below",
		},
		{
			name:    "kafka enabled without brokers",
			yaml:    minimalConfig + "kafka:\n  enabled: true\n  topic: gpo.regime\n",
			wantErr: "kafka.brokers required",
		},
		{
			name:    "clickhouse enabled without host",
			yaml:    minimalConfig + "clickhouse:\n  enabled: true\n",
			wantErr: "clickhouse.host required",
		},
		{
			name:    "stream enabled without url",
			yaml:    minimalConfig + "market_data:\n  stream:\n    enabled: true\n",
			wantErr: "stream.url required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %v, want %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadWithEnv_Overrides(t *testing.T) {
	t.Setenv("FRED_API_KEY", "secret-key")
	t.Setenv("INDEX_TICKER", "VT")

	c, err := LoadWithEnv(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MarketData.FredAPIKey != "secret-key" {
		t.Fatalf("fred api key = %s", c.MarketData.FredAPIKey)
	}
	if c.MarketData.IndexTicker != "VT" {
		t.Fatalf("index ticker = %s", c.MarketData.IndexTicker)
	}
}

func TestLoad_FileMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

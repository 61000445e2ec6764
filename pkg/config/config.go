package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
	MarketData struct {
		ChartBaseURL   string        `yaml:"chart_base_url"`
		IndexTicker    string        `yaml:"index_ticker"`
		VolTicker      string        `yaml:"vol_ticker"`
		HistoryRange   string        `yaml:"history_range"`
		Interval       string        `yaml:"interval"`
		FredBaseURL    string        `yaml:"fred_base_url"`
		FredSeries     string        `yaml:"fred_series"`
		FredAPIKey     string        `yaml:"fred_api_key"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		CacheTTL       time.Duration `yaml:"cache_ttl"`
		ChartPoints    int           `yaml:"chart_points"`
		Stream         struct {
			Enabled        bool          `yaml:"enabled"`
			URL            string        `yaml:"url"`
			APIKey         string        `yaml:"api_key"`
			Symbols        []string      `yaml:"symbols"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay"`
			PingInterval   time.Duration `yaml:"ping_interval"`
		} `yaml:"stream"`
	} `yaml:"market_data"`
	Engine struct {
		DrawdownB        float64 `yaml:"drawdown_b"`
		DrawdownC        float64 `yaml:"drawdown_c"`
		SpreadElevated   float64 `yaml:"spread_elevated"`
		SpreadExtreme    float64 `yaml:"spread_extreme"`
		VolatilityStress float64 `yaml:"volatility_stress"`
	} `yaml:"engine"`
	Monitor struct {
		Enabled  bool          `yaml:"enabled"`
		Interval time.Duration `yaml:"interval"`
	} `yaml:"monitor"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		LogsTopic    string   `yaml:"logs_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FRED_API_KEY"); v != "" {
		c.MarketData.FredAPIKey = v
	}
	if v := os.Getenv("INDEX_TICKER"); v != "" {
		c.MarketData.IndexTicker = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("STREAM_API_KEY"); v != "" {
		c.MarketData.Stream.APIKey = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.MarketData.ChartBaseURL == "" {
		c.MarketData.ChartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	}
	if c.MarketData.IndexTicker == "" {
		c.MarketData.IndexTicker = "URTH"
	}
	if c.MarketData.VolTicker == "" {
		c.MarketData.VolTicker = "^VIX"
	}
	if c.MarketData.HistoryRange == "" {
		c.MarketData.HistoryRange = "5y"
	}
	if c.MarketData.Interval == "" {
		c.MarketData.Interval = "1d"
	}
	if c.MarketData.FredBaseURL == "" {
		c.MarketData.FredBaseURL = "https://api.stlouisfed.org/fred/series/observations"
	}
	if c.MarketData.FredSeries == "" {
		c.MarketData.FredSeries = "BAMLC0A4CBBB"
	}
	if c.MarketData.RequestTimeout <= 0 {
		c.MarketData.RequestTimeout = 10 * time.Second
	}
	if c.MarketData.CacheTTL <= 0 {
		c.MarketData.CacheTTL = 30 * time.Minute
	}
	if c.MarketData.ChartPoints <= 0 {
		c.MarketData.ChartPoints = 504 // ~2 trading years
	}
	if c.Engine.DrawdownB == 0 {
		c.Engine.DrawdownB = -20
	}
	if c.Engine.DrawdownC == 0 {
		c.Engine.DrawdownC = -40
	}
	if c.Engine.SpreadElevated == 0 {
		c.Engine.SpreadElevated = 2.5
	}
	if c.Engine.SpreadExtreme == 0 {
		c.Engine.SpreadExtreme = 4.5
	}
	if c.Engine.VolatilityStress == 0 {
		c.Engine.VolatilityStress = 30
	}
	if c.Monitor.Interval <= 0 {
		c.Monitor.Interval = 30 * time.Minute
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "gpo"
	}
	if c.Kafka.Enabled && c.Kafka.LogsTopic == "" {
		c.Kafka.LogsTopic = "gpo.logs"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Engine.DrawdownB >= 0 || c.Engine.DrawdownC >= 0 {
		return fmt.Errorf("engine drawdown triggers must be negative")
	}
	if c.Engine.DrawdownC > c.Engine.DrawdownB {
		return fmt.Errorf("engine.drawdown_c (%v) must be at or below engine.drawdown_b (%v)",
			c.Engine.DrawdownC, c.Engine.DrawdownB)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when kafka is enabled")
	}
	if c.Kafka.Enabled && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic required when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host required when clickhouse is enabled")
	}
	if c.MarketData.Stream.Enabled && c.MarketData.Stream.URL == "" {
		return fmt.Errorf("market_data.stream.url required when stream is enabled")
	}
	return nil
}

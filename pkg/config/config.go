package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"MarketLens/pkg/util"

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
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Provider struct {
		Name       string        `yaml:"name"` // finnhub or none
		APIKey     string        `yaml:"api_key"`
		BaseURL    string        `yaml:"base_url"`
		Timeout    time.Duration `yaml:"timeout"`
		Retries    int           `yaml:"retries"`
		RetryDelay time.Duration `yaml:"retry_delay"`
		IndexMode  string        `yaml:"index_mode"` // direct or etf_proxy
		RateLimit  struct {
			Capacity     float64 `yaml:"capacity"`
			RefillPerSec float64 `yaml:"refill_per_sec"`
		} `yaml:"rate_limit"`
		Stream struct {
			Enabled        bool          `yaml:"enabled"`
			WebSocketURL   string        `yaml:"websocket_url"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay"`
			PingInterval   time.Duration `yaml:"ping_interval"`
		} `yaml:"stream"`
	} `yaml:"provider"`
	Mock struct {
		Stocks   bool `yaml:"stocks"`
		Market   bool `yaml:"market"`
		Earnings bool `yaml:"earnings"`
	} `yaml:"mock"`
	Cache struct {
		StockTTL        time.Duration `yaml:"stock_ttl"`
		StockMaxEntries int           `yaml:"stock_max_entries"`
		TileTTL         time.Duration `yaml:"tile_ttl"`
		Redis           struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Refresher struct {
		Enabled     bool          `yaml:"enabled"`
		Symbols     []string      `yaml:"symbols"`
		Interval    time.Duration `yaml:"interval"`
		BackoffBase time.Duration `yaml:"backoff_base"`
		BackoffMax  time.Duration `yaml:"backoff_max"`
	} `yaml:"refresher"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// Validation runs after the overrides are applied.
func LoadWithEnv(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}

	c.Server.Port = util.ParseIntDefault(os.Getenv("PORT"), c.Server.Port)
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Provider.APIKey = v
	}
	if v := os.Getenv("STOCK_PROVIDER"); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv("INDEX_MODE"); v != "" {
		c.Provider.IndexMode = v
	}
	c.Mock.Stocks = util.ParseBoolDefault(os.Getenv("MOCK_STOCKS"), c.Mock.Stocks)
	c.Mock.Market = util.ParseBoolDefault(os.Getenv("MOCK_MARKET"), c.Mock.Market)
	c.Mock.Earnings = util.ParseBoolDefault(os.Getenv("MOCK_EARNINGS"), c.Mock.Earnings)
	if v := os.Getenv("TILE_SYMBOLS"); v != "" {
		c.Refresher.Symbols = util.SplitCSV(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Enabled = true
		if host, port, err := net.SplitHostPort(v); err == nil {
			c.Cache.Redis.Host = host
			c.Cache.Redis.Port = util.ParseIntDefault(port, c.Cache.Redis.Port)
		} else {
			c.Cache.Redis.Host = v
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Provider.Name == "" {
		c.Provider.Name = "finnhub"
	}
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = "https://finnhub.io/api/v1"
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = 10 * time.Second
	}
	if c.Provider.Retries == 0 {
		c.Provider.Retries = 2
	}
	if c.Provider.RetryDelay == 0 {
		c.Provider.RetryDelay = 500 * time.Millisecond
	}
	if c.Provider.IndexMode == "" {
		c.Provider.IndexMode = "etf_proxy"
	}
	if c.Provider.RateLimit.Capacity == 0 {
		c.Provider.RateLimit.Capacity = 30
	}
	if c.Provider.RateLimit.RefillPerSec == 0 {
		c.Provider.RateLimit.RefillPerSec = 1
	}
	if c.Provider.Stream.WebSocketURL == "" {
		c.Provider.Stream.WebSocketURL = "wss://ws.finnhub.io"
	}
	if c.Provider.Stream.ReconnectDelay == 0 {
		c.Provider.Stream.ReconnectDelay = 5 * time.Second
	}
	if c.Provider.Stream.PingInterval == 0 {
		c.Provider.Stream.PingInterval = 20 * time.Second
	}
	if c.Cache.StockTTL == 0 {
		c.Cache.StockTTL = 5 * time.Minute
	}
	if c.Cache.StockMaxEntries == 0 {
		c.Cache.StockMaxEntries = 200
	}
	if c.Cache.TileTTL == 0 {
		c.Cache.TileTTL = time.Second
	}
	if c.Cache.Redis.Port == 0 {
		c.Cache.Redis.Port = 6379
	}
	if len(c.Refresher.Symbols) == 0 {
		c.Refresher.Symbols = []string{"^GSPC", "^IXIC", "^DJI", "^RUT"}
	}
	if c.Refresher.Interval == 0 {
		c.Refresher.Interval = 5 * time.Second
	}
	if c.Refresher.BackoffBase == 0 {
		c.Refresher.BackoffBase = 15 * time.Second
	}
	if c.Refresher.BackoffMax == 0 {
		c.Refresher.BackoffMax = 60 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Provider.Name != "finnhub" && c.Provider.Name != "none" {
		return fmt.Errorf("provider.name must be 'finnhub' or 'none', got '%s'", c.Provider.Name)
	}
	if c.Provider.IndexMode != "direct" && c.Provider.IndexMode != "etf_proxy" {
		return fmt.Errorf("provider.index_mode must be 'direct' or 'etf_proxy', got '%s'", c.Provider.IndexMode)
	}
	allMock := c.Mock.Stocks && c.Mock.Market && c.Mock.Earnings
	if c.Provider.Name == "finnhub" && !allMock && c.Provider.APIKey == "" {
		return fmt.Errorf("provider.api_key is required unless all mock flags are set")
	}
	if c.Refresher.Enabled && c.Refresher.Interval <= 0 {
		return fmt.Errorf("refresher.interval must be positive")
	}
	if c.Refresher.BackoffMax < c.Refresher.BackoffBase {
		return fmt.Errorf("refresher.backoff_max must be >= backoff_base")
	}
	return nil
}

// MockAll reports whether every data domain is in mock mode.
func (c *Config) MockAll() bool {
	return c.Mock.Stocks && c.Mock.Market && c.Mock.Earnings
}

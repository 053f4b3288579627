// Package config exposes strongly typed application configuration loaded
// from YAML, with credentials overlaid from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment,
// metrics address, and logging level.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Exchange describes venue connectivity and instrument precision. The API
// key and secret come only from the environment, never from the YAML file.
type Exchange struct {
	BaseURL      string `yaml:"base_url"`
	Symbol       string `yaml:"symbol"`
	PricePlaces  int32  `yaml:"price_places"`
	AmountPlaces int32  `yaml:"amount_places"`
	APIKey       string `yaml:"-"`
	APISecret    string `yaml:"-"`
}

// Strategy holds the percentage thresholds and trade sizing for the
// dip-buy/gain-sell cycle.
type Strategy struct {
	BuyDropPercent  float64 `yaml:"buy_drop_percent"`
	SellGainPercent float64 `yaml:"sell_gain_percent"`
	TradeSize       float64 `yaml:"trade_size"`
}

// Risk encodes guard-rails for how much size a single trade may take on.
type Risk struct {
	MaxNotionalPerTrade float64 `yaml:"max_notional_per_trade"`
}

// Feed configures how ticks are triggered: HTTP polling or the public
// websocket stream.
type Feed struct {
	Provider       string `yaml:"provider"`
	PollIntervalMs int    `yaml:"poll_interval_ms"`
	StreamURL      string `yaml:"stream_url"`
}

// Trader holds orchestrator settings: dry-run switch and state file paths.
type Trader struct {
	DryRun      bool   `yaml:"dry_run"`
	StatePath   string `yaml:"state_path"`
	JournalPath string `yaml:"journal_path"`
}

// Notify configures the Telegram outcome channel. Token and chat come only
// from the environment.
type Notify struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"-"`
	ChatID  string `yaml:"-"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Exchange Exchange `yaml:"exchange"`
	Strategy Strategy `yaml:"strategy"`
	Risk     Risk     `yaml:"risk"`
	Feed     Feed     `yaml:"feed"`
	Trader   Trader   `yaml:"trader"`
	Notify   Notify   `yaml:"notify"`
}

// Load reads a YAML file, overlays environment secrets, applies defaults,
// and validates. A .env file next to the process is honored when present.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	_ = godotenv.Load()
	config.fromEnv()
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) fromEnv() {
	c.Exchange.APIKey = os.Getenv("BITKUB_API_KEY")
	c.Exchange.APISecret = os.Getenv("BITKUB_API_SECRET")
	c.Notify.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	c.Notify.ChatID = os.Getenv("TELEGRAM_CHAT_ID")
}

func (c *Config) applyDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Exchange.PricePlaces == 0 {
		c.Exchange.PricePlaces = 2
	}
	if c.Exchange.AmountPlaces == 0 {
		c.Exchange.AmountPlaces = 8
	}
	if c.Feed.Provider == "" {
		c.Feed.Provider = "poll"
	}
	if c.Feed.PollIntervalMs <= 0 {
		c.Feed.PollIntervalMs = 10000
	}
	if c.Trader.StatePath == "" {
		c.Trader.StatePath = "data/position.json"
	}
	if c.Trader.JournalPath == "" {
		c.Trader.JournalPath = "data/trades.jsonl"
	}
}

// Validate rejects configurations that would trade incorrectly. Missing
// credentials are fatal at startup unless the trader runs dry.
func (c *Config) Validate() error {
	if c.Exchange.Symbol == "" {
		return fmt.Errorf("exchange.symbol is required")
	}
	if c.Strategy.BuyDropPercent <= 0 {
		return fmt.Errorf("strategy.buy_drop_percent must be > 0")
	}
	if c.Strategy.SellGainPercent <= 0 {
		return fmt.Errorf("strategy.sell_gain_percent must be > 0")
	}
	if c.Strategy.TradeSize <= 0 {
		return fmt.Errorf("strategy.trade_size must be > 0")
	}
	if !c.Trader.DryRun && (c.Exchange.APIKey == "" || c.Exchange.APISecret == "") {
		return fmt.Errorf("BITKUB_API_KEY and BITKUB_API_SECRET are required unless trader.dry_run is set")
	}
	if c.Notify.Enabled && (c.Notify.Token == "" || c.Notify.ChatID == "") {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are required when notify.enabled is set")
	}
	return nil
}

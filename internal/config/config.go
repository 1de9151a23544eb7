// Package config exposes strongly typed application configuration structs
// loaded from YAML, with environment overrides for credentials.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment,
// metrics, and logging.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	LogLevel    string `yaml:"log_level"`
	PrettyLog   bool   `yaml:"pretty_log"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Venue describes the websocket endpoint and credentials for the trading
// venue. The API token can also be supplied via DERIV_API_TOKEN (a .env
// file is honored) so it never has to live in the config file.
type Venue struct {
	WSURL    string `yaml:"ws_url"`
	AppID    string `yaml:"app_id"`
	APIToken string `yaml:"api_token"`
}

// Endpoint returns the dialable URL with the app id applied.
func (v Venue) Endpoint() string {
	u, err := url.Parse(v.WSURL)
	if err != nil {
		return v.WSURL
	}
	q := u.Query()
	q.Set("app_id", v.AppID)
	u.RawQuery = q.Encode()
	return u.String()
}

// Trading holds the immutable contract parameters plus the pacing knobs
// for the loop. Millisecond fields of zero mean "no delay".
type Trading struct {
	Symbol          string  `yaml:"symbol"`
	ContractType    string  `yaml:"contract_type"`
	DurationTicks   int     `yaml:"duration_ticks"`
	Currency        string  `yaml:"currency"`
	LastDigit       int     `yaml:"last_digit"`
	BaseStake       float64 `yaml:"base_stake"`
	NumTrades       int     `yaml:"num_trades"`
	IncreaseRate    float64 `yaml:"increase_rate"`
	TradeInterval   int     `yaml:"trade_interval"`
	TradeDelayMs    int     `yaml:"trade_delay_ms"`
	PollIntervalMs  int     `yaml:"poll_interval_ms"`
	SettleTimeoutMs int     `yaml:"settle_timeout_ms"`
}

// TradeDelay is the pause between placement attempts.
func (t Trading) TradeDelay() time.Duration {
	return time.Duration(t.TradeDelayMs) * time.Millisecond
}

// PollInterval is the pause between settlement status queries.
func (t Trading) PollInterval() time.Duration {
	return time.Duration(t.PollIntervalMs) * time.Millisecond
}

// SettleTimeout bounds how long a single contract is watched for
// settlement. Zero keeps watching indefinitely.
func (t Trading) SettleTimeout() time.Duration {
	return time.Duration(t.SettleTimeoutMs) * time.Millisecond
}

// Journal configures the optional sqlite settlement journal. An empty
// path disables it.
type Journal struct {
	Path string `yaml:"path"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App     App     `yaml:"app"`
	Venue   Venue   `yaml:"venue"`
	Trading Trading `yaml:"trading"`
	Journal Journal `yaml:"journal"`
}

// Default returns the stock configuration: the R_50 digit-differ loop the
// bot was built around. The API token is intentionally absent.
func Default() *Config {
	return &Config{
		App: App{
			Name:        "derivbot",
			Env:         "dev",
			LogLevel:    "info",
			MetricsAddr: ":9109",
		},
		Venue: Venue{
			WSURL: "wss://ws.binaryws.com/websockets/v3",
			AppID: "1089",
		},
		Trading: Trading{
			Symbol:         "R_50",
			ContractType:   "DIGITDIFF",
			DurationTicks:  2,
			Currency:       "USD",
			LastDigit:      5,
			BaseStake:      100,
			NumTrades:      1000,
			IncreaseRate:   0.02,
			TradeInterval:  5,
			TradeDelayMs:   1000,
			PollIntervalMs: 500,
		},
	}
}

// Load reads a YAML file from disk, hydrates a Config, and applies
// environment overrides. Validation is left to the caller so partial
// configs can still be assembled from flags.
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
	config.applyEnv()
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	_ = godotenv.Load()
	if v := os.Getenv("DERIV_API_TOKEN"); v != "" {
		c.Venue.APIToken = v
	}
	if v := os.Getenv("DERIV_APP_ID"); v != "" {
		c.Venue.AppID = v
	}
}

// Validate rejects configurations the trading loop cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Venue.WSURL == "":
		return fmt.Errorf("venue.ws_url is required")
	case c.Venue.AppID == "":
		return fmt.Errorf("venue.app_id is required")
	case c.Venue.APIToken == "":
		return fmt.Errorf("venue.api_token is required (or set DERIV_API_TOKEN)")
	case c.Trading.Symbol == "":
		return fmt.Errorf("trading.symbol is required")
	case c.Trading.ContractType == "":
		return fmt.Errorf("trading.contract_type is required")
	case c.Trading.Currency == "":
		return fmt.Errorf("trading.currency is required")
	case c.Trading.DurationTicks <= 0:
		return fmt.Errorf("trading.duration_ticks must be positive")
	case c.Trading.LastDigit < 0 || c.Trading.LastDigit > 9:
		return fmt.Errorf("trading.last_digit must be a single digit")
	case c.Trading.BaseStake <= 0:
		return fmt.Errorf("trading.base_stake must be positive")
	case c.Trading.NumTrades <= 0:
		return fmt.Errorf("trading.num_trades must be positive")
	case c.Trading.IncreaseRate < 0:
		return fmt.Errorf("trading.increase_rate must not be negative")
	case c.Trading.TradeInterval <= 0:
		return fmt.Errorf("trading.trade_interval must be positive")
	case c.Trading.TradeDelayMs < 0 || c.Trading.PollIntervalMs < 0 || c.Trading.SettleTimeoutMs < 0:
		return fmt.Errorf("trading delays must not be negative")
	}
	return nil
}

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/simaogato/ledger-engine/internal/domain"
)

// envPrefix namespaces every setting, e.g. LEDGER_HTTP_ADDR
const envPrefix = "LEDGER"

// Config holds the process settings
type Config struct {
	HTTPAddr         string
	GRPCAddr         string
	LogLevel         string
	GinMode          string
	CORSAllowOrigins []string
	ShutdownTimeout  time.Duration

	// SeedBalances are opening deposits applied at startup
	SeedBalances map[string]int64

	Limits domain.Limits
}

// Load reads the configuration from the environment, falling back to defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	limits := domain.DefaultLimits()
	v.SetDefault("http_addr", ":8000")
	v.SetDefault("grpc_addr", ":9090")
	v.SetDefault("log_level", "info")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("cors_allow_origins", "*")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("seed_balances", "")
	v.SetDefault("per_transfer_limit", limits.PerTransfer)
	v.SetDefault("daily_transfer_limit", limits.DailyOutbound)
	v.SetDefault("rate_limit", limits.RatePerWindow)
	v.SetDefault("rate_window", limits.RateWindow.String())
	v.SetDefault("idempotency_ttl", limits.IdempotencyTTL.String())

	seed, err := ParseSeedBalances(v.GetString("seed_balances"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:         v.GetString("http_addr"),
		GRPCAddr:         v.GetString("grpc_addr"),
		LogLevel:         v.GetString("log_level"),
		GinMode:          v.GetString("gin_mode"),
		CORSAllowOrigins: splitList(v.GetString("cors_allow_origins")),
		ShutdownTimeout:  v.GetDuration("shutdown_timeout"),
		SeedBalances:     seed,
		Limits: domain.Limits{
			PerTransfer:    v.GetInt64("per_transfer_limit"),
			DailyOutbound:  v.GetInt64("daily_transfer_limit"),
			RatePerWindow:  v.GetInt("rate_limit"),
			RateWindow:     v.GetDuration("rate_window"),
			IdempotencyTTL: v.GetDuration("idempotency_ttl"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with
func (c *Config) Validate() error {
	if c.Limits.PerTransfer <= 0 {
		return fmt.Errorf("per_transfer_limit must be positive, got %d", c.Limits.PerTransfer)
	}
	if c.Limits.DailyOutbound <= 0 {
		return fmt.Errorf("daily_transfer_limit must be positive, got %d", c.Limits.DailyOutbound)
	}
	if c.Limits.RatePerWindow <= 0 {
		return fmt.Errorf("rate_limit must be positive, got %d", c.Limits.RatePerWindow)
	}
	if c.Limits.RateWindow <= 0 {
		return fmt.Errorf("rate_window must be positive, got %s", c.Limits.RateWindow)
	}
	if c.Limits.IdempotencyTTL <= 0 {
		return fmt.Errorf("idempotency_ttl must be positive, got %s", c.Limits.IdempotencyTTL)
	}
	return nil
}

// ParseSeedBalances parses "alice=1000,bob=500" into opening balances.
// Each account may appear once.
func ParseSeedBalances(raw string) (map[string]int64, error) {
	balances := make(map[string]int64)
	for _, pair := range splitList(raw) {
		id, amount, ok := strings.Cut(pair, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid seed balance %q: want account=amount", pair)
		}
		n, err := strconv.ParseInt(strings.TrimSpace(amount), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed balance %q: %w", pair, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("invalid seed balance %q: amount must be positive", pair)
		}
		if _, dup := balances[id]; dup {
			return nil, fmt.Errorf("invalid seed balance %q: account %s listed twice", pair, id)
		}
		balances[id] = n
	}
	return balances, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

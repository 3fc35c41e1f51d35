package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"hostbill-payments/internal/domain/model"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CORSOrigins    []string      `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Issuer    string `yaml:"issuer"`
}

type PayUConfig struct {
	MerchantKey string `yaml:"merchant_key"`
	Salt        string `yaml:"salt"`
	BaseURL     string `yaml:"base_url"` // payment action endpoint
	SuccessURL  string `yaml:"success_url"`
	FailureURL  string `yaml:"failure_url"`
}

func (c PayUConfig) Configured() bool { return c.MerchantKey != "" && c.Salt != "" }

type UPIConfig struct {
	PayeeVPA     string `yaml:"payee_vpa"`
	MerchantName string `yaml:"merchant_name"`
}

func (c UPIConfig) Configured() bool { return c.PayeeVPA != "" && c.MerchantName != "" }

type CashfreeConfig struct {
	AppID       string `yaml:"app_id"`
	SecretKey   string `yaml:"secret_key"`
	RedirectURL string `yaml:"redirect_url"`
}

func (c CashfreeConfig) Configured() bool { return c.AppID != "" && c.SecretKey != "" }

type CheckoutConfig struct {
	BaseURL string `yaml:"base_url"` // hosted checkout page base
}

func (c CheckoutConfig) Configured() bool { return c.BaseURL != "" }

// PaymentConfig carries every provider credential plus the explicit
// development-only mock gate. Business logic never reads the process
// environment; everything it needs is injected from here.
type PaymentConfig struct {
	PayU     PayUConfig     `yaml:"payu"`
	UPI      UPIConfig      `yaml:"upi"`
	Cashfree CashfreeConfig `yaml:"cashfree"`
	Checkout CheckoutConfig `yaml:"checkout"`
	MockMode bool           `yaml:"mock_mode"` // dev-only mock fallback for unconfigured providers
}

type ReconcilerConfig struct {
	Interval   time.Duration `yaml:"interval"`
	StaleAfter time.Duration `yaml:"stale_after"`
}

// PlanPrice is rupees per billing cycle for one tier.
type PlanPrice struct {
	Monthly int64 `yaml:"monthly"`
	Yearly  int64 `yaml:"yearly"`
}

type Config struct {
	Log        LogConfig            `yaml:"log"`
	Server     ServerConfig         `yaml:"server"`
	Database   DatabaseConfig       `yaml:"database"`
	Redis      RedisConfig          `yaml:"redis"`
	Auth       AuthConfig           `yaml:"auth"`
	Payment    PaymentConfig        `yaml:"payment"`
	Reconciler ReconcilerConfig     `yaml:"reconciler"`
	Plans      map[string]PlanPrice `yaml:"plans"`

	Runtime RuntimeConfig `yaml:"-"`
}

// PlanPriceRupees resolves the configured price for a plan+cycle; ok is
// false when the table has no entry.
func (c *Config) PlanPriceRupees(plan model.Plan, cycle model.BillingCycle) (int64, bool) {
	p, ok := c.Plans[string(plan)]
	if !ok {
		return 0, false
	}
	switch cycle {
	case model.BillingYearly:
		return p.Yearly, p.Yearly > 0
	default:
		return p.Monthly, p.Monthly > 0
	}
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	// Secrets may be supplied as ${ENV_VAR} references in the YAML.
	b = []byte(os.ExpandEnv(string(b)))

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 15 * time.Second
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.Reconciler.Interval <= 0 {
		cfg.Reconciler.Interval = time.Minute
	}
	if cfg.Reconciler.StaleAfter <= 0 {
		cfg.Reconciler.StaleAfter = 10 * time.Minute
	}
	if cfg.Payment.PayU.BaseURL == "" {
		cfg.Payment.PayU.BaseURL = "https://secure.payu.in/_payment"
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	if cfg.Payment.MockMode && !dev {
		return nil, errors.New("payment.mock_mode is a development-only setting")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

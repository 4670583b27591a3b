package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host         string `yaml:"host"`
		Port         int    `yaml:"port"`
		Env          string `yaml:"env"`
		PublicURL    string `yaml:"public_url"`
		CookieDomain string `yaml:"cookie_domain"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Session struct {
		Secret     string `yaml:"secret"`
		TTLMinutes int    `yaml:"ttl_minutes"`
	} `yaml:"session"`

	Identity struct {
		Issuer   string `yaml:"issuer"`
		ClientID string `yaml:"client_id"`
	} `yaml:"identity"`

	Billing struct {
		SecretKey       string            `yaml:"secret_key"`
		PriceIDs        map[string]string `yaml:"price_ids"`        // plan -> configured price id (environment-specific)
		LookupKeyPrefix string            `yaml:"lookup_key_prefix"` // stable across test/live accounts
		PlanAmounts     map[string]int64  `yaml:"plan_amounts"`      // plan -> monthly amount in minor units
		Currency        string            `yaml:"currency"`
		SuccessURL      string            `yaml:"success_url"`
		CancelURL       string            `yaml:"cancel_url"`
		PortalReturnURL string            `yaml:"portal_return_url"`
	} `yaml:"billing"`
}

var AppConfig *Config

// LoadConfig loads configuration from config/config.yaml, or entirely from
// environment variables when DATABASE_URL is set (test and container mode).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.Server.PublicURL = os.Getenv("PUBLIC_URL")
	cfg.Server.CookieDomain = os.Getenv("COOKIE_DOMAIN")
	cfg.Session.Secret = os.Getenv("SESSION_SECRET")
	cfg.Session.TTLMinutes = 60
	cfg.Identity.Issuer = os.Getenv("IDENTITY_ISSUER")
	cfg.Identity.ClientID = os.Getenv("IDENTITY_CLIENT_ID")
	cfg.Billing.SecretKey = os.Getenv("BILLING_SECRET_KEY")
	cfg.Billing.SuccessURL = os.Getenv("BILLING_SUCCESS_URL")
	cfg.Billing.CancelURL = os.Getenv("BILLING_CANCEL_URL")
	cfg.Billing.PortalReturnURL = os.Getenv("BILLING_PORTAL_RETURN_URL")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Session.TTLMinutes == 0 {
		cfg.Session.TTLMinutes = 60
	}
	if cfg.Billing.LookupKeyPrefix == "" {
		cfg.Billing.LookupKeyPrefix = "cardbox"
	}
	if cfg.Billing.Currency == "" {
		cfg.Billing.Currency = "usd"
	}
	if cfg.Billing.PlanAmounts == nil {
		cfg.Billing.PlanAmounts = map[string]int64{
			"pro":    900,
			"studio": 2900,
		}
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

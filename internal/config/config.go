package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Cheertaboi/restaurant-service/pkg/db"
)

// Config holds all configuration for the restaurant service.
type Config struct {
	Server       ServerConfig      `yaml:"server"`
	Database     db.PostgresConfig `yaml:"database"`
	RabbitMQ     RabbitMQConfig    `yaml:"rabbitmq"`
	Pricing      PricingConfig     `yaml:"pricing"`
	Reservations ReservationConfig `yaml:"reservations"`
	Cache        CacheConfig       `yaml:"cache"`
	Log          LogConfig         `yaml:"log"`
	// FixturesPath names a YAML file with fallback catalog content. Empty
	// means the built-in fixtures.
	FixturesPath string `yaml:"fixtures"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
}

// RabbitMQConfig holds the event broker settings. An empty URL disables
// event publishing.
type RabbitMQConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

type PricingConfig struct {
	Currency           string          `yaml:"currency"`
	TaxPercent         decimal.Decimal `yaml:"tax_percent"`
	DefaultDeliveryFee decimal.Decimal `yaml:"default_delivery_fee"`
	// TotalTolerance is how far a client-computed amount may drift from the
	// server computation before the order is rejected.
	TotalTolerance decimal.Decimal `yaml:"total_tolerance"`
	DeliveryETA    time.Duration   `yaml:"delivery_eta"`
	TakeawayETA    time.Duration   `yaml:"takeaway_eta"`
	PaymentMethods []string        `yaml:"payment_methods"`
	MaxQuantity    int             `yaml:"max_quantity"`
}

type ReservationConfig struct {
	SlotCapacity    int      `yaml:"slot_capacity"`
	MaxPartySize    int      `yaml:"max_party_size"`
	Slots           []string `yaml:"slots"`
	Location        string   `yaml:"location"`
	LargePartyPhone string   `yaml:"large_party_phone"`
}

type CacheConfig struct {
	CatalogTTL time.Duration `yaml:"catalog_ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RequestTimeout:  10 * time.Second,
		},
		Database: db.DefaultPostgresConfig(),
		RabbitMQ: RabbitMQConfig{Exchange: "restaurant_events"},
		Pricing: PricingConfig{
			Currency:           "Rs.",
			TaxPercent:         decimal.Zero,
			DefaultDeliveryFee: decimal.Zero,
			TotalTolerance:     decimal.NewFromInt(1),
			DeliveryETA:        45 * time.Minute,
			TakeawayETA:        20 * time.Minute,
			PaymentMethods:     []string{"cash", "card"},
			MaxQuantity:        50,
		},
		Reservations: ReservationConfig{
			SlotCapacity: 10,
			MaxPartySize: 12,
			Slots:        DefaultSlots(),
			Location:     "Asia/Karachi",
		},
		Cache: CacheConfig{CatalogTTL: 5 * time.Minute},
		Log:   LogConfig{Level: "info"},
	}
}

// DefaultSlots lists reservation times from 12:00 to 22:30 every 30 minutes.
func DefaultSlots() []string {
	var slots []string
	for h := 12; h <= 22; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return slots
}

// Load reads filename over the defaults, applies environment overrides and
// validates the result. An empty filename skips the file.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		content, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		c.RabbitMQ.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("FIXTURES_PATH"); v != "" {
		c.FixturesPath = v
	}
	return c.Database.ApplyEnv()
}

func (c *Config) Validate() error {
	var errs []error
	if c.Database.Driver != "postgres" && c.Database.Driver != "memory" {
		errs = append(errs, fmt.Errorf("database.driver must be postgres or memory, got %q", c.Database.Driver))
	}
	if c.Server.WriteTimeout > 0 && c.Server.RequestTimeout >= c.Server.WriteTimeout {
		errs = append(errs, errors.New("server.request_timeout must be shorter than server.write_timeout"))
	}
	if c.Database.QueryTimeout <= 0 {
		errs = append(errs, errors.New("database.query_timeout must be positive"))
	}
	if c.Reservations.SlotCapacity <= 0 {
		errs = append(errs, errors.New("reservations.slot_capacity must be positive"))
	}
	if c.Reservations.MaxPartySize <= 0 {
		errs = append(errs, errors.New("reservations.max_party_size must be positive"))
	}
	if len(c.Reservations.Slots) == 0 {
		errs = append(errs, errors.New("reservations.slots must not be empty"))
	}
	for _, s := range c.Reservations.Slots {
		if _, err := time.Parse("15:04", s); err != nil {
			errs = append(errs, fmt.Errorf("reservations.slots: invalid time %q", s))
		}
	}
	if _, err := time.LoadLocation(c.Reservations.Location); err != nil {
		errs = append(errs, fmt.Errorf("reservations.location: %w", err))
	}
	if c.Pricing.TaxPercent.IsNegative() || c.Pricing.DefaultDeliveryFee.IsNegative() || c.Pricing.TotalTolerance.IsNegative() {
		errs = append(errs, errors.New("pricing amounts must not be negative"))
	}
	if len(c.Pricing.PaymentMethods) == 0 {
		errs = append(errs, errors.New("pricing.payment_methods must not be empty"))
	}
	if c.Pricing.MaxQuantity <= 0 {
		errs = append(errs, errors.New("pricing.max_quantity must be positive"))
	}
	return errors.Join(errs...)
}

// ReservationLocation is the restaurant's time zone, used to decide what
// "today" means for reservation dates.
func (c *Config) ReservationLocation() *time.Location {
	loc, err := time.LoadLocation(c.Reservations.Location)
	if err != nil {
		return time.UTC
	}
	return loc
}

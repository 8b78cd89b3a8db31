// Package config defines the environment variables and command-line flags
// supported by the express checkout and includes default values for particular
// fields.
package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/companieshouse/gofigure"
	"github.com/go-playground/validator/v10"

	paypal "github.com/adobaai/paypal-express"
	"github.com/adobaai/paypal-express/checkout"
	"github.com/adobaai/paypal-express/store"
)

var cfg *Config
var mtx sync.Mutex

// Token store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

// Config defines the configuration options of the express checkout.
type Config struct {
	ShopURL string `env:"SHOP_URL"    flag:"shop-url"    flagDesc:"Base URL of the shop checkout steps" validate:"required,url"`
	ShopID  string `env:"SHOP_ID"     flag:"shop-id"     flagDesc:"ID of the shop users are searched in"`
	// MallUsers makes users of all shops visible to each other.
	MallUsers bool `env:"MALL_USERS" flag:"mall-users" flagDesc:"Search users across all shops"`

	SandboxMode     bool   `env:"PAYPAL_SANDBOX"           flag:"paypal-sandbox"           flagDesc:"Run against the PayPal sandbox"`
	ClientID        string `env:"PAYPAL_CLIENT_ID"         flag:"paypal-client-id"         flagDesc:"Live REST client ID"         validate:"required_if=SandboxMode false"`
	Secret          string `env:"PAYPAL_SECRET"            flag:"paypal-secret"            flagDesc:"Live REST secret"            validate:"required_if=SandboxMode false"`
	SandboxClientID string `env:"PAYPAL_SANDBOX_CLIENT_ID" flag:"paypal-sandbox-client-id" flagDesc:"Sandbox REST client ID"      validate:"required_if=SandboxMode true"`
	SandboxSecret   string `env:"PAYPAL_SANDBOX_SECRET"    flag:"paypal-sandbox-secret"    flagDesc:"Sandbox REST secret"         validate:"required_if=SandboxMode true"`
	// InsecureSkipVerify disables TLS certificate checks. Only for local sandbox testing.
	InsecureSkipVerify bool `env:"PAYPAL_INSECURE_SKIP_VERIFY" flag:"paypal-insecure-skip-verify" flagDesc:"Disable TLS verification (local sandbox testing only)"`
	ConnectTimeout     int  `env:"PAYPAL_CONNECT_TIMEOUT"      flag:"paypal-connect-timeout"      flagDesc:"Connect timeout in seconds" validate:"min=1"`
	Timeout            int  `env:"PAYPAL_TIMEOUT"              flag:"paypal-timeout"              flagDesc:"Total timeout in seconds"   validate:"min=1,gtefield=ConnectTimeout"`

	TokenStore string `env:"TOKEN_STORE"        flag:"token-store"        flagDesc:"Bearer token store: memory, redis or mongo" validate:"oneof=memory redis mongo"`
	RedisURL   string `env:"REDIS_URL"          flag:"redis-url"          flagDesc:"Redis URL of the token store"             validate:"required_if=TokenStore redis"`
	MongoDBURL string `env:"MONGODB_URL"        flag:"mongodb-url"        flagDesc:"MongoDB server URL of the token store"    validate:"required_if=TokenStore mongo"`
	Database   string `env:"MONGODB_DATABASE"   flag:"mongodb-database"   flagDesc:"MongoDB database of the token store"`
	Collection string `env:"MONGODB_COLLECTION" flag:"mongodb-collection" flagDesc:"MongoDB collection of the token store"`

	ReturnURL   string `env:"PAYPAL_RETURN_URL"   flag:"paypal-return-url"   flagDesc:"URL PayPal returns the buyer to"      validate:"required,url"`
	CancelURL   string `env:"PAYPAL_CANCEL_URL"   flag:"paypal-cancel-url"   flagDesc:"URL PayPal sends cancelling buyers to" validate:"required,url"`
	Locale      string `env:"PAYPAL_LOCALE"       flag:"paypal-locale"       flagDesc:"Locale of the PayPal pages"`
	LandingPage string `env:"PAYPAL_LANDING_PAGE" flag:"paypal-landing-page" flagDesc:"PayPal landing page"                   validate:"oneof=LOGIN BILLING NO_PREFERENCE"`
	UserAction  string `env:"PAYPAL_USER_ACTION"  flag:"paypal-user-action"  flagDesc:"PayPal user action"                    validate:"oneof=CONTINUE PAY_NOW"`

	TransactionMode  string `env:"PAYPAL_TRANSACTION_MODE" flag:"paypal-transaction-mode" flagDesc:"Sale, Authorization or Automatic" validate:"oneof=Sale Authorization Automatic"`
	FinalizeOnPayPal bool   `env:"PAYPAL_FINALIZE_ON_PAYPAL" flag:"paypal-finalize-on-paypal" flagDesc:"Finalize the order right after returning from PayPal"`
}

// DefaultConfig returns a pointer to a Config instance that has been populated
// with default values.
func DefaultConfig() *Config {
	return &Config{
		ShopID:          "1",
		SandboxMode:     true,
		ConnectTimeout:  int(paypal.DefaultConnectTimeout / time.Second),
		Timeout:         int(paypal.DefaultTimeout / time.Second),
		TokenStore:      StoreMemory,
		Database:        "shop",
		Collection:      "config",
		LandingPage:     paypal.DefaultLandingPage,
		UserAction:      paypal.DefaultUserAction,
		TransactionMode: paypal.TransactionSale,
	}
}

// Get returns a pointer to a Config instance that has been populated with
// values provided by the environment or command-line flags, or with default
// values if none are provided.
func Get() (*Config, error) {
	mtx.Lock()
	defer mtx.Unlock()

	if cfg != nil {
		return cfg, nil
	}

	cfg = DefaultConfig()

	err := gofigure.Gofigure(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ApplicationContext returns the fields sent with every order.
func (c *Config) ApplicationContext() paypal.StaticContext {
	return paypal.StaticContext{
		ReturnURL:   c.ReturnURL,
		CancelURL:   c.CancelURL,
		Locale:      c.Locale,
		LandingPage: c.LandingPage,
		UserAction:  c.UserAction,
	}
}

// Settings returns the shop settings of the checkout.
func (c *Config) Settings() checkout.Settings {
	return checkout.Settings{
		ShopID:           c.ShopID,
		MallUsers:        c.MallUsers,
		FinalizeOnPayPal: c.FinalizeOnPayPal,
		TransactionMode:  c.TransactionMode,
	}
}

// NewStore connects the configured token store. The returned function releases it.
func (c *Config) NewStore(ctx context.Context) (paypal.Store, func(context.Context) error, error) {
	switch c.TokenStore {
	case StoreRedis:
		s, err := store.ConnectRedis(c.RedisURL, "paypal")
		if err != nil {
			return nil, nil, err
		}
		return s, func(context.Context) error { return s.Close() }, nil
	case StoreMongo:
		return store.ConnectMongo(ctx, c.MongoDBURL, c.Database, c.Collection)
	}
	return store.NewMemory(), func(context.Context) error { return nil }, nil
}

// NewClient returns a PayPal client storing its bearer tokens in s.
func (c *Config) NewClient(s paypal.Store, opts ...paypal.Option) *paypal.Client {
	opts = append([]paypal.Option{
		paypal.WithTimeouts(
			time.Duration(c.ConnectTimeout)*time.Second,
			time.Duration(c.Timeout)*time.Second,
		),
		paypal.WithApplicationContext(c.ApplicationContext()),
	}, opts...)
	if c.InsecureSkipVerify {
		opts = append(opts, paypal.WithInsecureSkipVerify())
	}
	return paypal.NewClient(
		paypal.Live(c.ClientID, c.Secret),
		paypal.Sandbox(c.SandboxClientID, c.SandboxSecret),
		paypal.StaticMode(c.SandboxMode),
		s,
		opts...,
	)
}

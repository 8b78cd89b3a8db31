package paypal

import (
	"context"
	"net/url"

	sdk "github.com/plutov/paypal/v4"
)

const (
	liveWebBase    = "https://www.paypal.com"
	sandboxWebBase = "https://www.sandbox.paypal.com"
)

// Env is one PayPal environment: its endpoints and the credential pair used there.
type Env struct {
	Name    string
	APIBase string
	WebBase string

	ClientID string
	Secret   string
}

// Live returns the production environment for the given credentials.
func Live(id, secret string) *Env {
	return &Env{
		Name:     "live",
		APIBase:  sdk.APIBaseLive,
		WebBase:  liveWebBase,
		ClientID: id,
		Secret:   secret,
	}
}

// Sandbox returns the sandbox environment for the given credentials.
func Sandbox(id, secret string) *Env {
	return &Env{
		Name:     "sandbox",
		APIBase:  sdk.APIBaseSandBox,
		WebBase:  sandboxWebBase,
		ClientID: id,
		Secret:   secret,
	}
}

// CheckoutNowURL is where the buyer is redirected to approve the order.
func (e *Env) CheckoutNowURL(token string) string {
	return e.WebBase + "/checkoutnow?token=" + url.QueryEscape(token)
}

func (e *Env) tokenKey() string {
	return "paypal_" + e.Name + "_auth_token"
}

func (e *Env) validUntilKey() string {
	return "paypal_" + e.Name + "_auth_token_valid_until"
}

// Mode reports which environment the shop currently runs against.
type Mode interface {
	SandboxEnabled(ctx context.Context) bool
}

// StaticMode is a [Mode] that never changes.
type StaticMode bool

func (m StaticMode) SandboxEnabled(context.Context) bool {
	return bool(m)
}

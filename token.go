package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/companieshouse/chs.go/log"
	"golang.org/x/sync/singleflight"
)

// Store is the shop-wide key-value configuration storage the bearer token is persisted in.
// Get returns an empty string for unknown keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Token is the PayPal OAuth2 token response.
type Token struct {
	Scope       string `json:"scope"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	AppID       string `json:"app_id"`
	Nonce       string `json:"nonce"`
	ExpiresIn   int    `json:"expires_in"`
	expiresAt   time.Time
}

// ExpiresAt is the time the token was requested plus its lifetime.
func (t *Token) ExpiresAt() time.Time {
	return t.expiresAt
}

// BearerToken is the persisted form of a token.
type BearerToken struct {
	Value      string
	ValidUntil time.Time
}

// Valid reports whether the token may still be used at now.
func (t BearerToken) Valid(now time.Time) bool {
	return t.Value != "" && now.Before(t.ValidUntil)
}

// TokenCache hands out the bearer token of an environment, refreshing it
// through the auth endpoint when the persisted one is missing or expired.
//
// The store is the only shared state: concurrent refreshes from different
// processes may race and the last successful write wins.
// Refreshes within one process are collapsed.
type TokenCache struct {
	store Store
	hc    *http.Client
	now   func() time.Time
	group singleflight.Group
}

func newTokenCache(store Store, hc *http.Client, now func() time.Time) *TokenCache {
	return &TokenCache{store: store, hc: hc, now: now}
}

// Token returns a valid bearer token for env.
func (tc *TokenCache) Token(ctx context.Context, env *Env) (string, error) {
	t, err := tc.Load(ctx, env)
	if err != nil {
		return "", err
	}
	if t.Valid(tc.now()) {
		return t.Value, nil
	}

	if _, err, _ = tc.group.Do(env.Name, func() (any, error) {
		return nil, tc.refresh(ctx, env)
	}); err != nil {
		return "", err
	}

	if t, err = tc.Load(ctx, env); err != nil {
		return "", err
	}
	if !t.Valid(tc.now()) {
		return "", &AuthenticationError{Kind: AuthMissingToken}
	}
	return t.Value, nil
}

// Load reads the persisted token of env.
func (tc *TokenCache) Load(ctx context.Context, env *Env) (res BearerToken, err error) {
	if res.Value, err = tc.store.Get(ctx, env.tokenKey()); err != nil {
		return res, fmt.Errorf("load token: %w", err)
	}
	raw, err := tc.store.Get(ctx, env.validUntilKey())
	if err != nil {
		return res, fmt.Errorf("load token validity: %w", err)
	}
	if raw == "" {
		return res, nil
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// Unreadable validity means the token is stale.
		return BearerToken{}, nil
	}
	res.ValidUntil = time.Unix(sec, 0)
	return res, nil
}

// Save persists t as the token of env.
func (tc *TokenCache) Save(ctx context.Context, env *Env, t BearerToken) error {
	if err := tc.store.Set(ctx, env.tokenKey(), t.Value); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	until := strconv.FormatInt(t.ValidUntil.Unix(), 10)
	if err := tc.store.Set(ctx, env.validUntilKey(), until); err != nil {
		return fmt.Errorf("save token validity: %w", err)
	}
	return nil
}

func (tc *TokenCache) refresh(ctx context.Context, env *Env) error {
	t, err := tc.Auth(ctx, env)
	if err != nil {
		log.Error(err, log.Data{"environment": env.Name})
		return err
	}
	bt := BearerToken{Value: strings.TrimSpace(t.AccessToken), ValidUntil: t.expiresAt}
	if err = tc.Save(ctx, env, bt); err != nil {
		return err
	}
	log.Info("paypal bearer token refreshed", log.Data{
		"environment": env.Name,
		"valid_until": bt.ValidUntil.Format(time.RFC3339),
	})
	return nil
}

// Auth requests a new token from PayPal server.
// See https://developer.paypal.com/api/rest/authentication/.
func (tc *TokenCache) Auth(ctx context.Context, env *Env) (res *Token, err error) {
	ctx = WithOperation(ctx, "Auth")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		env.APIBase+"/v1/oauth2/token", strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.SetBasicAuth(env.ClientID, env.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := tc.now()
	hres, err := tc.hc.Do(req)
	if err != nil {
		return nil, &AuthenticationError{Kind: AuthTransport, Err: err}
	}
	defer hres.Body.Close()
	bs, err := io.ReadAll(hres.Body)
	if err != nil {
		return nil, &AuthenticationError{Kind: AuthTransport, Status: hres.StatusCode, Err: err}
	}

	var fields map[string]json.RawMessage
	if err = json.Unmarshal(bs, &fields); err != nil {
		return nil, &AuthenticationError{Kind: AuthJSONDecode, Status: hres.StatusCode, Err: err}
	}
	malformed := &AuthenticationError{Kind: AuthMalformedResponse, Status: hres.StatusCode, Body: string(bs)}
	if hres.StatusCode >= 400 {
		e := &Error{StatusCode: hres.StatusCode}
		if json.Unmarshal(bs, e) == nil {
			malformed.Err = e
		}
		return nil, malformed
	}
	for _, name := range []string{"access_token", "expires_in", "token_type"} {
		if _, ok := fields[name]; !ok {
			return nil, malformed
		}
	}
	res = new(Token)
	if err = json.Unmarshal(bs, res); err != nil {
		malformed.Err = err
		return nil, malformed
	}
	if !strings.EqualFold(res.TokenType, "bearer") {
		return nil, malformed
	}

	res.expiresAt = start.Add(time.Duration(res.ExpiresIn) * time.Second)
	return
}

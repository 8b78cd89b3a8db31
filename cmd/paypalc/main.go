// Command paypalc creates, inspects and captures PayPal orders with the
// configured credentials.
//
// Configuration flags come before the command:
//
//	paypalc [config flags] create-order -amount 12.34 -currency EUR
//	paypalc [config flags] details TOKEN
//	paypalc [config flags] capture TOKEN
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/companieshouse/chs.go/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	paypal "github.com/adobaai/paypal-express"
	"github.com/adobaai/paypal-express/config"
)

var commands = []string{"create-order", "details", "capture"}

func main() {
	log.Namespace = "paypalc"
	if err := do(context.Background()); err != nil {
		fmt.Println("ERR:", err)
		os.Exit(1)
	}
}

func do(ctx context.Context) (err error) {
	i := slices.IndexFunc(os.Args[1:], func(a string) bool { return slices.Contains(commands, a) })
	if i < 0 {
		return fmt.Errorf("nothing to do")
	}

	cfg, err := config.Get()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return
	}
	s, closeStore, err := cfg.NewStore(ctx)
	if err != nil {
		return fmt.Errorf("token store: %w", err)
	}
	defer func() {
		if cerr := closeStore(ctx); cerr != nil {
			log.Error(cerr, log.Data{"token_store": cfg.TokenStore})
		}
	}()

	c := &cli{
		client:       cfg.NewClient(s),
		out:          os.Stdout,
		newRequestID: uuid.NewString,
	}
	return c.run(ctx, os.Args[1+i:])
}

type cli struct {
	client       *paypal.Client
	out          io.Writer
	newRequestID func() string
}

func (c *cli) run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(c.out)
	switch args[0] {
	case "create-order":
		return c.createOrder(ctx, fs, args[1:])
	case "details":
		return c.details(ctx, fs, args[1:])
	case "capture":
		return c.capture(ctx, fs, args[1:])
	}
	return fmt.Errorf("unknown command: %s", args[0])
}

func (c *cli) createOrder(ctx context.Context, fs *flag.FlagSet, args []string) (err error) {
	amount := fs.String("amount", "", "Order amount, e.g. 12.34")
	currency := fs.String("currency", "EUR", "ISO 4217 currency code")
	mode := fs.String("mode", paypal.TransactionSale, "Transaction mode: Sale or Authorization")
	standard := fs.Bool("standard", false, "Do not let the buyer choose a shipping address at PayPal")
	requestID := fs.String("request-id", "", "Idempotency key, random if empty")
	if err = fs.Parse(args); err != nil {
		return
	}

	value, err := decimal.NewFromString(*amount)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	if !value.IsPositive() {
		return fmt.Errorf("amount must be positive: %s", value)
	}
	if !slices.Contains([]string{paypal.TransactionSale, paypal.TransactionAuthorization}, *mode) {
		return fmt.Errorf("unknown transaction mode: %s", *mode)
	}
	id := *requestID
	if id == "" {
		id = c.newRequestID()
	}

	token, err := c.client.CreateOrder(ctx, &paypal.CreateOrderReq{
		RequestID:       id,
		Amount:          value,
		CurrencyCode:    *currency,
		TransactionMode: *mode,
		Express:         !*standard,
	})
	if err != nil {
		return
	}
	_, err = fmt.Fprintf(c.out, "token: %s\nrequest id: %s\napprove: %s\n",
		token, id, c.client.CheckoutNowURL(ctx, token))
	return
}

func (c *cli) details(ctx context.Context, fs *flag.FlagSet, args []string) (err error) {
	token, err := parseToken(fs, args)
	if err != nil {
		return
	}
	order, err := c.client.OrderDetails(ctx, token)
	if err != nil {
		return
	}
	return c.print(order)
}

func (c *cli) capture(ctx context.Context, fs *flag.FlagSet, args []string) (err error) {
	requestID := fs.String("request-id", "", "Idempotency key, random if empty")
	token, err := parseToken(fs, args)
	if err != nil {
		return
	}
	id := *requestID
	if id == "" {
		id = c.newRequestID()
	}
	order, err := c.client.CaptureOrder(ctx, &paypal.CaptureOrderReq{ID: token, RequestID: id})
	if err != nil {
		return
	}
	return c.print(order)
}

func parseToken(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", errors.New("expected exactly one order token")
	}
	return fs.Arg(0), nil
}

func (c *cli) print(o *paypal.Order) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(o)
}

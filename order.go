package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/companieshouse/chs.go/log"
	"github.com/shopspring/decimal"
)

// OrderIndent is the intent to either capture payment immediately
// or authorize a payment for an order after order creation.
//
// See https://developer.paypal.com/docs/api/orders/v2/#orders_create!path=intent&t=request.
type OrderIntent string

const (
	OICapture   OrderIntent = "CAPTURE"
	OIAuthorize OrderIntent = "AUTHORIZE"
)

type OrderStatus string

const (
	// OSCreated indicates the order was created with the specified context.
	OSCreated OrderStatus = "CREATED"

	// OSSaved indicates the order was saved and persisted.
	OSSaved OrderStatus = "SAVED"

	// OSApproved indicates the customer approved the payment through the PayPal wallet
	// or another form of guest or unbranded payment.
	// For example, a card, bank account, or so on.
	OSApproved OrderStatus = "APPROVED"

	// OSVoided indicates all purchase units in the order are voided.
	OSVoided OrderStatus = "VOIDED"

	// OSCompleted indicates the payment was authorized
	// or the authorized payment was captured for the order.
	OSCompleted OrderStatus = "COMPLETED"

	// OSPayerActionRequired indicates the order requires an action from the payer
	// (e.g. 3DS authentication).
	OSPayerActionRequired OrderStatus = "PAYER_ACTION_REQUIRED"
)

// PurchaseUnit represents either a full or partial order
// that the payer intends to purchase from the payee.
//
// See https://developer.paypal.com/docs/api/orders/v2/#orders_create!path=purchase_units&t=request.
type PurchaseUnit struct {
	ReferenceID string  `json:"reference_id,omitempty"`
	Amount      *Amount `json:"amount"` // Requried

	// Description is the purchase description.
	Description string `json:"description,omitempty"`

	// Shipping is only present in responses.
	Shipping *Shipping `json:"shipping,omitempty"`
}

// Amount is the total order amount.
//
// See https://developer.paypal.com/docs/api/orders/v2/#orders_create!path=purchase_units/amount&t=request.
type Amount struct {
	// CurrencyCode is the three-character ISO-4217 currency code that identifies the currency.
	//
	// Required.
	CurrencyCode string `json:"currency_code"`
	// Required.
	Value string `json:"value"`
}

// Decimal parses the amount value.
func (a *Amount) Decimal() (decimal.Decimal, error) {
	if a == nil {
		return decimal.Zero, fmt.Errorf("no amount")
	}
	return decimal.NewFromString(a.Value)
}

// Shipping is the shipping name and address selected by the payer.
type Shipping struct {
	Name    *ShippingName    `json:"name,omitempty"`
	Address *ShippingAddress `json:"address,omitempty"`
}

type ShippingName struct {
	FullName string `json:"full_name"`
}

// ShippingAddress is a PayPal portable postal address.
//
// See https://developer.paypal.com/docs/api/orders/v2/#definition-address_portable.
type ShippingAddress struct {
	AddressLine1 string `json:"address_line_1,omitempty"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	AdminArea1   string `json:"admin_area_1,omitempty"` // State or province
	AdminArea2   string `json:"admin_area_2,omitempty"` // City
	PostalCode   string `json:"postal_code,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`
}

type PayerName struct {
	GivenName string `json:"given_name"`
	Surname   string `json:"surname"`
}

// Payer is the customer who approves and pays for the order.
type Payer struct {
	PayerID      string     `json:"payer_id"`
	EmailAddress string     `json:"email_address"`
	Name         *PayerName `json:"name,omitempty"`
}

// GivenName returns the payer's given name, empty when PayPal sent none.
func (p *Payer) GivenName() string {
	if p == nil || p.Name == nil {
		return ""
	}
	return p.Name.GivenName
}

// Surname returns the payer's surname, empty when PayPal sent none.
func (p *Payer) Surname() string {
	if p == nil || p.Name == nil {
		return ""
	}
	return p.Name.Surname
}

// Order is the PayPal order.
// Fields PayPal may omit are pointers or slices, nil when absent.
//
// See https://developer.paypal.com/docs/api/orders/v2/#definition-order.
type Order struct {
	ID            string          `json:"id,omitempty"`
	Intent        OrderIntent     `json:"intent,omitempty"`
	PurchaseUnits []*PurchaseUnit `json:"purchase_units,omitempty"`
	Status        OrderStatus     `json:"status,omitempty"`
	Payer         *Payer          `json:"payer,omitempty"`
	CreateTime    *time.Time      `json:"create_time,omitempty"`
	UpdateTime    *time.Time      `json:"update_time,omitempty"`
	Links         []*Link         `json:"links,omitempty"`
}

// Shipping returns the shipping of the first purchase unit, nil if there is none.
func (o *Order) Shipping() *Shipping {
	if len(o.PurchaseUnits) == 0 || o.PurchaseUnits[0] == nil {
		return nil
	}
	return o.PurchaseUnits[0].Shipping
}

// Amount returns the amount of the first purchase unit.
func (o *Order) Amount() (decimal.Decimal, error) {
	if len(o.PurchaseUnits) == 0 || o.PurchaseUnits[0] == nil {
		return decimal.Zero, fmt.Errorf("no purchase units")
	}
	return o.PurchaseUnits[0].Amount.Decimal()
}

// Link returns the href of the link with the given rel.
func (o *Order) Link(rel string) string {
	for _, l := range o.Links {
		if l != nil && l.Rel == rel {
			return l.HRef
		}
	}
	return ""
}

// CreateOrderReq is the input of [Client.CreateOrder].
type CreateOrderReq struct {
	// RequestID is the idempotency key. Retrying with the same ID and payload
	// does not create a second order, use a new ID when the amount or currency changes.
	RequestID       string
	Amount          decimal.Decimal
	CurrencyCode    string
	TransactionMode string
	Express         bool
}

// WithApplicationContext sets the source of return/cancel URLs, locale, landing page and user action.
func WithApplicationContext(src ContextSource) Option {
	return func(o *options) { o.context = src }
}

// CreateOrder creates an order and returns its ID, the token the buyer approves at PayPal.
//
// See https://developer.paypal.com/docs/api/orders/v2/#orders_create.
func (c *Client) CreateOrder(ctx context.Context, req *CreateOrderReq) (token string, err error) {
	ctx = WithOperation(ctx, "CreateOrder")
	env := c.Env(ctx)
	body, err := c.orders.BuildJSON(ctx, req.Amount, req.CurrencyCode, req.TransactionMode, req.Express)
	if err != nil {
		return "", fmt.Errorf("build order: %w", err)
	}
	header := http.Header{}
	header.Set("PayPal-Request-Id", req.RequestID)
	header.Set("Prefer", "return=minimal")

	res, err := JSON[Order](ctx, c, env, http.MethodPost, "/v2/checkout/orders", header,
		json.RawMessage(body), "id")
	if err != nil {
		return
	}
	log.Info("paypal order created", log.Data{
		"environment": env.Name,
		"request_id":  req.RequestID,
		"token":       res.ID,
	})
	return res.ID, nil
}

// OrderDetails shows details for an order.
//
// See https://developer.paypal.com/docs/api/orders/v2/#orders_get.
func (c *Client) OrderDetails(ctx context.Context, token string) (res *Order, err error) {
	ctx = WithOperation(ctx, "OrderDetails")
	env := c.Env(ctx)
	header := http.Header{}
	header.Set("Prefer", "return=representation")
	res, err = JSON[Order](ctx, c, env, http.MethodGet, "/v2/checkout/orders/"+url.PathEscape(token),
		header, nil, "id")
	if err != nil {
		return
	}
	log.Debug("paypal order details fetched", log.Data{"token": res.ID, "status": res.Status})
	return
}

type CaptureOrderReq struct {
	ID        string `json:"-"`
	RequestID string `json:"-"`
}

// CaptureOrder captures payment for an order.
//
// See https://developer.paypal.com/docs/api/orders/v2/#orders_capture.
func (c *Client) CaptureOrder(ctx context.Context, req *CaptureOrderReq) (res *Order, err error) {
	ctx = WithOperation(ctx, "CaptureOrder")
	env := c.Env(ctx)
	header := http.Header{}
	if req.RequestID != "" {
		header.Set("PayPal-Request-Id", req.RequestID)
	}
	path := "/v2/checkout/orders/" + url.PathEscape(req.ID) + "/capture"
	return JSON[Order](ctx, c, env, http.MethodPost, path, header, req, "id")
}

// CheckoutNowURL returns the buyer redirect for token in the current environment.
func (c *Client) CheckoutNowURL(ctx context.Context, token string) string {
	return c.Env(ctx).CheckoutNowURL(token)
}

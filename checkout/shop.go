// Package checkout reconciles an approved PayPal express order with the shop
// and drives the express checkout steps around it.
//
// The shop's users, addresses, basket, payments and session are consumed
// through the interfaces of this file.
package checkout

import (
	"context"

	"github.com/shopspring/decimal"

	paypal "github.com/adobaai/paypal-express"
)

//go:generate mockgen -destination=mock_checkout.go -package=checkout -self_package=github.com/adobaai/paypal-express/checkout github.com/adobaai/paypal-express/checkout Users,Addresses,Payments

const (
	// PaymentID is the shop payment method of PayPal.
	PaymentID = "oxidpaypal"
	// EmptyPaymentID is the shop's "no payment required" method.
	EmptyPaymentID = "oxempty"
	// DefaultShippingID is applied to the basket on return, PayPal cannot select one.
	DefaultShippingID = "oxidstandard"
	// GroupNotYetOrdered is assigned to users created from PayPal data.
	GroupNotYetOrdered = "oxidnotyetordered"
)

// Session keys.
const (
	SessionUser            = "usr"
	SessionDeliveryAddress = "deladrid"
	SessionPaymentID       = "paymentid"
	SessionExpress         = "oepaypal"
	SessionToken           = "oepaypal-token"
	SessionRequestID       = "oepaypal-requestId"
	SessionRequestKey      = "oepaypal-requestKey"
	SessionPayPalUserID    = "oepaypal-userId"
	SessionPayerID         = "oepaypal-payerId"
	SessionBasketAmount    = "oepaypal-basketAmount"
	SessionMessage         = "oepaypal-message"
)

// AddressFields are the name and postal fields shared by users and addresses.
type AddressFields struct {
	Company    string
	FirstName  string
	LastName   string
	Street     string
	StreetNr   string
	AddInfo    string
	City       string
	CountryID  string
	StateID    string
	Zip        string
	Phone      string
	Fax        string
	Salutation string
}

// User is a shop customer. The embedded fields are the invoice address.
type User struct {
	ID     string
	ShopID string
	Email  string
	Active bool
	Groups []string

	AddressFields
}

// Users is the shop's user storage.
type Users interface {
	// FindIDByEmail returns the ID of the user with the given login email,
	// empty if there is none. An empty shopID searches all shops.
	FindIDByEmail(ctx context.Context, email, shopID string) (string, error)
	// Load returns nil without error for unknown IDs.
	Load(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User) (string, error)
	EnsureAutoGroups(ctx context.Context, userID, countryID string) error
	AddToGroup(ctx context.Context, userID, group string) error
}

// Addresses is the storage of users' additional delivery addresses.
type Addresses interface {
	// FindMatching returns the ID of an address of the user equal in every
	// field to f, empty if there is none.
	FindMatching(ctx context.Context, userID string, f AddressFields) (string, error)
	Create(ctx context.Context, userID string, f AddressFields) (string, error)
}

// Countries resolves ISO codes to shop identifiers, empty when unknown.
type Countries interface {
	CountryID(ctx context.Context, iso string) (string, error)
	StateID(ctx context.Context, code, countryID string) (string, error)
}

// Payments checks availability of payment methods.
type Payments interface {
	// Countries returns the countries the payment is assigned to, empty for all.
	Countries(ctx context.Context, paymentID string) ([]string, error)
	IsValid(ctx context.Context, paymentID string, u *User, price decimal.Decimal, shippingID string) (bool, error)
}

// Basket is the buyer's basket of the current session.
type Basket interface {
	SetUser(u *User)
	SetPayment(id string)
	SetShipping(id string)
	ShippingID() string
	Calculate(ctx context.Context) error
	BruttoTotal() decimal.Decimal
	Currency() string
	HasOutOfStockArticles(ctx context.Context) (bool, error)
}

// Session is the buyer's session storage.
type Session interface {
	Get(key string) string
	Set(key, value string)
	Delete(key string)
}

// Translator returns the user facing message for a translation key.
type Translator interface {
	Translate(ctx context.Context, key string) string
}

// Orders is the PayPal order service, implemented by [paypal.Client].
type Orders interface {
	CreateOrder(ctx context.Context, req *paypal.CreateOrderReq) (string, error)
	OrderDetails(ctx context.Context, token string) (*paypal.Order, error)
	CheckoutNowURL(ctx context.Context, token string) string
}

// Settings are the shop settings the checkout depends on.
type Settings struct {
	ShopID string
	// MallUsers makes users visible across all shops.
	MallUsers        bool
	FinalizeOnPayPal bool
	// TransactionMode is Sale, Authorization or Automatic.
	TransactionMode string
	ShippingID      string
}

func (s *Settings) shippingID() string {
	if s.ShippingID == "" {
		return DefaultShippingID
	}
	return s.ShippingID
}

func (s *Settings) userShopID() string {
	if s.MallUsers {
		return ""
	}
	return s.ShopID
}

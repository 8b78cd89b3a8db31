package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	paypal "github.com/adobaai/paypal-express"
)

const (
	countryDE = "a7c40f631fc920687.20179984"
	countryUS = "8f241f11096877ac0.98748826"
	stateCA   = "CA"
)

var testCountries = &CountryTable{
	ByISO: map[string]string{"DE": countryDE, "US": countryUS},
	States: map[string]map[string]string{
		countryUS: {"CA": stateCA},
	},
}

type testBasket struct {
	user       *User
	payment    string
	shipping   string
	total      decimal.Decimal
	currency   string
	outOfStock bool
	calcErr    error
	calculated int
}

func newTestBasket(total string) *testBasket {
	return &testBasket{total: decimal.RequireFromString(total), currency: "EUR"}
}

func (b *testBasket) SetUser(u *User) { b.user = u }
func (b *testBasket) SetPayment(id string) { b.payment = id }
func (b *testBasket) SetShipping(id string) { b.shipping = id }
func (b *testBasket) ShippingID() string { return b.shipping }
func (b *testBasket) BruttoTotal() decimal.Decimal { return b.total }
func (b *testBasket) Currency() string { return b.currency }
func (b *testBasket) Calculate(context.Context) error {
	b.calculated++
	return b.calcErr
}

func (b *testBasket) HasOutOfStockArticles(context.Context) (bool, error) {
	return b.outOfStock, nil
}

type testOrders struct {
	details    *paypal.Order
	detailsErr error
	createErr  error
	created    []*paypal.CreateOrderReq
	tokens     map[string]string
}

func (o *testOrders) CreateOrder(_ context.Context, req *paypal.CreateOrderReq) (string, error) {
	o.created = append(o.created, req)
	if o.createErr != nil {
		return "", o.createErr
	}
	if o.tokens == nil {
		o.tokens = map[string]string{}
	}
	if token, ok := o.tokens[req.RequestID]; ok {
		return token, nil
	}
	token := fmt.Sprintf("EC-%d", len(o.tokens)+1)
	o.tokens[req.RequestID] = token
	return token, nil
}

func (o *testOrders) OrderDetails(_ context.Context, token string) (*paypal.Order, error) {
	if o.detailsErr != nil {
		return nil, o.detailsErr
	}
	return o.details, nil
}

func (o *testOrders) CheckoutNowURL(_ context.Context, token string) string {
	return paypal.Sandbox("", "").CheckoutNowURL(token)
}

type testTranslator map[string]string

func (t testTranslator) Translate(_ context.Context, key string) string {
	if s, ok := t[key]; ok {
		return s
	}
	return key
}

// approvedOrder returns details as PayPal sends them for an approved express checkout.
func approvedOrder(amount, line1 string) *paypal.Order {
	return &paypal.Order{
		ID:     "5O190127TN364715T",
		Status: paypal.OSApproved,
		Intent: paypal.OICapture,
		Payer: &paypal.Payer{
			PayerID:      "QYR5Z8XDVJNXQ",
			EmailAddress: "customer@example.com",
			Name:         &paypal.PayerName{GivenName: "John", Surname: "Doe"},
		},
		PurchaseUnits: []*paypal.PurchaseUnit{
			{
				Amount: &paypal.Amount{CurrencyCode: "EUR", Value: amount},
				Shipping: &paypal.Shipping{
					Name: &paypal.ShippingName{FullName: "John Doe"},
					Address: &paypal.ShippingAddress{
						AddressLine1: line1,
						AdminArea2:   "Berlin",
						PostalCode:   "10115",
						CountryCode:  "DE",
					},
				},
			},
		},
	}
}

// johnDoe is the shop user whose invoice address equals approvedOrder(_, "Hauptstrasse 12").
func johnDoe() *User {
	return &User{
		ID:     "u-john",
		ShopID: "1",
		Email:  "customer@example.com",
		Active: true,
		AddressFields: AddressFields{
			FirstName: "John",
			LastName:  "Doe",
			Street:    "Hauptstrasse",
			StreetNr:  "12",
			City:      "Berlin",
			CountryID: countryDE,
			Zip:       "10115",
		},
	}
}

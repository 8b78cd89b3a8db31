package paypal

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Transaction modes configured in the shop.
const (
	TransactionSale          = "Sale"
	TransactionAuthorization = "Authorization"
	// TransactionAutomatic is resolved by the shop to one of the above before building a request.
	TransactionAutomatic = "Automatic"
)

// ShippingPreference is the shipping preference sent with an order.
//
// See https://developer.paypal.com/docs/api/orders/v2/#definition-order_application_context.
type ShippingPreference string

const (
	// SPGetFromFile lets the buyer pick one of the shipping addresses stored at PayPal.
	SPGetFromFile        ShippingPreference = "GET_FROM_FILE"
	SPNoShipping         ShippingPreference = "NO_SHIPPING"
	SPSetProvidedAddress ShippingPreference = "SET_PROVIDED_ADDRESS"
)

const (
	DefaultLandingPage = "LOGIN"
	DefaultUserAction  = "CONTINUE"
)

// ApplicationContext customizes the payer experience during approval.
type ApplicationContext struct {
	ReturnURL          string             `json:"return_url"`
	CancelURL          string             `json:"cancel_url"`
	Locale             string             `json:"locale,omitempty"`
	LandingPage        string             `json:"landing_page,omitempty"`
	ShippingPreference ShippingPreference `json:"shipping_preference,omitempty"`
	UserAction         string             `json:"user_action,omitempty"`
}

// ContextSource supplies the shop specific application context fields.
// The shipping preference it returns is ignored.
type ContextSource interface {
	ApplicationContext(ctx context.Context) ApplicationContext
}

// StaticContext is a [ContextSource] returning itself.
type StaticContext ApplicationContext

func (s StaticContext) ApplicationContext(context.Context) ApplicationContext {
	return ApplicationContext(s)
}

// OrderRequest is the body of an order creation call.
type OrderRequest struct {
	Intent             OrderIntent         `json:"intent"`
	PurchaseUnits      []*PurchaseUnit     `json:"purchase_units"`
	ApplicationContext *ApplicationContext `json:"application_context"`
}

// OrderRequestBuilder builds order creation requests.
type OrderRequestBuilder struct {
	Context ContextSource
}

// Build returns the request for amount in currency.
// Mode [TransactionSale] captures immediately, anything else only authorizes.
// Express requests let the buyer choose the shipping address at PayPal.
func (b *OrderRequestBuilder) Build(ctx context.Context, amount decimal.Decimal, currency, mode string,
	express bool,
) *OrderRequest {
	intent := OIAuthorize
	if mode == TransactionSale {
		intent = OICapture
	}

	var ac ApplicationContext
	if b.Context != nil {
		ac = b.Context.ApplicationContext(ctx)
	}
	ac.ShippingPreference = SPNoShipping
	if express {
		ac.ShippingPreference = SPGetFromFile
	}

	return &OrderRequest{
		Intent: intent,
		PurchaseUnits: []*PurchaseUnit{
			{Amount: NewAmount(amount, currency)},
		},
		ApplicationContext: &ac,
	}
}

// BuildJSON is [OrderRequestBuilder.Build] serialized.
func (b *OrderRequestBuilder) BuildJSON(ctx context.Context, amount decimal.Decimal, currency, mode string,
	express bool,
) ([]byte, error) {
	return json.Marshal(b.Build(ctx, amount, currency, mode, express))
}

// NewAmount formats value with exactly two decimals and no thousands separator.
func NewAmount(value decimal.Decimal, currency string) *Amount {
	return &Amount{
		CurrencyCode: currency,
		Value:        value.StringFixed(2),
	}
}

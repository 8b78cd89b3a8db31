package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/companieshouse/chs.go/log"
	"github.com/google/uuid"

	paypal "github.com/adobaai/paypal-express"
)

// Checkout steps of the shop the buyer continues with.
const (
	StepOrder   = "order"
	StepPayment = "payment"
	StepBasket  = "basket"
)

// Translation keys of the messages shown to the buyer.
const (
	MsgPaymentNotValid       = "OEPAYPAL_PAYMENT_NOT_VALID"
	MsgSelectAnotherPayment  = "MESSAGE_PAYMENT_SELECT_ANOTHER_PAYMENT"
	MsgSelectAnotherShipment = "OEPAYPAL_SELECT_ANOTHER_SHIPMENT"
	MsgOrderTotalChanged     = "OEPAYPAL_ORDER_TOTAL_HAS_CHANGED"
	MsgGenericError          = "OEPAYPAL_RESPONSE_FROM_PAYPAL"
)

// Flow is the express checkout: it sends the buyer to PayPal and routes
// the returning buyer to the next shop step.
type Flow struct {
	Orders     Orders
	Reconciler *Reconciler
	Translator Translator
	// NewRequestID defaults to random UUIDs.
	NewRequestID func() string
}

// Outcome is where a returning buyer continues.
type Outcome struct {
	Step string
	// Execute asks the order step to finalize the order right away.
	Execute bool
	// Message is the translated message to show, empty on success.
	Message string
	Result  *Result
	Err     error
}

// Start creates the PayPal order for the basket and returns the URL the buyer approves it at.
//
// The PayPal request id of the session is reused while the basket total,
// currency and transaction mode stay the same, so a repeated start does not
// create a second order. A finished attempt clears it.
func (f *Flow) Start(ctx context.Context, basket Basket, session Session) (redirect string, err error) {
	session.Set(SessionExpress, "2")
	basket.SetPayment(PaymentID)
	if err = basket.Calculate(ctx); err != nil {
		return "", fmt.Errorf("calculate basket: %w", err)
	}
	total, currency := basket.BruttoTotal(), basket.Currency()

	user, err := f.sessionUser(ctx, session)
	if err != nil {
		return
	}
	ok, err := f.Reconciler.Payments.IsValid(ctx, PaymentID, user, total, basket.ShippingID())
	if err != nil {
		return "", fmt.Errorf("validate payment: %w", err)
	}
	if !ok {
		return "", ErrPaymentNotValid
	}

	mode, err := f.transactionMode(ctx, basket)
	if err != nil {
		return
	}

	key := total.StringFixed(2) + " " + currency + " " + mode
	reqID := session.Get(SessionRequestID)
	if reqID == "" || session.Get(SessionRequestKey) != key {
		reqID = f.newRequestID()
		session.Set(SessionRequestID, reqID)
		session.Set(SessionRequestKey, key)
	}

	token, err := f.Orders.CreateOrder(ctx, &paypal.CreateOrderReq{
		RequestID:       reqID,
		Amount:          total,
		CurrencyCode:    currency,
		TransactionMode: mode,
		Express:         true,
	})
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	session.Set(SessionToken, token)
	session.Set(SessionPaymentID, PaymentID)
	return f.Orders.CheckoutNowURL(ctx, token), nil
}

// StartMessage returns the message shown to the buyer when [Flow.Start] fails.
// Failures other than [ErrPaymentNotValid] are logged and get a generic message.
func (f *Flow) StartMessage(ctx context.Context, err error) string {
	if errors.Is(err, ErrPaymentNotValid) {
		return f.translate(ctx, MsgPaymentNotValid)
	}
	log.Error(fmt.Errorf("paypal express start: %w", err))
	return f.translate(ctx, MsgGenericError)
}

// Return fetches and reconciles the order of the returning buyer.
func (f *Flow) Return(ctx context.Context, basket Basket, session Session) *Outcome {
	// PayPal provides the delivery address.
	session.Delete(SessionDeliveryAddress)

	res, err := f.reconcile(ctx, basket, session)
	if err == nil {
		session.Delete(SessionRequestID)
		session.Delete(SessionRequestKey)
		return &Outcome{
			Step:    StepOrder,
			Execute: f.Reconciler.Settings.FinalizeOnPayPal,
			Result:  res,
		}
	}

	out := &Outcome{Err: err}
	var oe *OrderError
	switch {
	case errors.Is(err, ErrPaymentNotValidForUserCountry):
		out.Step, out.Message = StepPayment, f.translate(ctx, MsgSelectAnotherPayment)
	case errors.Is(err, ErrShippingMethodNotValid):
		out.Step, out.Message = StepOrder, f.translate(ctx, MsgSelectAnotherShipment)
	case errors.Is(err, ErrOrderTotalChanged):
		out.Step, out.Message = StepBasket, f.translate(ctx, MsgOrderTotalChanged)
	case errors.As(err, &oe) && oe.Reason == ReasonDetails:
		out.Step, out.Message = StepBasket, f.translate(ctx, oe.Detail)
	default:
		log.Error(fmt.Errorf("paypal express return: %w", err), log.Data{
			"token": session.Get(SessionToken),
		})
		out.Step, out.Message = StepBasket, f.translate(ctx, MsgGenericError)
	}
	return out
}

func (f *Flow) reconcile(ctx context.Context, basket Basket, session Session) (*Result, error) {
	token := session.Get(SessionToken)
	if token == "" {
		return nil, errors.New("no paypal token in session")
	}
	details, err := f.Orders.OrderDetails(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("order details: %w", err)
	}
	user, err := f.sessionUser(ctx, session)
	if err != nil {
		return nil, err
	}
	return f.Reconciler.Reconcile(ctx, &Input{
		Details:     details,
		SessionUser: user,
		Basket:      basket,
		Session:     session,
	})
}

// transactionMode resolves Automatic to Authorization when articles are out of stock.
func (f *Flow) transactionMode(ctx context.Context, basket Basket) (string, error) {
	mode := f.Reconciler.Settings.TransactionMode
	if mode != paypal.TransactionAutomatic {
		return mode, nil
	}
	out, err := basket.HasOutOfStockArticles(ctx)
	if err != nil {
		return "", fmt.Errorf("stock check: %w", err)
	}
	if out {
		return paypal.TransactionAuthorization, nil
	}
	return paypal.TransactionSale, nil
}

func (f *Flow) sessionUser(ctx context.Context, session Session) (*User, error) {
	id := session.Get(SessionUser)
	if id == "" {
		return nil, nil
	}
	u, err := f.Reconciler.Users.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return u, nil
}

func (f *Flow) newRequestID() string {
	if f.NewRequestID != nil {
		return f.NewRequestID()
	}
	return uuid.NewString()
}

func (f *Flow) translate(ctx context.Context, key string) string {
	if f.Translator == nil {
		return key
	}
	return f.Translator.Translate(ctx, key)
}

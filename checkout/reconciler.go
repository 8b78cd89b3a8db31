package checkout

import (
	"context"
	"fmt"

	"github.com/companieshouse/chs.go/log"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	paypal "github.com/adobaai/paypal-express"
)

// State is the progress of one reconciliation.
type State int

const (
	DetailsFetched State = iota
	Validated
	UserResolved
	AddressResolved
	Finalized
)

func (s State) String() string {
	switch s {
	case DetailsFetched:
		return "details_fetched"
	case Validated:
		return "validated"
	case UserResolved:
		return "user_resolved"
	case AddressResolved:
		return "address_resolved"
	case Finalized:
		return "finalized"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Reconciler matches approved PayPal orders with the shop's users, addresses and basket.
type Reconciler struct {
	Users     Users
	Addresses Addresses
	Countries Countries
	Payments  Payments
	Settings  Settings
}

// Input is one returned buyer.
type Input struct {
	Details *paypal.Order
	// SessionUser is the logged in user, nil for guests.
	SessionUser *User
	Basket      Basket
	Session     Session
}

// Result is a finalized reconciliation.
type Result struct {
	User *User
	// DeliveryAddressID is empty when the user's own address is the delivery address.
	DeliveryAddressID string
	Address           AddressFields
	PayerID           string
	BasketAmount      decimal.Decimal
	// UserCreated is set when the user was created from the PayPal data.
	UserCreated bool
}

type reconciliation struct {
	*Reconciler
	in    *Input
	state State
	res   Result
}

// Reconcile runs the reconciliation through to [Finalized].
//
// The details are validated before anything is looked up, so rejected
// details have no side effects. The session is written only on success.
func (r *Reconciler) Reconcile(ctx context.Context, in *Input) (res *Result, err error) {
	rc := &reconciliation{Reconciler: r, in: in}
	steps := []func(context.Context) error{
		rc.validate,
		rc.resolveUser,
		rc.resolveAddress,
		rc.finalize,
	}
	for _, step := range steps {
		if err = step(ctx); err != nil {
			log.Info("paypal reconciliation stopped", log.Data{
				"token": in.Details.ID,
				"state": rc.state.String(),
				"error": err.Error(),
			})
			return nil, err
		}
		rc.state++
	}
	rc.persist()
	return &rc.res, nil
}

func (rc *reconciliation) validate(context.Context) error {
	d := rc.in.Details
	if d.Status != paypal.OSApproved {
		return ByDetailsStatus(string(d.Status))
	}
	if d.Payer == nil {
		return ByDetailsPayer()
	}
	if len(d.PurchaseUnits) == 0 || d.PurchaseUnits[0] == nil {
		return ByDetails("OEPAYPAL_ERROR_NO_PURCHASE_UNITS")
	}
	return nil
}

func (rc *reconciliation) resolveUser(ctx context.Context) (err error) {
	d := rc.in.Details
	rc.res.PayerID = d.Payer.PayerID
	if rc.res.Address, err = ParseAddress(ctx, rc.Countries, d.Shipping()); err != nil {
		return fmt.Errorf("parse address: %w", err)
	}
	if rc.res.Address.CountryID == "" {
		return ByDetails("OEPAYPAL_ERROR_NO_DELIVERY_COUNTRY")
	}

	if rc.in.SessionUser != nil {
		// The session identity wins over the payer email.
		rc.res.User = rc.in.SessionUser
		return nil
	}

	id, err := rc.Users.FindIDByEmail(ctx, d.Payer.EmailAddress, rc.Settings.userShopID())
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if id != "" {
		if rc.res.User, err = rc.Users.Load(ctx, id); err != nil {
			return fmt.Errorf("load user: %w", err)
		}
	}
	if rc.res.User == nil {
		return rc.createUser(ctx)
	}

	// Without a session the PayPal data must not be attached to another person's account.
	payer := AddressFields{FirstName: d.Payer.GivenName(), LastName: d.Payer.Surname()}
	u := &rc.res.User.AddressFields
	if u.FirstName != payer.FirstName || u.LastName != payer.LastName || !u.SameAddress(&rc.res.Address) {
		return ByDetails("OEPAYPAL_ERROR_USER_ADDRESS")
	}
	return nil
}

func (rc *reconciliation) createUser(ctx context.Context) (err error) {
	p := rc.in.Details.Payer
	u := &User{
		ShopID:        rc.Settings.ShopID,
		Email:         p.EmailAddress,
		Active:        true,
		AddressFields: rc.res.Address,
	}
	u.FirstName = p.GivenName()
	u.LastName = p.Surname()
	if u.ID, err = rc.Users.Create(ctx, u); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if err = rc.Users.EnsureAutoGroups(ctx, u.ID, u.CountryID); err != nil {
		return fmt.Errorf("auto groups: %w", err)
	}
	if err = rc.Users.AddToGroup(ctx, u.ID, GroupNotYetOrdered); err != nil {
		return fmt.Errorf("add to group: %w", err)
	}
	u.Groups = append(u.Groups, GroupNotYetOrdered)

	log.Info("user created from paypal payer", log.Data{"user_id": u.ID, "shop_id": u.ShopID})
	rc.res.User = u
	rc.res.UserCreated = true
	return nil
}

func (rc *reconciliation) resolveAddress(ctx context.Context) (err error) {
	u, addr := rc.res.User, &rc.res.Address
	if u.SameName(addr) && u.SameAddress(addr) {
		return nil
	}

	id, err := rc.Addresses.FindMatching(ctx, u.ID, *addr)
	if err != nil {
		return fmt.Errorf("find address: %w", err)
	}
	if id == "" {
		if id, err = rc.Addresses.Create(ctx, u.ID, *addr); err != nil {
			return fmt.Errorf("create address: %w", err)
		}
	}
	rc.res.DeliveryAddressID = id
	return nil
}

func (rc *reconciliation) finalize(ctx context.Context) error {
	u, basket := rc.res.User, rc.in.Basket

	country := u.CountryID
	if rc.res.DeliveryAddressID != "" {
		country = rc.res.Address.CountryID
	}
	if country == "" {
		return ByDetails("OEPAYPAL_ERROR_NO_DELIVERY_COUNTRY")
	}
	countries, err := rc.Payments.Countries(ctx, PaymentID)
	if err != nil {
		return fmt.Errorf("payment countries: %w", err)
	}
	if len(countries) > 0 && !slices.Contains(countries, country) {
		return fmt.Errorf("%w: %s", ErrPaymentNotValidForUserCountry, country)
	}

	basket.SetUser(u)
	basket.SetShipping(rc.Settings.shippingID())
	if err = basket.Calculate(ctx); err != nil {
		return fmt.Errorf("calculate basket: %w", err)
	}
	price := basket.BruttoTotal()

	ok, err := rc.paymentValid(ctx, u, price, basket.ShippingID())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrShippingMethodNotValid, basket.ShippingID())
	}

	amount, err := rc.in.Details.Amount()
	if err != nil {
		return ByDetails("OEPAYPAL_ERROR_NO_AMOUNT")
	}
	if !price.Round(2).Equal(amount) {
		return fmt.Errorf("%w: basket %s, paypal %s", ErrOrderTotalChanged,
			price.StringFixed(2), amount.StringFixed(2))
	}
	rc.res.BasketAmount = amount
	return nil
}

// paymentValid falls back to the empty payment, which is valid for free baskets.
func (rc *reconciliation) paymentValid(ctx context.Context, u *User, price decimal.Decimal, shippingID string,
) (bool, error) {
	for _, id := range []string{PaymentID, EmptyPaymentID} {
		ok, err := rc.Payments.IsValid(ctx, id, u, price, shippingID)
		if err != nil {
			return false, fmt.Errorf("validate payment %s: %w", id, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (rc *reconciliation) persist() {
	s := rc.in.Session
	if s == nil {
		return
	}
	s.Set(SessionUser, rc.res.User.ID)
	if rc.res.DeliveryAddressID != "" {
		s.Set(SessionDeliveryAddress, rc.res.DeliveryAddressID)
	} else {
		s.Delete(SessionDeliveryAddress)
	}
	s.Set(SessionPayPalUserID, rc.res.User.ID)
	s.Set(SessionPayerID, rc.res.PayerID)
	s.Set(SessionBasketAmount, rc.res.BasketAmount.StringFixed(2))
}

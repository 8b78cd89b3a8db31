package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paypal "github.com/adobaai/paypal-express"
	"github.com/adobaai/paypal-express/ptesting"
)

type reconcilerMocks struct {
	users     *MockUsers
	addresses *MockAddresses
	payments  *MockPayments
}

func newTestReconciler(t *testing.T) (*Reconciler, *reconcilerMocks) {
	ctrl := gomock.NewController(t)
	m := &reconcilerMocks{
		users:     NewMockUsers(ctrl),
		addresses: NewMockAddresses(ctrl),
		payments:  NewMockPayments(ctrl),
	}
	return &Reconciler{
		Users:     m.users,
		Addresses: m.addresses,
		Countries: testCountries,
		Payments:  m.payments,
		Settings:  Settings{ShopID: "1", TransactionMode: paypal.TransactionSale},
	}, m
}

// expectPaymentValid lets the PayPal payment pass every country and shipping check.
func (m *reconcilerMocks) expectPaymentValid() {
	m.payments.EXPECT().Countries(gomock.Any(), PaymentID).Return(nil, nil)
	m.payments.EXPECT().IsValid(gomock.Any(), PaymentID, gomock.Any(), gomock.Any(), DefaultShippingID).
		Return(true, nil)
}

func TestReconcileRejectsDetails(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		modify func(o *paypal.Order)
		reason OrderReason
	}{
		{
			name:   "Denied",
			modify: func(o *paypal.Order) { o.Status = "DENIED" },
			reason: ReasonStatus,
		},
		{
			name:   "NoPayer",
			modify: func(o *paypal.Order) { o.Payer = nil },
			reason: ReasonPayer,
		},
		{
			name:   "NoPurchaseUnits",
			modify: func(o *paypal.Order) { o.PurchaseUnits = nil },
			reason: ReasonDetails,
		},
		{
			name: "UnknownCountry",
			modify: func(o *paypal.Order) {
				o.PurchaseUnits[0].Shipping.Address.CountryCode = "XX"
			},
			reason: ReasonDetails,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No mock expectations: any lookup or write fails the test.
			r, _ := newTestReconciler(t)
			details := approvedOrder("89.70", "Hauptstrasse 12")
			tt.modify(details)
			session := NewMemorySession()
			basket := newTestBasket("89.70")

			var oe *OrderError
			ptesting.R(r.Reconcile(ctx, &Input{Details: details, Basket: basket, Session: session})).
				ErrorAs(t, &oe)
			assert.Equal(t, tt.reason, oe.Reason)
			assert.Empty(t, session.vars)
			assert.Zero(t, basket.calculated)
		})
	}

	t.Run("DeniedMessage", func(t *testing.T) {
		r, _ := newTestReconciler(t)
		details := approvedOrder("89.70", "Hauptstrasse 12")
		details.Status = "DENIED"
		ptesting.R(r.Reconcile(ctx, &Input{Details: details, Basket: newTestBasket("89.70")})).
			EqualError(t, "order status is not approved: DENIED")
	})
}

func TestReconcileNewUser(t *testing.T) {
	ctx := context.Background()
	r, m := newTestReconciler(t)
	m.users.EXPECT().FindIDByEmail(gomock.Any(), "customer@example.com", "1").Return("", nil)
	m.users.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *User) (string, error) {
			assert.True(t, u.Active)
			assert.Equal(t, "customer@example.com", u.Email)
			assert.Equal(t, "1", u.ShopID)
			assert.Equal(t, "John", u.FirstName)
			assert.Equal(t, "Doe", u.LastName)
			assert.Equal(t, "Hauptstrasse", u.Street)
			assert.Equal(t, "12", u.StreetNr)
			assert.Equal(t, countryDE, u.CountryID)
			return "u-new", nil
		})
	m.users.EXPECT().EnsureAutoGroups(gomock.Any(), "u-new", countryDE).Return(nil)
	m.users.EXPECT().AddToGroup(gomock.Any(), "u-new", GroupNotYetOrdered).Return(nil)
	m.expectPaymentValid()

	session := NewMemorySession()
	session.Set(SessionDeliveryAddress, "stale")
	basket := newTestBasket("89.70")
	ptesting.R(r.Reconcile(ctx, &Input{
		Details: approvedOrder("89.7", "Hauptstrasse 12"),
		Basket:  basket,
		Session: session,
	})).NoError(t).Do(func(t *testing.T, it *Result) {
		assert.True(t, it.UserCreated)
		assert.Equal(t, "u-new", it.User.ID)
		assert.Equal(t, []string{GroupNotYetOrdered}, it.User.Groups)
		assert.Empty(t, it.DeliveryAddressID)
		assert.Equal(t, "QYR5Z8XDVJNXQ", it.PayerID)
	})

	assert.Equal(t, "u-new", basket.user.ID)
	assert.Equal(t, DefaultShippingID, basket.shipping)
	assert.Equal(t, map[string]string{
		SessionUser:         "u-new",
		SessionPayPalUserID: "u-new",
		SessionPayerID:      "QYR5Z8XDVJNXQ",
		SessionBasketAmount: "89.70",
	}, session.vars)
}

func TestReconcileSessionUserNewAddress(t *testing.T) {
	ctx := context.Background()
	r, m := newTestReconciler(t)
	user := johnDoe()
	before := *user

	m.addresses.EXPECT().FindMatching(gomock.Any(), "u-john", gomock.Any()).Return("", nil)
	m.addresses.EXPECT().Create(gomock.Any(), "u-john", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, f AddressFields) (string, error) {
			assert.Equal(t, "Friedrichstrasse", f.Street)
			assert.Equal(t, "43", f.StreetNr)
			return "addr-1", nil
		}).Times(1)
	m.expectPaymentValid()

	session := NewMemorySession()
	ptesting.R(r.Reconcile(ctx, &Input{
		Details:     approvedOrder("89.70", "Friedrichstrasse 43"),
		SessionUser: user,
		Basket:      newTestBasket("89.70"),
		Session:     session,
	})).NoError(t).Do(func(t *testing.T, it *Result) {
		assert.Equal(t, "addr-1", it.DeliveryAddressID)
		assert.False(t, it.UserCreated)
		assert.Same(t, user, it.User)
	})
	assert.Equal(t, before, *user)
	assert.Equal(t, "addr-1", session.Get(SessionDeliveryAddress))
	assert.Equal(t, "u-john", session.Get(SessionUser))
}

func TestReconcileSessionUserEmailMismatch(t *testing.T) {
	ctx := context.Background()
	r, m := newTestReconciler(t)
	user := johnDoe()
	user.Email = "john@shop.example"
	m.expectPaymentValid()

	session := NewMemorySession()
	ptesting.R(r.Reconcile(ctx, &Input{
		Details:     approvedOrder("89.70", "Hauptstrasse 12"),
		SessionUser: user,
		Basket:      newTestBasket("89.70"),
		Session:     session,
	})).NoError(t).Do(func(t *testing.T, it *Result) {
		assert.Equal(t, "u-john", it.User.ID)
		assert.Empty(t, it.DeliveryAddressID)
	})
}

func TestReconcileReusesSavedAddress(t *testing.T) {
	ctx := context.Background()
	r, m := newTestReconciler(t)
	m.addresses.EXPECT().FindMatching(gomock.Any(), "u-john", gomock.Any()).Return("addr-9", nil)
	m.expectPaymentValid()

	ptesting.R(r.Reconcile(ctx, &Input{
		Details:     approvedOrder("89.70", "Friedrichstrasse 43"),
		SessionUser: johnDoe(),
		Basket:      newTestBasket("89.70"),
	})).NoError(t).Do(func(t *testing.T, it *Result) {
		assert.Equal(t, "addr-9", it.DeliveryAddressID)
	})
}

func TestReconcileExistingUserWithoutSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Matching", func(t *testing.T) {
		r, m := newTestReconciler(t)
		m.users.EXPECT().FindIDByEmail(gomock.Any(), "customer@example.com", "1").Return("u-john", nil)
		m.users.EXPECT().Load(gomock.Any(), "u-john").Return(johnDoe(), nil)
		m.expectPaymentValid()

		ptesting.R(r.Reconcile(ctx, &Input{
			Details: approvedOrder("89.70", "Hauptstrasse 12"),
			Basket:  newTestBasket("89.70"),
		})).NoError(t).Do(func(t *testing.T, it *Result) {
			assert.Equal(t, "u-john", it.User.ID)
			assert.Empty(t, it.DeliveryAddressID)
		})
	})

	t.Run("AddressMismatch", func(t *testing.T) {
		r, m := newTestReconciler(t)
		m.users.EXPECT().FindIDByEmail(gomock.Any(), "customer@example.com", "1").Return("u-john", nil)
		m.users.EXPECT().Load(gomock.Any(), "u-john").Return(johnDoe(), nil)

		session := NewMemorySession()
		var oe *OrderError
		ptesting.R(r.Reconcile(ctx, &Input{
			Details: approvedOrder("89.70", "Friedrichstrasse 43"),
			Basket:  newTestBasket("89.70"),
			Session: session,
		})).ErrorAs(t, &oe)
		assert.Equal(t, ByDetails("OEPAYPAL_ERROR_USER_ADDRESS"), oe)
		assert.Empty(t, session.vars)
	})

	t.Run("NameMismatch", func(t *testing.T) {
		r, m := newTestReconciler(t)
		other := johnDoe()
		other.FirstName = "Jane"
		m.users.EXPECT().FindIDByEmail(gomock.Any(), "customer@example.com", "1").Return("u-john", nil)
		m.users.EXPECT().Load(gomock.Any(), "u-john").Return(other, nil)

		var oe *OrderError
		ptesting.R(r.Reconcile(ctx, &Input{
			Details: approvedOrder("89.70", "Hauptstrasse 12"),
			Basket:  newTestBasket("89.70"),
		})).ErrorAs(t, &oe)
		assert.Equal(t, "OEPAYPAL_ERROR_USER_ADDRESS", oe.Detail)
	})

	t.Run("MallUsers", func(t *testing.T) {
		r, m := newTestReconciler(t)
		r.Settings.MallUsers = true
		m.users.EXPECT().FindIDByEmail(gomock.Any(), "customer@example.com", "").Return("u-john", nil)
		m.users.EXPECT().Load(gomock.Any(), "u-john").Return(johnDoe(), nil)
		m.expectPaymentValid()

		ptesting.R(r.Reconcile(ctx, &Input{
			Details: approvedOrder("89.70", "Hauptstrasse 12"),
			Basket:  newTestBasket("89.70"),
		})).NoError(t)
	})
}

func TestReconcileBusinessRules(t *testing.T) {
	ctx := context.Background()

	t.Run("OrderTotalChanged", func(t *testing.T) {
		r, m := newTestReconciler(t)
		m.expectPaymentValid()

		session := NewMemorySession()
		ptesting.R(r.Reconcile(ctx, &Input{
			Details:     approvedOrder("45.99", "Hauptstrasse 12"),
			SessionUser: johnDoe(),
			Basket:      newTestBasket("49.99"),
			Session:     session,
		})).ErrorIs(t, ErrOrderTotalChanged)
		assert.Empty(t, session.vars)
	})

	t.Run("PaymentNotValidForUserCountry", func(t *testing.T) {
		r, m := newTestReconciler(t)
		m.payments.EXPECT().Countries(gomock.Any(), PaymentID).Return([]string{countryUS}, nil)

		basket := newTestBasket("89.70")
		ptesting.R(r.Reconcile(ctx, &Input{
			Details:     approvedOrder("89.70", "Hauptstrasse 12"),
			SessionUser: johnDoe(),
			Basket:      basket,
		})).ErrorIs(t, ErrPaymentNotValidForUserCountry)
		assert.Zero(t, basket.calculated)
	})

	t.Run("PaymentCountryAssigned", func(t *testing.T) {
		r, m := newTestReconciler(t)
		m.payments.EXPECT().Countries(gomock.Any(), PaymentID).Return([]string{countryUS, countryDE}, nil)
		m.payments.EXPECT().IsValid(gomock.Any(), PaymentID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(true, nil)

		ptesting.R(r.Reconcile(ctx, &Input{
			Details:     approvedOrder("89.70", "Hauptstrasse 12"),
			SessionUser: johnDoe(),
			Basket:      newTestBasket("89.70"),
		})).NoError(t)
	})

	t.Run("ShippingMethodNotValid", func(t *testing.T) {
		r, m := newTestReconciler(t)
		m.payments.EXPECT().Countries(gomock.Any(), PaymentID).Return(nil, nil)
		m.payments.EXPECT().IsValid(gomock.Any(), PaymentID, gomock.Any(), gomock.Any(), DefaultShippingID).
			Return(false, nil)
		m.payments.EXPECT().IsValid(gomock.Any(), EmptyPaymentID, gomock.Any(), gomock.Any(), DefaultShippingID).
			Return(false, nil)

		ptesting.R(r.Reconcile(ctx, &Input{
			Details:     approvedOrder("89.70", "Hauptstrasse 12"),
			SessionUser: johnDoe(),
			Basket:      newTestBasket("89.70"),
		})).ErrorIs(t, ErrShippingMethodNotValid)
	})

	t.Run("EmptyPaymentFallback", func(t *testing.T) {
		r, m := newTestReconciler(t)
		r.Settings.ShippingID = "oxidexpress"
		m.payments.EXPECT().Countries(gomock.Any(), PaymentID).Return(nil, nil)
		gomock.InOrder(
			m.payments.EXPECT().IsValid(gomock.Any(), PaymentID, gomock.Any(), gomock.Any(), "oxidexpress").
				Return(false, nil),
			m.payments.EXPECT().IsValid(gomock.Any(), EmptyPaymentID, gomock.Any(), gomock.Any(), "oxidexpress").
				Return(true, nil),
		)

		ptesting.R(r.Reconcile(ctx, &Input{
			Details:     approvedOrder("0.00", "Hauptstrasse 12"),
			SessionUser: johnDoe(),
			Basket:      newTestBasket("0"),
		})).NoError(t)
	})

	t.Run("StorageError", func(t *testing.T) {
		r, m := newTestReconciler(t)
		m.users.EXPECT().FindIDByEmail(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.New("connection refused"))

		ptesting.R(r.Reconcile(ctx, &Input{
			Details: approvedOrder("89.70", "Hauptstrasse 12"),
			Basket:  newTestBasket("89.70"),
		})).EqualError(t, "find user: connection refused")
	})
}

func TestReconcileBasketPriceIsRounded(t *testing.T) {
	ctx := context.Background()
	r, m := newTestReconciler(t)
	m.payments.EXPECT().Countries(gomock.Any(), PaymentID).Return(nil, nil)
	m.payments.EXPECT().IsValid(gomock.Any(), PaymentID, gomock.Any(), decimal.RequireFromString("89.699"),
		gomock.Any()).Return(true, nil)

	res, err := r.Reconcile(ctx, &Input{
		Details:     approvedOrder("89.70", "Hauptstrasse 12"),
		SessionUser: johnDoe(),
		Basket:      newTestBasket("89.699"),
	})
	require.NoError(t, err)
	assert.Equal(t, "89.70", res.BasketAmount.StringFixed(2))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "details_fetched", DetailsFetched.String())
	assert.Equal(t, "finalized", Finalized.String())
	assert.Equal(t, "state(9)", State(9).String())
}

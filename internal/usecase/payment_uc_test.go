//go:build !integration

package usecase_test

import (
	"context"
	"testing"

	"hostbill-payments/internal/domain"
	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/domain/ports/adapter"
	"hostbill-payments/internal/schema"
	"hostbill-payments/internal/usecase"
)

// stubGateway answers Build with a canned result or error.
type stubGateway struct {
	name   model.Provider
	result *model.ProviderResult
	err    error
	calls  int
}

func (s *stubGateway) Name() model.Provider { return s.name }

func (s *stubGateway) Build(ctx context.Context, intent *model.PaymentIntent, order *model.Order) (*model.ProviderResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &model.ProviderResult{Provider: s.name, UPIURI: "upi://pay?tr=" + order.TxnRef}, nil
}

type stubPayUVerifier struct {
	err   error
	calls int
}

func (s *stubPayUVerifier) VerifyCallback(cb *schema.PayUCallback, status string) error {
	s.calls++
	return s.err
}

type paymentFixture struct {
	orders        *memOrderRepo
	users         *memUserRepo
	audit         *memAuditRepo
	notifications *memNotificationRepo
	cache         *memStatusCache
	payuVerify    *stubPayUVerifier
	uc            usecase.PaymentUseCase
}

func newPaymentFixture(gateways ...adapter.PaymentGateway) *paymentFixture {
	f := &paymentFixture{
		orders:        newMemOrderRepo(),
		users:         newMemUserRepo(),
		audit:         newMemAuditRepo(),
		notifications: newMemNotificationRepo(),
		cache:         newMemStatusCache(),
		payuVerify:    &stubPayUVerifier{},
	}
	log := newTestLogger()
	entitle := usecase.NewEntitlementUseCase(f.users, f.audit, f.notifications, log)
	f.uc = usecase.NewPaymentUseCase(f.orders, f.cache, gateways, f.payuVerify, entitle, memTxManager{}, log)
	return f
}

func (f *paymentFixture) seedUser(id string) {
	_ = f.users.Save(context.Background(), nil, &model.User{ID: id, Email: id + "@example.com", Plan: model.PlanStarter})
}

var testPrincipal = &model.Principal{UserID: "user-1", Email: "user-1@example.com"}

func upiIntent() *model.PaymentIntent {
	return &model.PaymentIntent{
		Provider:     model.ProviderUPI,
		Plan:         model.PlanPro,
		BillingCycle: model.BillingMonthly,
		AmountRupees: 499,
		ProductInfo:  "pro plan (monthly)",
		Firstname:    "Asha",
		Email:        "user-1@example.com",
	}
}

func TestPaymentInitiate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending order with the provider result", func(t *testing.T) {
		f := newPaymentFixture(&stubGateway{name: model.ProviderUPI})

		order, res, err := f.uc.Initiate(ctx, testPrincipal, upiIntent())
		if err != nil {
			t.Fatalf("Initiate() error = %v", err)
		}
		if order.Status != model.OrderStatusPending {
			t.Errorf("order status = %q, want pending", order.Status)
		}
		if order.AmountCents != 49900 {
			t.Errorf("amount cents = %d, want 49900", order.AmountCents)
		}
		if res.UPIURI == "" {
			t.Error("expected a upi uri in the provider result")
		}

		stored, err := f.orders.FindByID(ctx, nil, order.ID)
		if err != nil {
			t.Fatalf("order not persisted: %v", err)
		}
		if stored.UserID != testPrincipal.UserID {
			t.Errorf("stored user = %q, want %q", stored.UserID, testPrincipal.UserID)
		}
	})

	t.Run("unknown provider is rejected", func(t *testing.T) {
		f := newPaymentFixture(&stubGateway{name: model.ProviderUPI})

		intent := upiIntent()
		intent.Provider = model.ProviderCashfree
		if _, _, err := f.uc.Initiate(ctx, testPrincipal, intent); err != domain.ErrUnknownProvider {
			t.Fatalf("error = %v, want ErrUnknownProvider", err)
		}
	})

	t.Run("unconfigured provider persists nothing", func(t *testing.T) {
		f := newPaymentFixture(&stubGateway{name: model.ProviderUPI, err: domain.ErrNotConfigured})

		if _, _, err := f.uc.Initiate(ctx, testPrincipal, upiIntent()); err != domain.ErrNotConfigured {
			t.Fatalf("error = %v, want ErrNotConfigured", err)
		}
		if n := len(f.orders.store); n != 0 {
			t.Errorf("orders persisted = %d, want 0", n)
		}
	})

	t.Run("provider-assigned reference replaces the generated one", func(t *testing.T) {
		gw := &stubGateway{
			name:   model.ProviderCashfree,
			result: &model.ProviderResult{Provider: model.ProviderCashfree, ProviderOrderID: "cf_ORDER9"},
		}
		f := newPaymentFixture(gw)

		intent := upiIntent()
		intent.Provider = model.ProviderCashfree
		order, _, err := f.uc.Initiate(ctx, testPrincipal, intent)
		if err != nil {
			t.Fatalf("Initiate() error = %v", err)
		}
		if order.TxnRef != "cf_ORDER9" {
			t.Errorf("txn ref = %q, want cf_ORDER9", order.TxnRef)
		}
		stored, _ := f.orders.FindByID(ctx, nil, order.ID)
		if stored.TxnRef != "cf_ORDER9" {
			t.Errorf("stored txn ref = %q, want cf_ORDER9", stored.TxnRef)
		}
	})
}

func TestPaymentVerify(t *testing.T) {
	ctx := context.Background()

	initiate := func(t *testing.T, f *paymentFixture) *model.Order {
		t.Helper()
		order, _, err := f.uc.Initiate(ctx, testPrincipal, upiIntent())
		if err != nil {
			t.Fatalf("Initiate() error = %v", err)
		}
		return order
	}

	t.Run("success settles the order and applies entitlement once", func(t *testing.T) {
		f := newPaymentFixture(&stubGateway{name: model.ProviderUPI})
		f.seedUser(testPrincipal.UserID)
		order := initiate(t, f)

		res, err := f.uc.Verify(ctx, testPrincipal, &schema.VerifyInput{OrderID: order.ID, Status: "success"})
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if !res.Applied || !res.Settled {
			t.Errorf("applied=%v settled=%v, want both true", res.Applied, res.Settled)
		}
		if res.Order.Status != model.OrderStatusPaid {
			t.Errorf("status = %q, want paid", res.Order.Status)
		}
		if res.Order.PaidAt == nil {
			t.Error("paid order missing paid_at")
		}

		user, _ := f.users.FindByID(ctx, nil, testPrincipal.UserID)
		if user.Plan != model.PlanPro {
			t.Errorf("user plan = %q, want pro", user.Plan)
		}
		if f.audit.count() != 1 || f.notifications.count() != 1 {
			t.Errorf("side effects audit=%d notifications=%d, want 1 each", f.audit.count(), f.notifications.count())
		}
	})

	t.Run("duplicate success delivery applies side effects exactly once", func(t *testing.T) {
		f := newPaymentFixture(&stubGateway{name: model.ProviderUPI})
		f.seedUser(testPrincipal.UserID)
		order := initiate(t, f)

		in := &schema.VerifyInput{OrderID: order.ID, Status: "success"}
		first, err := f.uc.Verify(ctx, testPrincipal, in)
		if err != nil {
			t.Fatalf("first Verify() error = %v", err)
		}
		second, err := f.uc.Verify(ctx, testPrincipal, in)
		if err != nil {
			t.Fatalf("second Verify() error = %v", err)
		}

		if !first.Applied {
			t.Error("first delivery should apply the transition")
		}
		if second.Applied {
			t.Error("second delivery must not re-apply the transition")
		}
		if !second.Settled || second.Order.Status != model.OrderStatusPaid {
			t.Errorf("second delivery settled=%v status=%q, want settled paid", second.Settled, second.Order.Status)
		}
		if f.audit.count() != 1 || f.notifications.count() != 1 {
			t.Errorf("side effects audit=%d notifications=%d, want 1 each", f.audit.count(), f.notifications.count())
		}
	})

	t.Run("failure after success does not reverse the order", func(t *testing.T) {
		f := newPaymentFixture(&stubGateway{name: model.ProviderUPI})
		f.seedUser(testPrincipal.UserID)
		order := initiate(t, f)

		if _, err := f.uc.Verify(ctx, testPrincipal, &schema.VerifyInput{OrderID: order.ID, Status: "success"}); err != nil {
			t.Fatalf("Verify(success) error = %v", err)
		}
		res, err := f.uc.Verify(ctx, testPrincipal, &schema.VerifyInput{OrderID: order.ID, Status: "failure"})
		if err != nil {
			t.Fatalf("Verify(failure) error = %v", err)
		}
		if res.Applied {
			t.Error("failure must not apply over a settled order")
		}
		if res.Order.Status != model.OrderStatusPaid {
			t.Errorf("status = %q, want paid to stick", res.Order.Status)
		}
	})

	t.Run("failure settles a pending order without entitlement", func(t *testing.T) {
		f := newPaymentFixture(&stubGateway{name: model.ProviderUPI})
		f.seedUser(testPrincipal.UserID)
		order := initiate(t, f)

		res, err := f.uc.Verify(ctx, testPrincipal, &schema.VerifyInput{OrderID: order.ID, Status: "failed"})
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if !res.Applied || res.Order.Status != model.OrderStatusFailed {
			t.Errorf("applied=%v status=%q, want applied failed", res.Applied, res.Order.Status)
		}
		if f.audit.count() != 0 {
			t.Errorf("audit records = %d, want 0 for a failed payment", f.audit.count())
		}
		user, _ := f.users.FindByID(ctx, nil, testPrincipal.UserID)
		if user.Plan != model.PlanStarter {
			t.Errorf("user plan = %q, want unchanged starter", user.Plan)
		}
	})

	t.Run("unrecognized status leaves the order pending", func(t *testing.T) {
		f := newPaymentFixture(&stubGateway{name: model.ProviderUPI})
		order := initiate(t, f)

		res, err := f.uc.Verify(ctx, testPrincipal, &schema.VerifyInput{OrderID: order.ID, Status: "in_progress"})
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if res.Settled || res.Applied {
			t.Errorf("settled=%v applied=%v, want both false", res.Settled, res.Applied)
		}
		stored, _ := f.orders.FindByID(ctx, nil, order.ID)
		if stored.Status != model.OrderStatusPending {
			t.Errorf("status = %q, want pending", stored.Status)
		}
	})

	t.Run("another user's order is forbidden", func(t *testing.T) {
		f := newPaymentFixture(&stubGateway{name: model.ProviderUPI})
		order := initiate(t, f)

		other := &model.Principal{UserID: "user-2"}
		if _, err := f.uc.Verify(ctx, other, &schema.VerifyInput{OrderID: order.ID, Status: "success"}); err != domain.ErrForbidden {
			t.Fatalf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("payu order rejects a signatureless verify", func(t *testing.T) {
		f := newPaymentFixture(&stubGateway{name: model.ProviderPayU})
		f.seedUser(testPrincipal.UserID)
		intent := upiIntent()
		intent.Provider = model.ProviderPayU
		order, _, err := f.uc.Initiate(ctx, testPrincipal, intent)
		if err != nil {
			t.Fatalf("Initiate() error = %v", err)
		}

		// No callback fields at all: the signed rail must not settle.
		in := &schema.VerifyInput{OrderID: order.ID, Status: "success"}
		if _, err := f.uc.Verify(ctx, testPrincipal, in); err != domain.ErrSignatureMismatch {
			t.Fatalf("error = %v, want ErrSignatureMismatch", err)
		}
		if f.payuVerify.calls != 0 {
			t.Error("hash check must not run without callback fields")
		}
		stored, _ := f.orders.FindByID(ctx, nil, order.ID)
		if stored.Status != model.OrderStatusPending {
			t.Errorf("status = %q, want pending", stored.Status)
		}
	})

	t.Run("callback txnid must resolve to the order being verified", func(t *testing.T) {
		f := newPaymentFixture(&stubGateway{name: model.ProviderUPI})
		f.seedUser(testPrincipal.UserID)
		first := initiate(t, f)
		second := initiate(t, f)

		// A callback carrying another order's reference is a forgery even
		// when its hash would check out.
		in := &schema.VerifyInput{
			OrderID: first.ID,
			Status:  "success",
			PayU:    &schema.PayUCallback{TxnID: second.TxnRef, Hash: "deadbeef"},
		}
		if _, err := f.uc.Verify(ctx, testPrincipal, in); err != domain.ErrSignatureMismatch {
			t.Fatalf("error = %v, want ErrSignatureMismatch", err)
		}
		if f.payuVerify.calls != 0 {
			t.Error("hash check must not run for a mismatched reference")
		}

		// An unknown reference fails the same way.
		in.PayU.TxnID = "TXNUNKNOWN"
		if _, err := f.uc.Verify(ctx, testPrincipal, in); err != domain.ErrSignatureMismatch {
			t.Fatalf("error = %v, want ErrSignatureMismatch", err)
		}
	})

	t.Run("signature mismatch blocks the transition", func(t *testing.T) {
		f := newPaymentFixture(&stubGateway{name: model.ProviderUPI})
		f.payuVerify.err = domain.ErrSignatureMismatch
		order := initiate(t, f)

		in := &schema.VerifyInput{
			OrderID: order.ID,
			Status:  "success",
			PayU:    &schema.PayUCallback{TxnID: order.TxnRef, Hash: "bogus"},
		}
		if _, err := f.uc.Verify(ctx, testPrincipal, in); err != domain.ErrSignatureMismatch {
			t.Fatalf("error = %v, want ErrSignatureMismatch", err)
		}
		stored, _ := f.orders.FindByID(ctx, nil, order.ID)
		if stored.Status != model.OrderStatusPending {
			t.Errorf("status = %q, want pending after rejected callback", stored.Status)
		}
	})

	t.Run("unknown order is not found", func(t *testing.T) {
		f := newPaymentFixture(&stubGateway{name: model.ProviderUPI})

		in := &schema.VerifyInput{OrderID: "6f9619ff-8b86-4d01-b42d-00c04fc964ff", Status: "success"}
		if _, err := f.uc.Verify(ctx, testPrincipal, in); err != domain.ErrNotFound {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestPaymentCheckStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("reads through to the store and caches terminal states", func(t *testing.T) {
		f := newPaymentFixture(&stubGateway{name: model.ProviderUPI})
		f.seedUser(testPrincipal.UserID)
		order, _, err := f.uc.Initiate(ctx, testPrincipal, upiIntent())
		if err != nil {
			t.Fatalf("Initiate() error = %v", err)
		}

		got, err := f.uc.CheckStatus(ctx, testPrincipal, order.ID)
		if err != nil {
			t.Fatalf("CheckStatus() error = %v", err)
		}
		if got.Status != model.OrderStatusPending {
			t.Errorf("status = %q, want pending", got.Status)
		}
		if _, ok := f.cache.GetStatus(ctx, testPrincipal.UserID, order.ID); ok {
			t.Error("pending status must not be cached")
		}

		if _, err := f.uc.Verify(ctx, testPrincipal, &schema.VerifyInput{OrderID: order.ID, Status: "success"}); err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if s, ok := f.cache.GetStatus(ctx, testPrincipal.UserID, order.ID); !ok || s != model.OrderStatusPaid {
			t.Errorf("cached status = %q ok=%v, want paid", s, ok)
		}

		got, err = f.uc.CheckStatus(ctx, testPrincipal, order.ID)
		if err != nil {
			t.Fatalf("CheckStatus() after verify error = %v", err)
		}
		if got.Status != model.OrderStatusPaid {
			t.Errorf("status = %q, want paid", got.Status)
		}
	})

	t.Run("another user's order is forbidden", func(t *testing.T) {
		f := newPaymentFixture(&stubGateway{name: model.ProviderUPI})
		order, _, err := f.uc.Initiate(ctx, testPrincipal, upiIntent())
		if err != nil {
			t.Fatalf("Initiate() error = %v", err)
		}

		other := &model.Principal{UserID: "user-2"}
		if _, err := f.uc.CheckStatus(ctx, other, order.ID); err != domain.ErrForbidden {
			t.Fatalf("error = %v, want ErrForbidden", err)
		}
	})
}

package model

// PaymentIntent is the validated, transient request to start a payment.
// It is built once per request by the schema layer and never persisted;
// the amount it carries is the only amount adapters may ever see.
type PaymentIntent struct {
	Provider     Provider
	Plan         Plan
	BillingCycle BillingCycle
	AmountRupees int64 // whole rupees as submitted by the caller, already bounds-checked
	ProductInfo  string
	Firstname    string
	Email        string
	Phone        string // optional; "" means not provided
}

// ProviderResult is the discriminated union an adapter returns. Provider
// selects which fields are populated; variants share no mutable state.
type ProviderResult struct {
	Provider Provider

	// payu
	PaymentURL   string
	SignedParams map[string]string

	// upi / gpay
	UPIURI       string
	QRPayload    string
	GPayDeepLink string

	// cashfree
	ProviderOrderID string
}

// AuditRecord is one append-only activity row.
type AuditRecord struct {
	ID      string
	UserID  string
	Action  string
	Details map[string]any
}

// Notification is one user-facing message row.
type Notification struct {
	ID      string
	UserID  string
	Kind    string
	Title   string
	Message string
}

// Package schema validates and normalizes inbound payment request payloads.
// Validators are pure: they report every violated field (callers build UIs
// around the full list) and never touch storage or configuration.
package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"hostbill-payments/internal/domain/model"
)

const (
	// MaxAmountRupees caps a single payment; anything above is rejected as absurd.
	MaxAmountRupees = 10_000_000
	maxIDLen        = 64
	maxStringLen    = 255
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^(\+91)?[6-9][0-9]{9}$`)
)

// FieldError is one violated field with a human-readable message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func errf(field, format string, args ...any) FieldError {
	return FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InitiateRequest is the raw decoded body of an initiate action.
type InitiateRequest struct {
	Action       string      `json:"action"`
	Provider     string      `json:"provider"`
	Plan         string      `json:"plan"`
	BillingCycle string      `json:"billingCycle"`
	Amount       json.Number `json:"amount"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	ProductInfo  string      `json:"productInfo"`
	UserID       string      `json:"userId"`
}

// VerifyRequest is the raw decoded body of a verify action. The PayU
// signature fields are optional; rails without a signature omit them.
type VerifyRequest struct {
	Action  string `json:"action"`
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	UserID  string `json:"userId"`

	// PayU callback fields (raw provider names)
	TxnID       string `json:"txnid"`
	Hash        string `json:"hash"`
	MihPayID    string `json:"mihpayid"`
	Amount      string `json:"amount"`
	ProductInfo string `json:"productinfo"`
	Firstname   string `json:"firstname"`
	Email       string `json:"email"`
	UDF1        string `json:"udf1"`
	UDF2        string `json:"udf2"`
}

// CheckStatusRequest is the raw decoded body of a check_status action.
type CheckStatusRequest struct {
	Action  string `json:"action"`
	OrderID string `json:"orderId"`
	UserID  string `json:"userId"`
}

// VerifyInput is the validated verify request handed to the use case.
type VerifyInput struct {
	OrderID string
	Status  string
	PayU    *PayUCallback // nil when signature fields were not supplied
}

// PayUCallback carries the provider result fields the reverse signature
// covers, in their raw callback form.
type PayUCallback struct {
	TxnID       string
	Hash        string
	MihPayID    string
	Amount      string
	ProductInfo string
	Firstname   string
	Email       string
}

// ValidateInitiate checks an initiate body against the allowed provider set
// and returns the normalized intent, or every violated field.
func ValidateInitiate(req *InitiateRequest, allowed []model.Provider) (*model.PaymentIntent, []FieldError) {
	var errs []FieldError

	provider := strings.TrimSpace(strings.ToLower(req.Provider))
	if !providerAllowed(provider, allowed) {
		errs = append(errs, errf("provider", "provider must be one of %s", providerNames(allowed)))
	}

	if !model.ValidPlan(req.Plan) {
		errs = append(errs, errf("plan", "plan must be one of starter, business, pro, enterprise"))
	}

	cycle := req.BillingCycle
	if cycle == "" {
		cycle = string(model.BillingMonthly)
	}
	if !model.ValidBillingCycle(cycle) {
		errs = append(errs, errf("billingCycle", "billingCycle must be monthly or yearly"))
	}

	amount, amountErrs := validateAmount(req.Amount)
	errs = append(errs, amountErrs...)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, errf("name", "name is required"))
	} else if len(name) > maxStringLen {
		errs = append(errs, errf("name", "name must be at most %d characters", maxStringLen))
	}

	if !emailRe.MatchString(req.Email) {
		errs = append(errs, errf("email", "email must be a valid address"))
	}

	phone := stripWhitespace(req.Phone)
	if phone != "" && !phoneRe.MatchString(phone) {
		errs = append(errs, errf("phone", "phone must be a valid Indian mobile number"))
	}

	product := strings.TrimSpace(req.ProductInfo)
	if product == "" {
		product = fmt.Sprintf("%s plan (%s)", req.Plan, cycle)
	}
	if len(product) > maxStringLen {
		errs = append(errs, errf("productInfo", "productInfo must be at most %d characters", maxStringLen))
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &model.PaymentIntent{
		Provider:     model.Provider(provider),
		Plan:         model.Plan(req.Plan),
		BillingCycle: model.BillingCycle(cycle),
		AmountRupees: amount,
		ProductInfo:  product,
		Firstname:    name,
		Email:        req.Email,
		Phone:        phone,
	}, nil
}

// ValidateVerify checks a verify body. Order ids are rejected as malformed
// before any store lookup. The PayU block is only returned when its
// signature fields are present together.
func ValidateVerify(req *VerifyRequest) (*VerifyInput, []FieldError) {
	var errs []FieldError

	errs = append(errs, validateOrderID(req.OrderID)...)

	status := strings.TrimSpace(strings.ToLower(req.Status))
	if status == "" {
		errs = append(errs, errf("status", "status is required"))
	} else if len(status) > 32 {
		errs = append(errs, errf("status", "status must be at most 32 characters"))
	}

	for _, f := range []struct{ name, val string }{
		{"txnid", req.TxnID}, {"hash", req.Hash}, {"mihpayid", req.MihPayID}, {"udf1", req.UDF1},
	} {
		if len(f.val) > 128 {
			errs = append(errs, errf(f.name, "%s must be at most 128 characters", f.name))
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	in := &VerifyInput{OrderID: req.OrderID, Status: status}
	if req.Hash != "" && req.TxnID != "" {
		in.PayU = &PayUCallback{
			TxnID:       req.TxnID,
			Hash:        req.Hash,
			MihPayID:    req.MihPayID,
			Amount:      req.Amount,
			ProductInfo: req.ProductInfo,
			Firstname:   req.Firstname,
			Email:       req.Email,
		}
	}
	return in, nil
}

// ValidateCheckStatus checks a check_status body.
func ValidateCheckStatus(req *CheckStatusRequest) (string, []FieldError) {
	if errs := validateOrderID(req.OrderID); len(errs) > 0 {
		return "", errs
	}
	return req.OrderID, nil
}

func validateOrderID(id string) []FieldError {
	if id == "" {
		return []FieldError{errf("orderId", "orderId is required")}
	}
	if len(id) > maxIDLen {
		return []FieldError{errf("orderId", "orderId must be at most %d characters", maxIDLen)}
	}
	if _, err := uuid.Parse(id); err != nil {
		return []FieldError{errf("orderId", "orderId is not a valid identifier")}
	}
	return nil
}

func validateAmount(raw json.Number) (int64, []FieldError) {
	if raw.String() == "" {
		return 0, []FieldError{errf("amount", "amount is required")}
	}
	f, err := raw.Float64()
	if err != nil {
		return 0, []FieldError{errf("amount", "amount must be a number")}
	}
	n := int64(f)
	if float64(n) != f {
		return 0, []FieldError{errf("amount", "amount must be a whole number of rupees")}
	}
	if n <= 0 {
		return 0, []FieldError{errf("amount", "amount must be positive")}
	}
	if n > MaxAmountRupees {
		return 0, []FieldError{errf("amount", "amount must be at most %d", MaxAmountRupees)}
	}
	return n, nil
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func providerAllowed(p string, allowed []model.Provider) bool {
	for _, a := range allowed {
		if string(a) == p {
			return true
		}
	}
	return false
}

func providerNames(allowed []model.Provider) string {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

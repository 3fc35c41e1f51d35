package model

type Plan string

const (
	PlanStarter    Plan = "starter"
	PlanBusiness   Plan = "business"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

var Plans = []Plan{PlanStarter, PlanBusiness, PlanPro, PlanEnterprise}

func ValidPlan(s string) bool {
	for _, p := range Plans {
		if string(p) == s {
			return true
		}
	}
	return false
}

type BillingCycle string

const (
	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
)

func ValidBillingCycle(s string) bool {
	return s == string(BillingMonthly) || s == string(BillingYearly)
}

type Provider string

const (
	ProviderPayU     Provider = "payu"
	ProviderUPI      Provider = "upi"
	ProviderGPay     Provider = "gpay"
	ProviderCashfree Provider = "cashfree"
)

var Providers = []Provider{ProviderPayU, ProviderUPI, ProviderGPay, ProviderCashfree}

func ValidProvider(s string) bool {
	for _, p := range Providers {
		if string(p) == s {
			return true
		}
	}
	return false
}

// Package model holds C8's usage-accounting records. Grounded on
// original_source/backend/app/models/usage.py (field shapes recovered
// from test_metering_models.py: LLMUsageRecord, CreditTransaction).
package model

import "time"

// LLMUsageRecord is one metered provider call, recorded after success.
type LLMUsageRecord struct {
	ID              string
	UserID          string
	Provider        string
	Model           string
	TaskType        string
	InputTokens     int
	OutputTokens    int
	RawCostUSD      float64
	BilledCostUSD   float64
	MarginMultiplier float64
	CreatedAt       time.Time
}

// TransactionType enumerates the Credit Transaction kinds spec.md §3
// names: purchase, usage_debit, admin_grant, refund.
type TransactionType string

const (
	TransactionPurchase    TransactionType = "purchase"
	TransactionUsageDebit  TransactionType = "usage_debit"
	TransactionAdminGrant  TransactionType = "admin_grant"
	TransactionRefund      TransactionType = "refund"
)

// CreditTransaction is a signed balance movement; the sum over a user's
// transactions equals that user's current balance (spec.md §7's
// Balance-integrity invariant).
type CreditTransaction struct {
	ID              string
	UserID          string
	AmountUSD       float64
	TransactionType TransactionType
	ReferenceID     *string
	Description     string
	CreatedAt       time.Time
}

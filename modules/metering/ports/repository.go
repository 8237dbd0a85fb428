package ports

import (
	"context"

	"github.com/jobscout/scouter/modules/metering/model"
)

// MeteringRepository records usage and applies balance-affecting credit
// transactions under row-level locking on the user row.
type MeteringRepository interface {
	// RecordAndDebit inserts the usage record and a usage_debit credit
	// transaction, and decrements the user's balance, all in one
	// database transaction with the user row locked FOR UPDATE.
	RecordAndDebit(ctx context.Context, usage *model.LLMUsageRecord) error

	// ApplyTransaction inserts an arbitrary credit transaction (purchase,
	// admin_grant, refund) and adjusts the user's balance by AmountUSD.
	ApplyTransaction(ctx context.Context, txn *model.CreditTransaction) error

	BalanceOf(ctx context.Context, userID string) (float64, error)
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobscout/scouter/internal/notify"
	"github.com/jobscout/scouter/modules/metering/model"
)

// ErrInsufficientBalance is returned when a debit would drive a user's
// balance below zero (spec.md §3's "balance ≥ 0 after successful debit"
// invariant on the User entity).
var ErrInsufficientBalance = errors.New("insufficient balance")

// lowBalanceThresholdUSD is the balance below which a user gets a
// low-balance notice after a metered debit.
const lowBalanceThresholdUSD = 1.00

// MeteringRepository implements ports.MeteringRepository. Grounded on
// spec.md §7's shared-resource policy: SELECT ... FOR UPDATE on the user
// row around every balance-affecting write.
type MeteringRepository struct {
	pool   *pgxpool.Pool
	notify *notify.Client
}

func NewMeteringRepository(pool *pgxpool.Pool, notifyClient *notify.Client) *MeteringRepository {
	return &MeteringRepository{pool: pool, notify: notifyClient}
}

func (r *MeteringRepository) RecordAndDebit(ctx context.Context, usage *model.LLMUsageRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var balance float64
	var email string
	if err := tx.QueryRow(ctx, `SELECT balance_usd, email FROM users WHERE id = $1 FOR UPDATE`, usage.UserID).Scan(&balance, &email); err != nil {
		return err
	}

	usage.ID = uuid.New().String()
	if _, err := tx.Exec(ctx, `
		INSERT INTO llm_usage_records (id, user_id, provider, model, task_type, input_tokens, output_tokens, raw_cost_usd, billed_cost_usd, margin_multiplier, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
	`, usage.ID, usage.UserID, usage.Provider, usage.Model, usage.TaskType, usage.InputTokens, usage.OutputTokens, usage.RawCostUSD, usage.BilledCostUSD, usage.MarginMultiplier); err != nil {
		return err
	}

	txnID := uuid.New().String()
	amount := -usage.BilledCostUSD
	if _, err := tx.Exec(ctx, `
		INSERT INTO credit_transactions (id, user_id, amount_usd, transaction_type, reference_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`, txnID, usage.UserID, amount, model.TransactionUsageDebit, usage.ID, fmt.Sprintf("%s/%s usage", usage.Provider, usage.Model)); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET balance_usd = balance_usd + $2 WHERE id = $1`, usage.UserID, amount); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	newBalance := balance + amount
	if r.notify != nil && newBalance < lowBalanceThresholdUSD {
		// Best-effort: a failed notice never unwinds a committed debit.
		_ = r.notify.LowBalance(ctx, email, newBalance)
	}
	return nil
}

func (r *MeteringRepository) ApplyTransaction(ctx context.Context, txn *model.CreditTransaction) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var balance float64
	var email string
	if err := tx.QueryRow(ctx, `SELECT balance_usd, email FROM users WHERE id = $1 FOR UPDATE`, txn.UserID).Scan(&balance, &email); err != nil {
		return err
	}
	if balance+txn.AmountUSD < 0 {
		return ErrInsufficientBalance
	}

	txn.ID = uuid.New().String()
	if _, err := tx.Exec(ctx, `
		INSERT INTO credit_transactions (id, user_id, amount_usd, transaction_type, reference_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`, txn.ID, txn.UserID, txn.AmountUSD, txn.TransactionType, txn.ReferenceID, txn.Description); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET balance_usd = balance_usd + $2 WHERE id = $1`, txn.UserID, txn.AmountUSD); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if r.notify != nil && txn.TransactionType == model.TransactionAdminGrant {
		_ = r.notify.AdminGrant(ctx, email, txn.AmountUSD, txn.Description)
	}
	return nil
}

func (r *MeteringRepository) BalanceOf(ctx context.Context, userID string) (float64, error) {
	var balance float64
	err := r.pool.QueryRow(ctx, `SELECT balance_usd FROM users WHERE id = $1`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("metering: user %q not found", userID)
	}
	return balance, err
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/ticket-purchase-service/internal/model"
)

// PaymentRepo records charges in the payments ledger.  It is the payment
// gateway used by the purchase service.
type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

// MakePayment charges amount to the account by appending a ledger row.
func (r *PaymentRepo) MakePayment(ctx context.Context, accountID, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}
	if _, err := r.DB.ExecContext(ctx,
		"INSERT INTO payments (account_id, amount) VALUES (?,?)",
		accountID, amount); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// ListByAccount returns the account's payments, newest first.
func (r *PaymentRepo) ListByAccount(ctx context.Context, accountID int64) ([]model.Payment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,account_id,amount,created_at FROM payments WHERE account_id=? ORDER BY id DESC",
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.AccountID, &p.Amount, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

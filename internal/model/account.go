package model

import "time"

// Account mirrors a row of the `accounts` table.  Purchases are made on
// behalf of an account.
type Account struct {
	ID           int64     // accounts.id
	Email        string    // accounts.email
	PasswordHash string    // accounts.password_hash (bcrypt)
	IsActive     bool      // accounts.is_active
	CreatedAt    time.Time // accounts.created_at
}

// Payment mirrors a row of the `payments` ledger.
type Payment struct {
	ID        int64
	AccountID int64
	Amount    int64
	CreatedAt time.Time
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds a user's balance in the commitment asset.
type Wallet struct {
	ID        uuid.UUID       `json:"id"         db:"id"`
	UserID    uuid.UUID       `json:"user_id"    db:"user_id"`
	Asset     string          `json:"asset"      db:"asset"`
	Balance   decimal.Decimal `json:"balance"    db:"balance"`
	Locked    decimal.Decimal `json:"locked"     db:"locked"` // committed capital
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// Available returns the balance that is free to commit.
func (w *Wallet) Available() decimal.Decimal {
	return w.Balance.Sub(w.Locked)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/commt/commitments/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// WalletRepository reads wallet balances for the creation wizard.
type WalletRepository struct {
	db *sqlx.DB
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetByUserID fetches the wallet belonging to a specific user.
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	var w domain.Wallet
	err := r.db.GetContext(ctx, &w,
		`SELECT id, user_id, asset, balance, locked, updated_at FROM wallets WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("wallet_repo.GetByUserID: %w", err)
	}
	return &w, nil
}

// AvailableBalance returns balance − locked for the user's wallet.
func (r *WalletRepository) AvailableBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	w, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return w.Available(), nil
}

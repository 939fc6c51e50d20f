package repository

import (
	"context"
	"fmt"

	"github.com/commt/commitments/internal/domain"
	"github.com/jmoiron/sqlx"
)

// ListingRepository handles all database reads for marketplace Listings.
type ListingRepository struct {
	db *sqlx.DB
}

// NewListingRepository creates a new ListingRepository.
func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// List returns every listing in display order.
func (r *ListingRepository) List(ctx context.Context) ([]*domain.Listing, error) {
	listings := []*domain.Listing{}
	err := r.db.SelectContext(ctx, &listings, `
		SELECT id, type, score, amount, duration, yield, max_loss, owner, price, for_sale
		FROM listings
		ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing_repo.List: %w", err)
	}
	return listings, nil
}

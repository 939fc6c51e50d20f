package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/commt/commitments/internal/domain"
	"github.com/jmoiron/sqlx"
)

// CommitmentRepository handles all database reads for Commitments.
type CommitmentRepository struct {
	db *sqlx.DB
}

// NewCommitmentRepository creates a new CommitmentRepository.
func NewCommitmentRepository(db *sqlx.DB) *CommitmentRepository {
	return &CommitmentRepository{db: db}
}

// GetBySlug fetches a commitment and its compliance series by route key.
func (r *CommitmentRepository) GetBySlug(ctx context.Context, slug string) (*domain.Commitment, error) {
	var c domain.Commitment
	err := r.db.GetContext(ctx, &c, `
		SELECT slug, id, type, amount, duration_days, max_loss_percent, status,
		       to_char(created_at, 'YYYY-MM-DD') AS created_at,
		       to_char(expires_at, 'YYYY-MM-DD') AS expires_at,
		       current_value, compliance_score
		FROM commitments
		WHERE slug = $1`, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommitmentNotFound
		}
		return nil, fmt.Errorf("commitment_repo.GetBySlug: %w", err)
	}

	samples := []domain.ComplianceSample{}
	err = r.db.SelectContext(ctx, &samples, `
		SELECT date_label, compliance_score
		FROM compliance_samples
		WHERE commitment_slug = $1
		ORDER BY position ASC`, slug)
	if err != nil {
		return nil, fmt.Errorf("commitment_repo.GetBySlug samples: %w", err)
	}
	c.ComplianceData = samples
	return &c, nil
}

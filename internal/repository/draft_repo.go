package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/commt/commitments/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// DraftRepository persists submitted wizard drafts for later settlement.
type DraftRepository struct {
	db *sqlx.DB
}

// NewDraftRepository creates a new DraftRepository.
func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// submittedRow flattens a submission for NamedExec.
type submittedRow struct {
	ID          uuid.UUID `db:"id"`
	SubmittedAt time.Time `db:"submitted_at"`
	domain.SubmittedDraft
}

// Submit inserts the draft into commitment_drafts and returns the
// acknowledgement.
func (r *DraftRepository) Submit(ctx context.Context, d domain.SubmittedDraft) (*domain.Submission, error) {
	row := submittedRow{
		ID:             uuid.New(),
		SubmittedAt:    time.Now().UTC(),
		SubmittedDraft: d,
	}
	query := `
		INSERT INTO commitment_drafts
			(id, wizard_id, owner_id, type, amount, asset, duration_days, max_loss_percent, submitted_at)
		VALUES
			(:id, :wizard_id, :owner_id, :type, :amount, :asset, :duration_days, :max_loss_percent, :submitted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return nil, fmt.Errorf("draft_repo.Submit: %w", err)
	}
	return &domain.Submission{
		ID:          row.ID,
		Draft:       d,
		SubmittedAt: row.SubmittedAt,
		Message:     "Commitment draft received",
	}, nil
}

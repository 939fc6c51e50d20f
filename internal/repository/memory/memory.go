// Package memory provides in-process implementations of the read and
// submission stores, seeded with the Commt demo fixtures. It backs the
// service when STORE_DRIVER=memory and in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/commt/commitments/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Commitments
// ──────────────────────────────────────────────────────────────────────────────

// CommitmentRepository is a read-only lookup table keyed by slug.
type CommitmentRepository struct {
	commitments map[string]*domain.Commitment
}

// NewCommitmentRepository builds a table from the given records.
func NewCommitmentRepository(commitments ...*domain.Commitment) *CommitmentRepository {
	m := make(map[string]*domain.Commitment, len(commitments))
	for _, c := range commitments {
		m[c.Slug] = c
	}
	return &CommitmentRepository{commitments: m}
}

// GetBySlug returns the record stored under slug or ErrCommitmentNotFound.
func (r *CommitmentRepository) GetBySlug(_ context.Context, slug string) (*domain.Commitment, error) {
	c, ok := r.commitments[slug]
	if !ok {
		return nil, domain.ErrCommitmentNotFound
	}
	return c, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Listings
// ──────────────────────────────────────────────────────────────────────────────

// ListingRepository is a fixed, ordered list of marketplace listings.
type ListingRepository struct {
	listings []*domain.Listing
}

// NewListingRepository stores listings in the given order.
func NewListingRepository(listings ...*domain.Listing) *ListingRepository {
	return &ListingRepository{listings: listings}
}

// List returns the listings. Callers must not modify the returned slice.
func (r *ListingRepository) List(context.Context) ([]*domain.Listing, error) {
	return r.listings, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Balance
// ──────────────────────────────────────────────────────────────────────────────

// StaticBalance reports the same available balance for every user.
type StaticBalance struct {
	Balance decimal.Decimal
}

// AvailableBalance implements service.BalanceProvider.
func (s StaticBalance) AvailableBalance(context.Context, uuid.UUID) (decimal.Decimal, error) {
	return s.Balance, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Drafts
// ──────────────────────────────────────────────────────────────────────────────

// DraftRepository keeps submitted drafts in memory.
type DraftRepository struct {
	mu          sync.RWMutex
	submissions []*domain.Submission
}

// NewDraftRepository creates an empty DraftRepository.
func NewDraftRepository() *DraftRepository {
	return &DraftRepository{}
}

// Submit records the draft and returns its acknowledgement.
func (r *DraftRepository) Submit(_ context.Context, d domain.SubmittedDraft) (*domain.Submission, error) {
	s := &domain.Submission{
		ID:          uuid.New(),
		Draft:       d,
		SubmittedAt: time.Now().UTC(),
		Message:     "Commitment draft received",
	}
	r.mu.Lock()
	r.submissions = append(r.submissions, s)
	r.mu.Unlock()
	return s, nil
}

// Submissions returns a copy of everything submitted so far.
func (r *DraftRepository) Submissions() []*domain.Submission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Submission, len(r.submissions))
	copy(out, r.submissions)
	return out
}

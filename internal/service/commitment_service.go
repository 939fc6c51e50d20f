package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/commt/commitments/internal/config"
	"github.com/commt/commitments/internal/domain"
	"github.com/commt/commitments/internal/metrics"
)

// CommitmentReader looks commitments up by their route slug. Implemented by
// the postgres and memory repositories and by the redis cache.
type CommitmentReader interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Commitment, error)
}

// CommitmentService serves the commitment detail page.
type CommitmentService struct {
	repo    CommitmentReader
	cfg     *config.Config
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewCommitmentService creates a CommitmentService. m may be nil.
func NewCommitmentService(repo CommitmentReader, cfg *config.Config, m *metrics.Collector) *CommitmentService {
	return &CommitmentService{
		repo:    repo,
		cfg:     cfg,
		metrics: m,
		logger:  slog.Default().With("service", "commitment"),
	}
}

// Get returns the commitment for slug together with its performance figures.
// A miss returns domain.ErrCommitmentNotFound.
func (s *CommitmentService) Get(ctx context.Context, slug string) (*domain.CommitmentDetail, error) {
	c, err := s.lookup(ctx, slug)
	if err != nil {
		return nil, err
	}
	detail := c.ToDetail()
	return &detail, nil
}

// Share returns the share payload for the commitment at slug.
func (s *CommitmentService) Share(ctx context.Context, slug string) (*domain.ShareLink, error) {
	c, err := s.lookup(ctx, slug)
	if err != nil {
		return nil, err
	}
	link := c.ShareLink(s.cfg.Share.PublicBaseURL)
	return &link, nil
}

// TypePresets returns the cards shown on the Select Type step.
func (s *CommitmentService) TypePresets() []domain.TypePreset {
	return domain.TypePresets()
}

// BackURL is where a client should navigate when a commitment is missing.
func (s *CommitmentService) BackURL() string {
	return s.cfg.Share.CommitmentsPath
}

func (s *CommitmentService) lookup(ctx context.Context, slug string) (*domain.Commitment, error) {
	c, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if domain.IsNotFound(err) {
			s.metrics.RecordLookup(false)
			s.logger.DebugContext(ctx, "commitment not found", "slug", slug)
		}
		return nil, fmt.Errorf("commitment_service.lookup: %w", err)
	}
	s.metrics.RecordLookup(true)
	return c, nil
}

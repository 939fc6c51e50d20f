package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/commt/commitments/internal/domain"
	"github.com/commt/commitments/internal/metrics"
)

// ListingReader returns every marketplace listing in display order.
type ListingReader interface {
	List(ctx context.Context) ([]*domain.Listing, error)
}

// MarketplaceService filters marketplace listings.
type MarketplaceService struct {
	repo    ListingReader
	metrics *metrics.Collector
}

// NewMarketplaceService creates a MarketplaceService. m may be nil.
func NewMarketplaceService(repo ListingReader, m *metrics.Collector) *MarketplaceService {
	return &MarketplaceService{repo: repo, metrics: m}
}

// List returns the listings matching query, optionally narrowed to those for
// sale. The result is never nil.
func (s *MarketplaceService) List(ctx context.Context, query string, forSaleOnly bool) ([]*domain.Listing, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("marketplace_service.List: %w", err)
	}

	s.metrics.RecordSearch(strings.TrimSpace(query) != "" || forSaleOnly)

	items = domain.FilterBySearch(items, query)
	if forSaleOnly {
		items = domain.FilterForSale(items)
	}
	if items == nil {
		items = []*domain.Listing{}
	}
	return items, nil
}

package domain

import (
	"strings"
)

// Listing is a marketplace-visible representation of a commitment. All
// figures except Score are pre-formatted display strings.
type Listing struct {
	ID       string         `json:"id"       db:"id"`
	Type     CommitmentType `json:"type"     db:"type"`
	Score    int            `json:"score"    db:"score"`
	Amount   string         `json:"amount"   db:"amount"`
	Duration string         `json:"duration" db:"duration"`
	Yield    string         `json:"yield"    db:"yield"`
	MaxLoss  string         `json:"max_loss" db:"max_loss"`
	Owner    string         `json:"owner"    db:"owner"`
	Price    string         `json:"price"    db:"price"`
	ForSale  bool           `json:"for_sale" db:"for_sale"`
}

// searchText joins the fields a marketplace search may match. ID, Score and
// MaxLoss are deliberately not searchable.
func (l *Listing) searchText() string {
	return strings.Join([]string{
		l.Type.Label(),
		l.Amount,
		l.Duration,
		l.Yield,
		l.Price,
		l.Owner,
	}, " ")
}

// FilterBySearch returns the listings whose searchable text contains query,
// case-insensitively. A blank query returns items as-is. Order is preserved
// and a query matching nothing yields an empty, non-nil slice.
func FilterBySearch(items []*Listing, query string) []*Listing {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]*Listing, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.searchText()), q) {
			out = append(out, item)
		}
	}
	return out
}

// FilterForSale keeps only listings currently offered for sale.
func FilterForSale(items []*Listing) []*Listing {
	out := make([]*Listing, 0, len(items))
	for _, item := range items {
		if item.ForSale {
			out = append(out, item)
		}
	}
	return out
}

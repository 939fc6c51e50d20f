package domain_test

import (
	"testing"

	"github.com/commt/commitments/internal/domain"
	"github.com/shopspring/decimal"
)

// ── Gain / ROI ────────────────────────────────────────────────────────────────

func TestCommitment_GainAndROI(t *testing.T) {
	c := &domain.Commitment{
		Amount:       decimal.NewFromInt(100000),
		CurrentValue: decimal.NewFromInt(102000),
	}
	if !c.Gain().Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Gain() = %s, want 2000", c.Gain())
	}
	roi, ok := c.ROIPercent()
	if !ok {
		t.Fatal("ROIPercent() ok = false for non-zero amount")
	}
	if !roi.Equal(decimal.NewFromInt(2)) {
		t.Errorf("ROIPercent() = %s, want 2", roi)
	}

	d := c.ToDetail()
	if d.Performance.ROI != "2.00%" {
		t.Errorf("ROI display = %q, want 2.00%%", d.Performance.ROI)
	}
}

func TestCommitment_Loss(t *testing.T) {
	c := &domain.Commitment{
		Amount:       decimal.NewFromInt(50000),
		CurrentValue: decimal.NewFromInt(49000),
	}
	if !c.Gain().Equal(decimal.NewFromInt(-1000)) {
		t.Errorf("Gain() = %s, want -1000", c.Gain())
	}
	if got := c.ToDetail().Performance.ROI; got != "-2.00%" {
		t.Errorf("ROI display = %q, want -2.00%%", got)
	}
}

func TestCommitment_ZeroAmount_ROIIsNA(t *testing.T) {
	c := &domain.Commitment{
		Amount:       decimal.Zero,
		CurrentValue: decimal.NewFromInt(10),
	}
	// Should not panic / divide by zero
	d := c.ToDetail()
	if d.Performance.ROI != domain.ROINotAvailable {
		t.Errorf("ROI display = %q, want %q", d.Performance.ROI, domain.ROINotAvailable)
	}
	if d.Performance.ROIPercent != nil {
		t.Errorf("ROIPercent should be nil for zero amount, got %s", d.Performance.ROIPercent)
	}
}

// ── Labels ────────────────────────────────────────────────────────────────────

func TestCommitment_Labels(t *testing.T) {
	c := &domain.Commitment{Type: domain.TypeBalanced, Status: domain.StatusActive}
	d := c.ToDetail()
	if d.StatusLabel != "Active" {
		t.Errorf("StatusLabel = %q, want Active", d.StatusLabel)
	}
	if d.TypeLabel != "Balanced" {
		t.Errorf("TypeLabel = %q, want Balanced", d.TypeLabel)
	}
}

func TestParseCommitmentType(t *testing.T) {
	for _, in := range []string{"safe", "Safe", " BALANCED ", "aggressive"} {
		if _, err := domain.ParseCommitmentType(in); err != nil {
			t.Errorf("ParseCommitmentType(%q) error = %v", in, err)
		}
	}
	if _, err := domain.ParseCommitmentType("reckless"); err != domain.ErrInvalidCommitmentType {
		t.Errorf("ParseCommitmentType(reckless) error = %v, want ErrInvalidCommitmentType", err)
	}
}

// ── Share link ────────────────────────────────────────────────────────────────

func TestCommitment_ShareLink(t *testing.T) {
	c := &domain.Commitment{Slug: "1", ID: "CMT-ABC123", Type: domain.TypeBalanced}
	link := c.ShareLink("https://commt.app/")
	if link.URL != "https://commt.app/commitments/1" {
		t.Errorf("URL = %q", link.URL)
	}
	if link.Title != "Commitment CMT-ABC123" {
		t.Errorf("Title = %q", link.Title)
	}
	if link.Text != "Check out my Balanced commitment on Commt" {
		t.Errorf("Text = %q", link.Text)
	}
}

// ── Error predicates ──────────────────────────────────────────────────────────

func TestErrorPredicates(t *testing.T) {
	if !domain.IsNotFound(domain.ErrCommitmentNotFound) {
		t.Error("ErrCommitmentNotFound should be a not-found error")
	}
	if !domain.IsValidation(domain.ErrStepInvalid) {
		t.Error("ErrStepInvalid should be a validation error")
	}
	if domain.IsNotFound(domain.ErrStepInvalid) {
		t.Error("ErrStepInvalid should not be a not-found error")
	}
	if !domain.IsConflict(domain.ErrNotOnReview) {
		t.Error("ErrNotOnReview should be a conflict")
	}
}

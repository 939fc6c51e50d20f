// Package domain defines the core entities of the Commt commitments service:
// commitments, marketplace listings and the creation wizard's draft.
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Types & constants
// ──────────────────────────────────────────────────────────────────────────────

// CommitmentType is the risk profile of a commitment.
type CommitmentType string

const (
	TypeSafe       CommitmentType = "safe"
	TypeBalanced   CommitmentType = "balanced"
	TypeAggressive CommitmentType = "aggressive"
)

// IsValid returns true if the type is one of the three known profiles.
func (t CommitmentType) IsValid() bool {
	return t == TypeSafe || t == TypeBalanced || t == TypeAggressive
}

// Label returns the display form, e.g. "Balanced".
func (t CommitmentType) Label() string {
	return capitalize(string(t))
}

// ParseCommitmentType accepts any casing ("Safe", "SAFE", "safe").
func ParseCommitmentType(s string) (CommitmentType, error) {
	t := CommitmentType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrInvalidCommitmentType
	}
	return t, nil
}

// CommitmentStatus is the lifecycle state of a commitment.
type CommitmentStatus string

const (
	StatusActive   CommitmentStatus = "active"   // capital locked, rules enforced
	StatusExpired  CommitmentStatus = "expired"  // duration elapsed
	StatusViolated CommitmentStatus = "violated" // max-loss breached
	StatusExited   CommitmentStatus = "exited"   // closed early, penalty paid
)

// Label returns the capitalised status shown in the detail header.
func (s CommitmentStatus) Label() string {
	return capitalize(string(s))
}

// ──────────────────────────────────────────────────────────────────────────────
// Commitment
// ──────────────────────────────────────────────────────────────────────────────

// ComplianceSample is one point of the compliance-score time series.
type ComplianceSample struct {
	Date            string `json:"date"             db:"date_label"`
	ComplianceScore int    `json:"compliance_score" db:"compliance_score"`
}

// Commitment is a fixed-duration, fixed-risk capital allocation.
// Slug is the key used in page routes; ID is the reference shown to users.
type Commitment struct {
	Slug            string             `json:"slug"             db:"slug"`
	ID              string             `json:"id"               db:"id"`
	Type            CommitmentType     `json:"type"             db:"type"`
	Amount          decimal.Decimal    `json:"amount"           db:"amount"`
	DurationDays    int                `json:"duration_days"    db:"duration_days"`
	MaxLossPercent  decimal.Decimal    `json:"max_loss_percent" db:"max_loss_percent"`
	Status          CommitmentStatus   `json:"status"           db:"status"`
	CreatedAt       string             `json:"created_at"       db:"created_at"`
	ExpiresAt       string             `json:"expires_at"       db:"expires_at"`
	CurrentValue    decimal.Decimal    `json:"current_value"    db:"current_value"`
	ComplianceScore int                `json:"compliance_score" db:"compliance_score"`
	ComplianceData  []ComplianceSample `json:"compliance_data"  db:"-"`
}

// Gain returns currentValue − amount (negative for a loss).
func (c *Commitment) Gain() decimal.Decimal {
	return c.CurrentValue.Sub(c.Amount)
}

// ROIPercent returns gain / amount × 100. ok is false when amount is zero,
// in which case the return is undefined and must be shown as "N/A".
func (c *Commitment) ROIPercent() (roi decimal.Decimal, ok bool) {
	if c.Amount.IsZero() {
		return decimal.Zero, false
	}
	return c.Gain().Div(c.Amount).Mul(decimal.NewFromInt(100)), true
}

// ──────────────────────────────────────────────────────────────────────────────
// CommitmentDetail — read model for the detail page
// ──────────────────────────────────────────────────────────────────────────────

// ROINotAvailable is rendered in place of the ROI when amount is zero.
const ROINotAvailable = "N/A"

// Performance carries the derived display values of a commitment.
type Performance struct {
	Gain       decimal.Decimal  `json:"gain"`
	ROIPercent *decimal.Decimal `json:"roi_percent"` // nil when amount is zero
	ROI        string           `json:"roi"`         // "2.00%" or "N/A"
}

// CommitmentDetail is the commitment plus its derived performance figures.
type CommitmentDetail struct {
	*Commitment
	StatusLabel string      `json:"status_label"`
	TypeLabel   string      `json:"type_label"`
	Performance Performance `json:"performance"`
}

// ToDetail builds the read model for the detail page.
func (c *Commitment) ToDetail() CommitmentDetail {
	perf := Performance{Gain: c.Gain(), ROI: ROINotAvailable}
	if roi, ok := c.ROIPercent(); ok {
		perf.ROIPercent = &roi
		perf.ROI = roi.StringFixed(2) + "%"
	}
	return CommitmentDetail{
		Commitment:  c,
		StatusLabel: c.Status.Label(),
		TypeLabel:   c.Type.Label(),
		Performance: perf,
	}
}

// ShareLink is the payload a client hands to the platform share sheet or,
// failing that, copies to the clipboard.
type ShareLink struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// ShareLink builds the share payload for this commitment under baseURL.
func (c *Commitment) ShareLink(baseURL string) ShareLink {
	return ShareLink{
		URL:   strings.TrimRight(baseURL, "/") + "/commitments/" + c.Slug,
		Title: "Commitment " + c.ID,
		Text:  "Check out my " + c.Type.Label() + " commitment on Commt",
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

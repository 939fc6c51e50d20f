package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Limits & messages
// ──────────────────────────────────────────────────────────────────────────────

const (
	MinDurationDays = 1
	MaxDurationDays = 365

	// DefaultDurationDays and DefaultMaxLossPercent seed a fresh draft.
	DefaultDurationDays   = 90
	DefaultMaxLossPercent = 100
	DefaultType           = TypeBalanced
)

var (
	MinMaxLossPercent = decimal.Zero
	MaxMaxLossPercent = decimal.NewFromInt(100)

	// maxLossWarningAbove is the level above which the user is warned that
	// nearly all capital is at risk.
	maxLossWarningAbove = decimal.NewFromInt(80)

	hundred = decimal.NewFromInt(100)
)

// Amount validation messages surfaced inline on the Configure step.
const (
	MsgAmountNotPositive    = "Amount must be greater than 0"
	MsgAmountExceedsBalance = "Amount exceeds available balance"
	MsgAmountNotNumber      = "Amount must be a valid number"
)

// PenaltyRate returns the early-exit penalty in percent for a commitment type.
func PenaltyRate(t CommitmentType) decimal.Decimal {
	switch t {
	case TypeAggressive:
		return decimal.NewFromInt(5)
	case TypeBalanced:
		return decimal.NewFromInt(3)
	default:
		return decimal.NewFromInt(2)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Draft
// ──────────────────────────────────────────────────────────────────────────────

// Draft is the in-progress user input of the creation wizard. Amount is kept
// as typed so an empty field can be told apart from zero.
type Draft struct {
	Type           CommitmentType  `json:"type"`
	Amount         string          `json:"amount"`
	Asset          string          `json:"asset"`
	DurationDays   int             `json:"duration_days"`
	MaxLossPercent decimal.Decimal `json:"max_loss_percent"`
}

// NewDraft returns a draft holding the wizard defaults.
func NewDraft(asset string) Draft {
	return Draft{
		Type:           DefaultType,
		Asset:          asset,
		DurationDays:   DefaultDurationDays,
		MaxLossPercent: decimal.NewFromInt(DefaultMaxLossPercent),
	}
}

// ParsedAmount interprets Amount. entered is false for a blank field;
// numeric is false when the text is not a number. A blank field parses as 0.
func (d Draft) ParsedAmount() (amount decimal.Decimal, entered, numeric bool) {
	s := strings.TrimSpace(d.Amount)
	if s == "" {
		return decimal.Zero, false, true
	}
	a, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, true, false
	}
	return a, true, true
}

// AmountError returns the inline amount message, or "" when the amount is
// acceptable or not yet entered. The balance check runs after the positivity
// check and overwrites its message.
func (d Draft) AmountError(balance decimal.Decimal) string {
	amount, entered, numeric := d.ParsedAmount()
	if !numeric {
		return MsgAmountNotNumber
	}
	var msg string
	if entered && amount.LessThanOrEqual(decimal.Zero) {
		msg = MsgAmountNotPositive
	}
	if amount.GreaterThan(balance) {
		msg = MsgAmountExceedsBalance
	}
	return msg
}

// IsValid reports whether the draft may advance past Configure: amount in
// (0, balance], duration in [1,365] and max-loss in [0,100].
func (d Draft) IsValid(balance decimal.Decimal) bool {
	amount, _, numeric := d.ParsedAmount()
	return numeric &&
		amount.GreaterThan(decimal.Zero) &&
		amount.LessThanOrEqual(balance) &&
		d.DurationDays >= MinDurationDays &&
		d.DurationDays <= MaxDurationDays &&
		d.MaxLossPercent.GreaterThanOrEqual(MinMaxLossPercent) &&
		d.MaxLossPercent.LessThanOrEqual(MaxMaxLossPercent)
}

// MaxLossWarning is true when more than 80% of the capital may be lost.
// It never blocks advancement.
func (d Draft) MaxLossWarning() bool {
	return d.MaxLossPercent.GreaterThan(maxLossWarningAbove)
}

// EarlyExitPenalty returns amount × penaltyRate(type) / 100. A non-numeric
// amount counts as zero.
func (d Draft) EarlyExitPenalty() decimal.Decimal {
	amount, _, numeric := d.ParsedAmount()
	if !numeric {
		amount = decimal.Zero
	}
	return amount.Mul(PenaltyRate(d.Type)).Div(hundred)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fees
// ──────────────────────────────────────────────────────────────────────────────

// FeeEstimator computes the network/platform fee shown on Configure and Review.
type FeeEstimator interface {
	EstimateFee(d Draft) decimal.Decimal
}

// ZeroFee charges nothing.
type ZeroFee struct{}

// EstimateFee implements FeeEstimator.
func (ZeroFee) EstimateFee(Draft) decimal.Decimal { return decimal.Zero }

// ──────────────────────────────────────────────────────────────────────────────
// Type presets
// ──────────────────────────────────────────────────────────────────────────────

// TypePreset describes a commitment type on the Select Type step.
// MaxLossPercent is nil for types without loss protection.
type TypePreset struct {
	Type           CommitmentType   `json:"type"`
	Label          string           `json:"label"`
	DurationDays   int              `json:"duration_days"`
	MaxLossPercent *decimal.Decimal `json:"max_loss_percent"`
	Summary        string           `json:"summary"`
	PenaltyPercent decimal.Decimal  `json:"early_exit_penalty_percent"`
}

// TypePresets lists the selectable types in display order.
func TypePresets() []TypePreset {
	two, eight := decimal.NewFromInt(2), decimal.NewFromInt(8)
	return []TypePreset{
		{Type: TypeSafe, Label: "Safe Commitment", DurationDays: 30, MaxLossPercent: &two,
			Summary: "Lower but stable yield", PenaltyPercent: PenaltyRate(TypeSafe)},
		{Type: TypeBalanced, Label: "Balanced Commitment", DurationDays: 60, MaxLossPercent: &eight,
			Summary: "Medium yield", PenaltyPercent: PenaltyRate(TypeBalanced)},
		{Type: TypeAggressive, Label: "Aggressive Commitment", DurationDays: 90,
			Summary: "Highest yield potential", PenaltyPercent: PenaltyRate(TypeAggressive)},
	}
}

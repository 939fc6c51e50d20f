package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Step
// ──────────────────────────────────────────────────────────────────────────────

// Step is a position in the linear creation wizard.
type Step int

const (
	StepSelectType Step = 1
	StepConfigure  Step = 2
	StepReview     Step = 3
)

// Label returns the stepper caption.
func (s Step) Label() string {
	switch s {
	case StepSelectType:
		return "Select Type"
	case StepConfigure:
		return "Configure"
	case StepReview:
		return "Review"
	}
	return ""
}

var assetSymbol = regexp.MustCompile(`^[A-Za-z0-9]{1,12}$`)

// ──────────────────────────────────────────────────────────────────────────────
// Derived values
// ──────────────────────────────────────────────────────────────────────────────

// Derived holds every value computed from a draft and the available balance.
type Derived struct {
	EarlyExitPenaltyAmount decimal.Decimal `json:"early_exit_penalty_amount"`
	EarlyExitPenalty       string          `json:"early_exit_penalty"` // "30 XLM"
	EstimatedFeesAmount    decimal.Decimal `json:"estimated_fees_amount"`
	EstimatedFees          string          `json:"estimated_fees"` // "0.00 XLM"
	AmountError            string          `json:"amount_error,omitempty"`
	IsStepValid            bool            `json:"is_step_valid"`
	MaxLossWarning         bool            `json:"max_loss_warning"`
}

// derivedKey is the dependency set of Derived. Equal keys give equal results.
type derivedKey struct {
	typ      CommitmentType
	amount   string
	asset    string
	duration int
	maxLoss  string
	balance  string
}

// ──────────────────────────────────────────────────────────────────────────────
// Wizard
// ──────────────────────────────────────────────────────────────────────────────

// Wizard is the state holder of one commitment-creation session. It is not
// safe for concurrent use; callers serialise access.
type Wizard struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Step             Step
	Draft            Draft
	AvailableBalance decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time

	fees     FeeEstimator
	memoKey  derivedKey
	memo     Derived
	memoSet  bool
	computes int
}

// NewWizard starts a session on the Select Type step with a default draft.
func NewWizard(ownerID uuid.UUID, asset string, balance decimal.Decimal, fees FeeEstimator, now time.Time) *Wizard {
	if fees == nil {
		fees = ZeroFee{}
	}
	return &Wizard{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		Step:             StepSelectType,
		Draft:            NewDraft(asset),
		AvailableBalance: balance,
		CreatedAt:        now,
		UpdatedAt:        now,
		fees:             fees,
	}
}

// Next advances one step. Leaving Configure requires a valid draft; at
// Review it is a no-op.
func (w *Wizard) Next() error {
	if w.Step >= StepReview {
		return nil
	}
	if w.Step == StepConfigure && !w.Derived().IsStepValid {
		return ErrStepInvalid
	}
	w.Step++
	return nil
}

// Back regresses one step; at Select Type it is a no-op.
func (w *Wizard) Back() {
	if w.Step > StepSelectType {
		w.Step--
	}
}

// SetType changes the commitment type.
func (w *Wizard) SetType(t CommitmentType) error {
	if !t.IsValid() {
		return ErrInvalidCommitmentType
	}
	w.Draft.Type = t
	return nil
}

// SetAmount stores the amount exactly as typed; validity shows up in Derived.
func (w *Wizard) SetAmount(amount string) {
	w.Draft.Amount = amount
}

// SetAsset changes the asset symbol.
func (w *Wizard) SetAsset(asset string) error {
	asset = strings.TrimSpace(asset)
	if !assetSymbol.MatchString(asset) {
		return ErrInvalidAsset
	}
	w.Draft.Asset = strings.ToUpper(asset)
	return nil
}

// SetDuration stores the duration; out-of-range values are kept and make the
// step invalid rather than being rejected.
func (w *Wizard) SetDuration(days int) {
	w.Draft.DurationDays = days
}

// SetMaxLoss stores the max-loss percentage; out-of-range values are kept
// and make the step invalid.
func (w *Wizard) SetMaxLoss(percent decimal.Decimal) {
	w.Draft.MaxLossPercent = percent
}

// SetAvailableBalance refreshes the balance the amount is validated against.
func (w *Wizard) SetAvailableBalance(balance decimal.Decimal) {
	w.AvailableBalance = balance
}

// Derived returns the values computed from the current draft and balance.
// The result is recomputed only when one of its inputs changed.
func (w *Wizard) Derived() Derived {
	key := derivedKey{
		typ:      w.Draft.Type,
		amount:   w.Draft.Amount,
		asset:    w.Draft.Asset,
		duration: w.Draft.DurationDays,
		maxLoss:  w.Draft.MaxLossPercent.String(),
		balance:  w.AvailableBalance.String(),
	}
	if w.memoSet && key == w.memoKey {
		return w.memo
	}

	penalty := w.Draft.EarlyExitPenalty()
	fee := w.fees.EstimateFee(w.Draft)
	w.memo = Derived{
		EarlyExitPenaltyAmount: penalty,
		EarlyExitPenalty:       penalty.String() + " " + w.Draft.Asset,
		EstimatedFeesAmount:    fee,
		EstimatedFees:          fee.StringFixed(2) + " " + w.Draft.Asset,
		AmountError:            w.Draft.AmountError(w.AvailableBalance),
		IsStepValid:            w.Draft.IsValid(w.AvailableBalance),
		MaxLossWarning:         w.Draft.MaxLossWarning(),
	}
	w.memoKey = key
	w.memoSet = true
	w.computes++
	return w.memo
}

// Submission returns the draft to hand to a submitter. Only a valid draft on
// the Review step can be submitted.
func (w *Wizard) Submission() (SubmittedDraft, error) {
	if w.Step != StepReview {
		return SubmittedDraft{}, ErrNotOnReview
	}
	if !w.Derived().IsStepValid {
		return SubmittedDraft{}, ErrStepInvalid
	}
	amount, _, _ := w.Draft.ParsedAmount()
	return SubmittedDraft{
		WizardID:       w.ID,
		OwnerID:        w.OwnerID,
		Type:           w.Draft.Type,
		Amount:         amount,
		Asset:          w.Draft.Asset,
		DurationDays:   w.Draft.DurationDays,
		MaxLossPercent: w.Draft.MaxLossPercent,
	}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Read models
// ──────────────────────────────────────────────────────────────────────────────

// WizardView is the serialisable state of a wizard session.
type WizardView struct {
	ID               uuid.UUID       `json:"id"`
	Step             Step            `json:"step"`
	StepLabel        string          `json:"step_label"`
	CanGoBack        bool            `json:"can_go_back"`
	Draft            Draft           `json:"draft"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	Derived          Derived         `json:"derived"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// View snapshots the session.
func (w *Wizard) View() WizardView {
	return WizardView{
		ID:               w.ID,
		Step:             w.Step,
		StepLabel:        w.Step.Label(),
		CanGoBack:        w.Step > StepSelectType,
		Draft:            w.Draft,
		AvailableBalance: w.AvailableBalance,
		Derived:          w.Derived(),
		UpdatedAt:        w.UpdatedAt,
	}
}

// SubmittedDraft is a finalised draft handed to the submission collaborator.
type SubmittedDraft struct {
	WizardID       uuid.UUID       `json:"wizard_id"        db:"wizard_id"`
	OwnerID        uuid.UUID       `json:"owner_id"         db:"owner_id"`
	Type           CommitmentType  `json:"type"             db:"type"`
	Amount         decimal.Decimal `json:"amount"           db:"amount"`
	Asset          string          `json:"asset"            db:"asset"`
	DurationDays   int             `json:"duration_days"    db:"duration_days"`
	MaxLossPercent decimal.Decimal `json:"max_loss_percent" db:"max_loss_percent"`
}

// Submission is the acknowledgement returned after a draft is accepted.
type Submission struct {
	ID          uuid.UUID      `json:"id"           db:"id"`
	Draft       SubmittedDraft `json:"draft"        db:"-"`
	SubmittedAt time.Time      `json:"submitted_at" db:"submitted_at"`
	Message     string         `json:"message"      db:"-"`
}

package domain_test

import (
	"testing"
	"time"

	"github.com/commt/commitments/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var balance = decimal.NewFromInt(10000)

func newWizard() *domain.Wizard {
	return domain.NewWizard(uuid.New(), "XLM", balance, nil, time.Now().UTC())
}

// configured returns a wizard on Configure holding a valid draft.
func configured(t *testing.T) *domain.Wizard {
	t.Helper()
	w := newWizard()
	if err := w.Next(); err != nil {
		t.Fatalf("Next from SelectType: %v", err)
	}
	w.SetAmount("1000")
	return w
}

// ── Defaults ──────────────────────────────────────────────────────────────────

func TestNewWizard_Defaults(t *testing.T) {
	w := newWizard()
	if w.Step != domain.StepSelectType {
		t.Errorf("Step = %d, want 1", w.Step)
	}
	if w.Draft.Type != domain.TypeBalanced {
		t.Errorf("Type = %q, want balanced", w.Draft.Type)
	}
	if w.Draft.Asset != "XLM" || w.Draft.DurationDays != 90 || !w.Draft.MaxLossPercent.Equal(decimal.NewFromInt(100)) {
		t.Errorf("unexpected defaults: %+v", w.Draft)
	}
	d := w.Derived()
	if d.AmountError != "" {
		t.Errorf("blank amount should not raise an error, got %q", d.AmountError)
	}
	if d.IsStepValid {
		t.Error("blank amount should not be a valid step")
	}
	if !d.MaxLossWarning {
		t.Error("default max-loss of 100% should warn")
	}
}

// ── Step transitions ──────────────────────────────────────────────────────────

func TestWizard_BackAtFirstStepIsNoop(t *testing.T) {
	w := newWizard()
	w.Back()
	if w.Step != domain.StepSelectType {
		t.Errorf("Back at step 1 moved to %d", w.Step)
	}
}

func TestWizard_NextAtReviewIsNoop(t *testing.T) {
	w := configured(t)
	if err := w.Next(); err != nil {
		t.Fatalf("Next from Configure: %v", err)
	}
	if w.Step != domain.StepReview {
		t.Fatalf("Step = %d, want 3", w.Step)
	}
	if err := w.Next(); err != nil {
		t.Errorf("Next at Review returned %v, want nil", err)
	}
	if w.Step != domain.StepReview {
		t.Errorf("Next at Review moved to %d", w.Step)
	}
}

func TestWizard_StepsStayInRange(t *testing.T) {
	w := configured(t)
	for i := 0; i < 10; i++ {
		_ = w.Next()
		if w.Step < domain.StepSelectType || w.Step > domain.StepReview {
			t.Fatalf("Step out of range: %d", w.Step)
		}
	}
	for i := 0; i < 10; i++ {
		w.Back()
		if w.Step < domain.StepSelectType || w.Step > domain.StepReview {
			t.Fatalf("Step out of range: %d", w.Step)
		}
	}
	if w.Step != domain.StepSelectType {
		t.Errorf("Step = %d after repeated Back, want 1", w.Step)
	}
}

func TestWizard_NextFromConfigureRequiresValidDraft(t *testing.T) {
	w := newWizard()
	_ = w.Next()
	if err := w.Next(); err != domain.ErrStepInvalid {
		t.Errorf("Next with blank amount = %v, want ErrStepInvalid", err)
	}
	if w.Step != domain.StepConfigure {
		t.Errorf("invalid Next moved to step %d", w.Step)
	}
}

// ── Amount validation ─────────────────────────────────────────────────────────

func TestWizard_AmountError(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"", ""},
		{"   ", ""},
		{"1", ""},
		{"10000", ""},
		{"0", domain.MsgAmountNotPositive},
		{"-5", domain.MsgAmountNotPositive},
		{"10000.01", domain.MsgAmountExceedsBalance},
		{"250000", domain.MsgAmountExceedsBalance},
		{"abc", domain.MsgAmountNotNumber},
	}
	w := configured(t)
	for _, tc := range cases {
		w.SetAmount(tc.amount)
		if got := w.Derived().AmountError; got != tc.want {
			t.Errorf("amount %q: AmountError = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestWizard_BalanceCheckOverwritesPositivityCheck(t *testing.T) {
	// With a negative balance a non-positive amount can exceed it; the
	// balance message is evaluated last and wins.
	w := domain.NewWizard(uuid.New(), "XLM", decimal.NewFromInt(-10), nil, time.Now())
	w.SetAmount("0")
	if got := w.Derived().AmountError; got != domain.MsgAmountExceedsBalance {
		t.Errorf("AmountError = %q, want %q", got, domain.MsgAmountExceedsBalance)
	}
}

func TestWizard_BalanceRefreshRevalidates(t *testing.T) {
	w := configured(t)
	if !w.Derived().IsStepValid {
		t.Fatal("expected valid draft")
	}
	w.SetAvailableBalance(decimal.NewFromInt(500))
	d := w.Derived()
	if d.IsStepValid || d.AmountError != domain.MsgAmountExceedsBalance {
		t.Errorf("after balance drop: valid=%v err=%q", d.IsStepValid, d.AmountError)
	}
}

// ── isStepValid boundaries ────────────────────────────────────────────────────

func TestWizard_IsStepValid_Boundaries(t *testing.T) {
	cases := []struct {
		name     string
		amount   string
		duration int
		maxLoss  int64
		want     bool
	}{
		{"all valid", "1000", 90, 50, true},
		{"duration 1", "1000", 1, 50, true},
		{"duration 365", "1000", 365, 50, true},
		{"duration 0", "1000", 0, 50, false},
		{"duration 366", "1000", 366, 50, false},
		{"max-loss 0", "1000", 90, 0, true},
		{"max-loss 100", "1000", 90, 100, true},
		{"max-loss -1", "1000", 90, -1, false},
		{"max-loss 101", "1000", 90, 101, false},
		{"amount 0", "0", 90, 50, false},
		{"amount equal balance", "10000", 90, 50, true},
		{"amount above balance", "10001", 90, 50, false},
		{"amount blank", "", 90, 50, false},
		{"amount not a number", "1e", 90, 50, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := configured(t)
			w.SetAmount(tc.amount)
			w.SetDuration(tc.duration)
			w.SetMaxLoss(decimal.NewFromInt(tc.maxLoss))
			if got := w.Derived().IsStepValid; got != tc.want {
				t.Errorf("IsStepValid = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWizard_MaxLossWarning(t *testing.T) {
	w := configured(t)
	w.SetMaxLoss(decimal.NewFromInt(80))
	if w.Derived().MaxLossWarning {
		t.Error("80% should not warn")
	}
	w.SetMaxLoss(decimal.NewFromFloat(80.5))
	d := w.Derived()
	if !d.MaxLossWarning {
		t.Error("80.5% should warn")
	}
	if !d.IsStepValid {
		t.Error("warning must not block the step")
	}
}

// ── Early exit penalty & fees ─────────────────────────────────────────────────

func TestWizard_EarlyExitPenalty(t *testing.T) {
	cases := []struct {
		typ  domain.CommitmentType
		want string
	}{
		{domain.TypeAggressive, "50 XLM"},
		{domain.TypeBalanced, "30 XLM"},
		{domain.TypeSafe, "20 XLM"},
	}
	w := configured(t)
	for _, tc := range cases {
		if err := w.SetType(tc.typ); err != nil {
			t.Fatal(err)
		}
		if got := w.Derived().EarlyExitPenalty; got != tc.want {
			t.Errorf("%s: EarlyExitPenalty = %q, want %q", tc.typ, got, tc.want)
		}
	}
}

func TestWizard_EarlyExitPenaltyScalesWithAmount(t *testing.T) {
	w := configured(t)
	_ = w.SetType(domain.TypeAggressive)
	w.SetAmount("2000")
	if got := w.Derived().EarlyExitPenaltyAmount; !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("penalty for 2000 = %s, want 100", got)
	}
	w.SetAmount("oops")
	if got := w.Derived().EarlyExitPenaltyAmount; !got.IsZero() {
		t.Errorf("penalty for non-numeric amount = %s, want 0", got)
	}
}

func TestWizard_AssetFlowsIntoDisplayValues(t *testing.T) {
	w := configured(t)
	if err := w.SetAsset("usdc"); err != nil {
		t.Fatal(err)
	}
	d := w.Derived()
	if d.EarlyExitPenalty != "30 USDC" {
		t.Errorf("EarlyExitPenalty = %q", d.EarlyExitPenalty)
	}
	if d.EstimatedFees != "0.00 USDC" {
		t.Errorf("EstimatedFees = %q", d.EstimatedFees)
	}
	if err := w.SetAsset(""); err != domain.ErrInvalidAsset {
		t.Errorf("SetAsset(\"\") = %v, want ErrInvalidAsset", err)
	}
}

type flatFee struct{ fee decimal.Decimal }

func (f flatFee) EstimateFee(domain.Draft) decimal.Decimal { return f.fee }

func TestWizard_PluggableFeeEstimator(t *testing.T) {
	w := domain.NewWizard(uuid.New(), "XLM", balance, flatFee{decimal.NewFromFloat(1.5)}, time.Now())
	if got := w.Derived().EstimatedFees; got != "1.50 XLM" {
		t.Errorf("EstimatedFees = %q, want 1.50 XLM", got)
	}
}

func TestWizard_SetTypeRejectsUnknown(t *testing.T) {
	w := newWizard()
	if err := w.SetType("yolo"); err != domain.ErrInvalidCommitmentType {
		t.Errorf("SetType(yolo) = %v", err)
	}
	if w.Draft.Type != domain.TypeBalanced {
		t.Errorf("type changed to %q", w.Draft.Type)
	}
}

// ── Submission ────────────────────────────────────────────────────────────────

func TestWizard_SubmissionOnlyFromReview(t *testing.T) {
	w := configured(t)
	if _, err := w.Submission(); err != domain.ErrNotOnReview {
		t.Errorf("Submission on Configure = %v, want ErrNotOnReview", err)
	}
	_ = w.Next()
	sub, err := w.Submission()
	if err != nil {
		t.Fatalf("Submission on Review: %v", err)
	}
	if !sub.Amount.Equal(decimal.NewFromInt(1000)) || sub.Type != domain.TypeBalanced ||
		sub.Asset != "XLM" || sub.DurationDays != 90 || sub.WizardID != w.ID {
		t.Errorf("unexpected submission: %+v", sub)
	}
}

func TestWizard_SubmissionRevalidates(t *testing.T) {
	w := configured(t)
	_ = w.Next()
	w.SetDuration(400)
	if _, err := w.Submission(); err != domain.ErrStepInvalid {
		t.Errorf("Submission with invalid duration = %v, want ErrStepInvalid", err)
	}
}

func TestTypePresets(t *testing.T) {
	presets := domain.TypePresets()
	if len(presets) != 3 {
		t.Fatalf("len(TypePresets()) = %d", len(presets))
	}
	if presets[2].Type != domain.TypeAggressive || presets[2].MaxLossPercent != nil {
		t.Errorf("aggressive preset should have no loss protection: %+v", presets[2])
	}
	if presets[0].DurationDays != 30 || !presets[0].MaxLossPercent.Equal(decimal.NewFromInt(2)) {
		t.Errorf("safe preset = %+v", presets[0])
	}
}

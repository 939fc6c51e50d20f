package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/commt/commitments/internal/config"
	"github.com/commt/commitments/internal/domain"
	"github.com/commt/commitments/internal/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Collaborators
// ──────────────────────────────────────────────────────────────────────────────

// BalanceProvider reports how much a user can commit.
type BalanceProvider interface {
	AvailableBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}

// Submitter accepts a finalised draft.
type Submitter interface {
	Submit(ctx context.Context, d domain.SubmittedDraft) (*domain.Submission, error)
}

// Broadcaster pushes submission events to connected websocket clients.
// Declared here so the service does not import the ws package.
type Broadcaster interface {
	BroadcastDraftSubmitted(sub *domain.Submission)
}

// ──────────────────────────────────────────────────────────────────────────────
// Request types
// ──────────────────────────────────────────────────────────────────────────────

// WizardPatch carries the fields a client changed. Nil fields are untouched.
type WizardPatch struct {
	Type           *string          `json:"type"`
	Amount         *string          `json:"amount"`
	Asset          *string          `json:"asset"`
	DurationDays   *int             `json:"duration_days"`
	MaxLossPercent *decimal.Decimal `json:"max_loss_percent"`
}

// ──────────────────────────────────────────────────────────────────────────────
// WizardService
// ──────────────────────────────────────────────────────────────────────────────

type session struct {
	wizard   *domain.Wizard
	lastSeen time.Time
}

// WizardService holds wizard sessions in memory. One mutex guards the whole
// store, so each wizard is only ever touched by one goroutine at a time.
type WizardService struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session

	balances    BalanceProvider
	submitter   Submitter
	broadcaster Broadcaster // optional
	cfg         *config.Config
	metrics     *metrics.Collector
	logger      *slog.Logger
	now         func() time.Time
}

// NewWizardService creates a WizardService. broadcaster and m may be nil.
func NewWizardService(
	balances BalanceProvider,
	submitter Submitter,
	broadcaster Broadcaster,
	cfg *config.Config,
	m *metrics.Collector,
) *WizardService {
	return &WizardService{
		sessions:    make(map[uuid.UUID]*session),
		balances:    balances,
		submitter:   submitter,
		broadcaster: broadcaster,
		cfg:         cfg,
		metrics:     m,
		logger:      slog.Default().With("service", "wizard"),
		now:         time.Now,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Session lifecycle
// ──────────────────────────────────────────────────────────────────────────────

// Start opens a new session for userID on the Select Type step.
func (s *WizardService) Start(ctx context.Context, userID uuid.UUID) (*domain.WizardView, error) {
	balance, err := s.balances.AvailableBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("wizard_service.Start: balance: %w", err)
	}

	now := s.now().UTC()
	w := domain.NewWizard(userID, s.cfg.Wizard.DefaultAsset, balance, domain.ZeroFee{}, now)

	s.mu.Lock()
	s.sessions[w.ID] = &session{wizard: w, lastSeen: now}
	view := w.View()
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(count)
	s.logger.InfoContext(ctx, "wizard started", "wizard_id", w.ID, "user_id", userID)
	return &view, nil
}

// Get returns the current state of a session with the balance refreshed.
func (s *WizardService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.WizardView, error) {
	return s.withSession(ctx, userID, id, false, func(*domain.Wizard) error { return nil })
}

// Update applies a patch. Type and asset are checked before anything is
// written, so a rejected patch leaves the draft untouched. Out-of-range
// amount, duration and max-loss values are stored and surface through the
// derived validation instead.
func (s *WizardService) Update(ctx context.Context, userID, id uuid.UUID, p WizardPatch) (*domain.WizardView, error) {
	var typ domain.CommitmentType
	if p.Type != nil {
		t, err := domain.ParseCommitmentType(*p.Type)
		if err != nil {
			return nil, err
		}
		typ = t
	}

	return s.withSession(ctx, userID, id, true, func(w *domain.Wizard) error {
		if p.Asset != nil {
			if err := w.SetAsset(*p.Asset); err != nil {
				return err
			}
		}
		if p.Type != nil {
			if err := w.SetType(typ); err != nil {
				return err
			}
		}
		if p.Amount != nil {
			w.SetAmount(*p.Amount)
		}
		if p.DurationDays != nil {
			w.SetDuration(*p.DurationDays)
		}
		if p.MaxLossPercent != nil {
			w.SetMaxLoss(*p.MaxLossPercent)
		}
		return nil
	})
}

// Next advances the session one step. From Configure an invalid draft
// returns domain.ErrStepInvalid and the step is unchanged.
func (s *WizardService) Next(ctx context.Context, userID, id uuid.UUID) (*domain.WizardView, error) {
	view, err := s.withSession(ctx, userID, id, true, func(w *domain.Wizard) error {
		return w.Next()
	})
	s.metrics.RecordTransition("next", err == nil)
	return view, err
}

// Back moves the session one step back.
func (s *WizardService) Back(ctx context.Context, userID, id uuid.UUID) (*domain.WizardView, error) {
	view, err := s.withSession(ctx, userID, id, true, func(w *domain.Wizard) error {
		w.Back()
		return nil
	})
	s.metrics.RecordTransition("back", err == nil)
	return view, err
}

// Submit hands a reviewed draft to the Submitter and closes the session.
// The session is detached while the Submitter runs so a concurrent second
// submit sees domain.ErrWizardNotFound; it is restored if submission fails.
func (s *WizardService) Submit(ctx context.Context, userID, id uuid.UUID) (*domain.Submission, error) {
	balance, err := s.balances.AvailableBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("wizard_service.Submit: balance: %w", err)
	}

	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok || sess.wizard.OwnerID != userID {
		s.mu.Unlock()
		return nil, domain.ErrWizardNotFound
	}
	sess.wizard.SetAvailableBalance(balance)
	draft, err := sess.wizard.Submission()
	if err != nil {
		typ := sess.wizard.Draft.Type
		s.mu.Unlock()
		s.metrics.RecordSubmission(string(typ), false)
		return nil, err
	}
	delete(s.sessions, id)
	s.mu.Unlock()

	sub, err := s.submitter.Submit(ctx, draft)
	if err != nil {
		s.mu.Lock()
		sess.lastSeen = s.now().UTC()
		s.sessions[id] = sess
		s.mu.Unlock()
		s.metrics.RecordSubmission(string(draft.Type), false)
		return nil, fmt.Errorf("wizard_service.Submit: %w", err)
	}

	s.metrics.RecordSubmission(string(draft.Type), true)
	s.metrics.SetActiveSessions(s.Count())
	s.logger.InfoContext(ctx, "draft submitted",
		"wizard_id", id, "submission_id", sub.ID, "type", draft.Type,
		"amount", draft.Amount.String(), "asset", draft.Asset)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastDraftSubmitted(sub)
	}
	return sub, nil
}

// Discard drops a session without submitting it.
func (s *WizardService) Discard(_ context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok || sess.wizard.OwnerID != userID {
		s.mu.Unlock()
		return domain.ErrWizardNotFound
	}
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(count)
	return nil
}

// Count returns the number of live sessions.
func (s *WizardService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ──────────────────────────────────────────────────────────────────────────────
// Eviction
// ──────────────────────────────────────────────────────────────────────────────

// EvictIdle removes sessions not touched since now − SessionTTL and returns
// how many were removed.
func (s *WizardService) EvictIdle(now time.Time) int {
	cutoff := now.Add(-s.cfg.Wizard.SessionTTL)

	s.mu.Lock()
	evicted := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	if evicted > 0 {
		s.metrics.SetActiveSessions(count)
		s.logger.Info("evicted idle wizard sessions", "count", evicted)
	}
	return evicted
}

// Run evicts idle sessions periodically until ctx is cancelled.
func (s *WizardService) Run(ctx context.Context) {
	interval := s.cfg.Wizard.SessionTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			s.EvictIdle(t)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// withSession refreshes the balance, then runs fn on the caller's session
// under the store lock and returns the resulting view. Sessions owned by
// other users are reported as not found.
func (s *WizardService) withSession(
	ctx context.Context,
	userID, id uuid.UUID,
	mutates bool,
	fn func(w *domain.Wizard) error,
) (*domain.WizardView, error) {
	balance, err := s.balances.AvailableBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("wizard_service: balance: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.wizard.OwnerID != userID {
		return nil, domain.ErrWizardNotFound
	}

	now := s.now().UTC()
	sess.lastSeen = now
	w := sess.wizard
	w.SetAvailableBalance(balance)

	if err := fn(w); err != nil {
		return nil, err
	}
	if mutates {
		w.UpdatedAt = now
	}
	view := w.View()
	return &view, nil
}

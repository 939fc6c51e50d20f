// Package ws holds WebSocket message types and the Hub implementation.
// messages.go defines all message structs pushed to connected clients.
package ws

import (
	"time"

	"github.com/commt/commitments/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MsgType identifies the kind of WS message so clients can switch on it.
type MsgType string

const (
	MsgTypeDraftSubmitted MsgType = "draft_submitted"
	MsgTypeError          MsgType = "error"
)

// ──────────────────────────────────────────────────────────────────────────────
// DraftSubmittedMessage — sent to the submitting user's connections.
// ──────────────────────────────────────────────────────────────────────────────

// DraftSubmittedMessage confirms that a wizard draft was accepted.
type DraftSubmittedMessage struct {
	Type           MsgType               `json:"type"`
	SubmissionID   uuid.UUID             `json:"submission_id"`
	WizardID       uuid.UUID             `json:"wizard_id"`
	CommitmentType domain.CommitmentType `json:"commitment_type"`
	Amount         decimal.Decimal       `json:"amount"`
	Asset          string                `json:"asset"`
	DurationDays   int                   `json:"duration_days"`
	MaxLossPercent decimal.Decimal       `json:"max_loss_percent"`
	Message        string                `json:"message"`
	Timestamp      time.Time             `json:"timestamp"`
}

// NewDraftSubmittedMessage builds the event for sub.
func NewDraftSubmittedMessage(sub *domain.Submission) DraftSubmittedMessage {
	return DraftSubmittedMessage{
		Type:           MsgTypeDraftSubmitted,
		SubmissionID:   sub.ID,
		WizardID:       sub.Draft.WizardID,
		CommitmentType: sub.Draft.Type,
		Amount:         sub.Draft.Amount,
		Asset:          sub.Draft.Asset,
		DurationDays:   sub.Draft.DurationDays,
		MaxLossPercent: sub.Draft.MaxLossPercent,
		Message:        sub.Message,
		Timestamp:      sub.SubmittedAt,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ErrorMessage — sent to a single client on a non-fatal error.
// ──────────────────────────────────────────────────────────────────────────────

// ErrorMessage is sent directly to one client (not broadcast).
type ErrorMessage struct {
	Type    MsgType `json:"type"`
	Code    string  `json:"code"`
	Message string  `json:"message"`
}

package domain

import (
	"errors"
)

// ──────────────────────────────────────────────────────────────────────────────
// Sentinel errors — compare with errors.Is()
// ──────────────────────────────────────────────────────────────────────────────

// Commitment errors
var (
	// ErrCommitmentNotFound is returned when no commitment matches the lookup key.
	ErrCommitmentNotFound = errors.New("commitment not found")

	// ErrInvalidCommitmentType is returned for a type outside safe/balanced/aggressive.
	ErrInvalidCommitmentType = errors.New("invalid commitment type: must be safe, balanced or aggressive")
)

// Wizard errors
var (
	// ErrWizardNotFound is returned when a wizard session does not exist, has
	// expired, or belongs to another user.
	ErrWizardNotFound = errors.New("wizard session not found")

	// ErrStepInvalid is returned when Next is requested from Configure while
	// the draft fails validation.
	ErrStepInvalid = errors.New("draft is not valid: fix the highlighted fields before continuing")

	// ErrNotOnReview is returned when submission is attempted before the
	// Review step.
	ErrNotOnReview = errors.New("draft can only be submitted from the review step")

	// ErrInvalidAsset is returned for an empty or malformed asset symbol.
	ErrInvalidAsset = errors.New("asset must be a 1-12 character symbol")
)

// Wallet errors
var (
	// ErrWalletNotFound is returned when no wallet exists for the requested user.
	ErrWalletNotFound = errors.New("wallet not found")
)

// Auth errors
var (
	// ErrUnauthorized is returned when a valid token is not present.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired is returned when a JWT has passed its TTL.
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenInvalid is returned when a token cannot be parsed or its signature
	// does not match.
	ErrTokenInvalid = errors.New("token is invalid")
)

// ──────────────────────────────────────────────────────────────────────────────
// Helper predicates
// ──────────────────────────────────────────────────────────────────────────────

// notFoundErrors collects all "entity not found" sentinel errors so that
// IsNotFound can stay in sync automatically.
var notFoundErrors = []error{
	ErrCommitmentNotFound,
	ErrWizardNotFound,
	ErrWalletNotFound,
}

// IsNotFound returns true when err (or any error in its chain) is one of the
// domain "not found" errors.
func IsNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsValidation returns true for recoverable input errors that should be
// reported back to the user as a 422.
func IsValidation(err error) bool {
	validationErrors := []error{
		ErrInvalidCommitmentType,
		ErrStepInvalid,
		ErrInvalidAsset,
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflict returns true for errors that represent a state conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrNotOnReview)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/commt/commitments/internal/api/middleware"
	"github.com/commt/commitments/internal/domain"
	"github.com/commt/commitments/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WizardHandler serves the commitment creation wizard.
type WizardHandler struct {
	svc *service.WizardService
}

// NewWizardHandler creates a WizardHandler.
func NewWizardHandler(svc *service.WizardService) *WizardHandler {
	return &WizardHandler{svc: svc}
}

// Start godoc
// POST /api/wizard [JWT]
func (h *WizardHandler) Start(c *gin.Context) {
	view, err := h.svc.Start(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondWizardError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, view)
}

// Get godoc
// GET /api/wizard/:id [JWT]
func (h *WizardHandler) Get(c *gin.Context) {
	id, ok := wizardID(c)
	if !ok {
		return
	}
	view, err := h.svc.Get(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, view)
}

// Update godoc
// PATCH /api/wizard/:id [JWT]
// Body: any of {"type":"safe","amount":"1000","asset":"XLM","duration_days":30,"max_loss_percent":"2"}
func (h *WizardHandler) Update(c *gin.Context) {
	id, ok := wizardID(c)
	if !ok {
		return
	}

	var patch service.WizardPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	view, err := h.svc.Update(c.Request.Context(), middleware.GetUserID(c), id, patch)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, view)
}

// Next godoc
// POST /api/wizard/:id/next [JWT]
func (h *WizardHandler) Next(c *gin.Context) {
	id, ok := wizardID(c)
	if !ok {
		return
	}
	view, err := h.svc.Next(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, view)
}

// Back godoc
// POST /api/wizard/:id/back [JWT]
func (h *WizardHandler) Back(c *gin.Context) {
	id, ok := wizardID(c)
	if !ok {
		return
	}
	view, err := h.svc.Back(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, view)
}

// Submit godoc
// POST /api/wizard/:id/submit [JWT]
func (h *WizardHandler) Submit(c *gin.Context) {
	id, ok := wizardID(c)
	if !ok {
		return
	}
	sub, err := h.svc.Submit(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, sub)
}

// Discard godoc
// DELETE /api/wizard/:id [JWT]
func (h *WizardHandler) Discard(c *gin.Context) {
	id, ok := wizardID(c)
	if !ok {
		return
	}
	if err := h.svc.Discard(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondWizardError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"id": id, "discarded": true})
}

// ── helpers ───────────────────────────────────────────────────────────────────

func wizardID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid wizard id")
		return uuid.Nil, false
	}
	return id, true
}

// wizardErrorCodes maps domain sentinels to response codes; the status
// class comes from the domain predicates.
var wizardErrorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrWizardNotFound, "ERR_WIZARD_NOT_FOUND"},
	{domain.ErrWalletNotFound, "ERR_WALLET_NOT_FOUND"},
	{domain.ErrStepInvalid, "ERR_STEP_INVALID"},
	{domain.ErrInvalidCommitmentType, "ERR_INVALID_TYPE"},
	{domain.ErrInvalidAsset, "ERR_INVALID_ASSET"},
	{domain.ErrNotOnReview, "ERR_NOT_ON_REVIEW"},
}

func respondWizardError(c *gin.Context, err error) {
	var status int
	switch {
	case domain.IsNotFound(err):
		status = http.StatusNotFound
	case domain.IsValidation(err):
		status = http.StatusUnprocessableEntity
	case domain.IsConflict(err):
		status = http.StatusConflict
	default:
		respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "wizard request failed")
		return
	}
	for _, e := range wizardErrorCodes {
		if errors.Is(err, e.err) {
			respondError(c, status, e.code, err.Error())
			return
		}
	}
	respondError(c, status, "ERR_REQUEST_FAILED", err.Error())
}

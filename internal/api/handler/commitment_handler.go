package handler

import (
	"errors"
	"net/http"

	"github.com/commt/commitments/internal/domain"
	"github.com/commt/commitments/internal/service"
	"github.com/gin-gonic/gin"
)

// CommitmentHandler serves the commitment detail page.
type CommitmentHandler struct {
	svc *service.CommitmentService
}

// NewCommitmentHandler creates a CommitmentHandler.
func NewCommitmentHandler(svc *service.CommitmentService) *CommitmentHandler {
	return &CommitmentHandler{svc: svc}
}

// Get godoc
// GET /api/commitments/:id
func (h *CommitmentHandler) Get(c *gin.Context) {
	detail, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "could not fetch commitment")
		return
	}
	respondSuccess(c, http.StatusOK, detail)
}

// Share godoc
// GET /api/commitments/:id/share
func (h *CommitmentHandler) Share(c *gin.Context) {
	link, err := h.svc.Share(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "could not build share link")
		return
	}
	respondSuccess(c, http.StatusOK, link)
}

// Types godoc
// GET /api/commitments/types
func (h *CommitmentHandler) Types(c *gin.Context) {
	presets := h.svc.TypePresets()
	respondList(c, presets, len(presets), nil)
}

// fail maps a lookup error. A missing commitment carries back_url so the
// client can offer a way back to the list.
func (h *CommitmentHandler) fail(c *gin.Context, err error, internalMsg string) {
	if errors.Is(err, domain.ErrCommitmentNotFound) {
		respondErrorWith(c, http.StatusNotFound, "ERR_COMMITMENT_NOT_FOUND",
			domain.ErrCommitmentNotFound.Error(), gin.H{"back_url": h.svc.BackURL()})
		return
	}
	respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", internalMsg)
}

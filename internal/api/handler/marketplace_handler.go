package handler

import (
	"net/http"
	"strconv"

	"github.com/commt/commitments/internal/service"
	"github.com/gin-gonic/gin"
)

// MarketplaceHandler serves the marketplace listing search.
type MarketplaceHandler struct {
	svc *service.MarketplaceService
}

// NewMarketplaceHandler creates a MarketplaceHandler.
func NewMarketplaceHandler(svc *service.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{svc: svc}
}

// List godoc
// GET /api/marketplace?q=balanced&for_sale=true
func (h *MarketplaceHandler) List(c *gin.Context) {
	query := c.Query("q")

	forSale := false
	if v := c.Query("for_sale"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "ERR_VALIDATION", "for_sale must be a boolean")
			return
		}
		forSale = b
	}

	items, err := h.svc.List(c.Request.Context(), query, forSale)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not fetch listings")
		return
	}
	respondList(c, items, len(items), gin.H{"query": query, "for_sale": forSale})
}

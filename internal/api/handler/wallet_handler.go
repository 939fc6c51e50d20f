package handler

import (
	"errors"
	"net/http"

	"github.com/commt/commitments/internal/api/middleware"
	"github.com/commt/commitments/internal/config"
	"github.com/commt/commitments/internal/domain"
	"github.com/commt/commitments/internal/service"
	"github.com/gin-gonic/gin"
)

// WalletHandler reports the balance the wizard validates amounts against.
type WalletHandler struct {
	balances service.BalanceProvider
	cfg      *config.Config
}

// NewWalletHandler creates a WalletHandler.
func NewWalletHandler(balances service.BalanceProvider, cfg *config.Config) *WalletHandler {
	return &WalletHandler{balances: balances, cfg: cfg}
}

// GetBalance godoc
// GET /api/wallet/balance [JWT]
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	available, err := h.balances.AvailableBalance(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			respondError(c, http.StatusNotFound, "ERR_WALLET_NOT_FOUND", err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not fetch balance")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"available": available,
		"asset":     h.cfg.Wizard.DefaultAsset,
	})
}

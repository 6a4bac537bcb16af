package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/middleware"
	"github.com/harmoniawellness/wellness-scheduler/internal/wallet"
)

type WalletHandler struct {
	wallet *wallet.Service
}

func NewWalletHandler(walletSvc *wallet.Service) *WalletHandler {
	return &WalletHandler{wallet: walletSvc}
}

func (h *WalletHandler) GetStatement(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	w, txns, err := h.wallet.GetStatement(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_wallet", "Erro ao buscar carteira.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance":      w.Balance,
		"transactions": txns,
	})
}

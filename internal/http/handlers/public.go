package handlers

import (
	"net/http"

	"crypto_cashier/internal/domain"
	"crypto_cashier/internal/service"

	"github.com/gin-gonic/gin"
)

// ListGames returns active games for the deposit and withdrawal forms
func (h *Handler) ListGames(c *gin.Context) {
	games, err := h.Games.List(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// ListPromotions returns active promotions
func (h *Handler) ListPromotions(c *gin.Context) {
	promos, err := h.Promotions.List(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, promos)
}

// PublicConfig returns the payment configuration shown to players.
func (h *Handler) PublicConfig(c *gin.Context) {
	cfg, err := h.Config.Public(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

type createDepositRequest struct {
	GameID        string `json:"gameId"`
	Username      string `json:"username"`
	Amount        Amount `json:"amount"`
	PaymentMethod string `json:"paymentMethod"`
}

func (h *Handler) CreateDeposit(c *gin.Context) {
	var req createDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	d, err := h.Deposits.Create(c.Request.Context(), requestMeta(c), service.CreateDepositInput{
		GameID:        req.GameID,
		Username:      req.Username,
		Amount:        string(req.Amount),
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

type createWithdrawalRequest struct {
	GameID        string `json:"gameId"`
	Username      string `json:"username"`
	Amount        Amount `json:"amount"`
	WalletType    string `json:"walletType"`
	WalletAddress string `json:"walletAddress"`
}

func (h *Handler) CreateWithdrawal(c *gin.Context) {
	var req createWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	w, err := h.Withdrawals.Create(c.Request.Context(), requestMeta(c), service.CreateWithdrawalInput{
		GameID:        req.GameID,
		Username:      req.Username,
		Amount:        string(req.Amount),
		WalletType:    domain.PaymentMethod(req.WalletType),
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// WithdrawalQuote previews fee, net amount and USD values for ?amount=
func (h *Handler) WithdrawalQuote(c *gin.Context) {
	q, err := h.Withdrawals.Quote(c.Request.Context(), c.Query("amount"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

package handlers

import (
	"net/http"
	"strings"

	"crypto_cashier/internal/apperr"
	"crypto_cashier/internal/domain"
	"crypto_cashier/internal/service"

	"github.com/gin-gonic/gin"
)

// ListTransactions returns deposits and withdrawals merged, newest first.
func (h *Handler) ListTransactions(c *gin.Context) {
	txs, err := h.Admin.ListTransactions(c.Request.Context(), service.TransactionFilter{
		Type:   domain.TxType(strings.ToLower(c.Query("type"))),
		Status: domain.Status(strings.ToUpper(c.Query("status"))),
		Search: c.Query("search"),
		GameID: c.Query("gameId"),
		Limit:  queryLimit(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	c.JSON(http.StatusOK, txs)
}

// txFilter reads ?status=&username=&gameId=&limit=
func txFilter(c *gin.Context) (domain.TxFilter, error) {
	f := domain.TxFilter{
		Status:   domain.Status(strings.ToUpper(c.Query("status"))),
		Username: strings.TrimSpace(c.Query("username")),
		GameID:   c.Query("gameId"),
		Limit:    queryLimit(c),
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, apperr.Validation("status must be one of PENDING, COMPLETED, REJECTED")
	}
	return f, nil
}

func (h *Handler) ListDeposits(c *gin.Context) {
	f, err := txFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	deposits, err := h.Deposits.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deposits)
}

func (h *Handler) ListWithdrawals(c *gin.Context) {
	f, err := txFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	withdrawals, err := h.Withdrawals.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withdrawals)
}

type updateTransactionRequest struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Status string  `json:"status"`
	TxID   *string `json:"txId"`
	Notes  *string `json:"notes"`
	// optional optimistic check
	ExpectedStatus string `json:"expectedStatus"`
}

// UpdateTransaction applies an admin decision to a deposit or withdrawal.
func (h *Handler) UpdateTransaction(c *gin.Context) {
	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if req.ID == "" || req.Type == "" || req.Status == "" {
		respondError(c, apperr.Validation("id, type and status are required"))
		return
	}

	tx, err := h.Admin.UpdateStatus(c.Request.Context(), requestMeta(c), domain.StatusUpdate{
		ID:       req.ID,
		Type:     domain.TxType(strings.ToLower(req.Type)),
		Status:   domain.Status(strings.ToUpper(req.Status)),
		TxID:     req.TxID,
		Notes:    req.Notes,
		Expected: domain.Status(strings.ToUpper(req.ExpectedStatus)),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// GetTransaction returns one transaction with its audit trail.
func (h *Handler) GetTransaction(c *gin.Context) {
	txType := domain.TxType(strings.ToLower(c.Param("type")))
	tx, err := h.Admin.GetTransaction(c.Request.Context(), txType, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	trail, err := h.Audit.GetEntityLogs(c.Request.Context(), string(txType), tx.ID, 50)
	if err != nil {
		respondError(c, err)
		return
	}
	if trail == nil {
		trail = []*domain.AuditLog{}
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx, "audit": trail})
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.Admin.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AuditLog returns recent audit entries, ?limit= defaults to 100
func (h *Handler) AuditLog(c *gin.Context) {
	limit := queryLimit(c)
	if limit == 0 || limit > 500 {
		limit = 100
	}
	logs, err := h.Audit.GetRecentLogs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if logs == nil {
		logs = []*domain.AuditLog{}
	}
	c.JSON(http.StatusOK, logs)
}

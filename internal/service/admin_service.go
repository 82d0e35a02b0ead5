package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"crypto_cashier/internal/apperr"
	"crypto_cashier/internal/domain"
	"crypto_cashier/internal/logger"
	"crypto_cashier/internal/metrics"

	"github.com/shopspring/decimal"
)

// AdminService provides transaction review and dashboard statistics
type AdminService struct {
	deposits    DepositStore
	withdrawals WithdrawalStore
	audit       *AuditService
	events      Publisher
	allowReopen bool
}

// NewAdminService creates a new admin service
func NewAdminService(deposits DepositStore, withdrawals WithdrawalStore, audit *AuditService, events Publisher, allowReopen bool) *AdminService {
	if events == nil {
		events = nopPublisher{}
	}
	return &AdminService{
		deposits:    deposits,
		withdrawals: withdrawals,
		audit:       audit,
		events:      events,
		allowReopen: allowReopen,
	}
}

// TransactionFilter is the admin list query
type TransactionFilter struct {
	Type   domain.TxType
	Status domain.Status
	Search string
	GameID string
	Limit  int
}

const (
	defaultTransactionLimit = 100
	maxTransactionLimit     = 1000
)

// ListTransactions merges deposits and withdrawals, newest first.
func (s *AdminService) ListTransactions(ctx context.Context, f TransactionFilter) ([]domain.Transaction, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, apperr.Validation("type must be deposit or withdrawal")
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validation("status must be one of PENDING, COMPLETED, REJECTED")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	if limit > maxTransactionLimit {
		limit = maxTransactionLimit
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	storeFilter := domain.TxFilter{Status: f.Status, GameID: f.GameID, Limit: limit}
	if search != "" {
		// search runs in memory, so scan the widest window
		storeFilter.Limit = maxTransactionLimit
	}

	var txs []domain.Transaction
	if f.Type == "" || f.Type == domain.TxDeposit {
		deposits, err := s.deposits.List(ctx, storeFilter)
		if err != nil {
			return nil, fmt.Errorf("list deposits: %w", err)
		}
		for i := range deposits {
			txs = append(txs, deposits[i].Transaction())
		}
	}
	if f.Type == "" || f.Type == domain.TxWithdrawal {
		withdrawals, err := s.withdrawals.List(ctx, storeFilter)
		if err != nil {
			return nil, fmt.Errorf("list withdrawals: %w", err)
		}
		for i := range withdrawals {
			txs = append(txs, withdrawals[i].Transaction())
		}
	}

	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if search == "" || matchesSearch(tx, search) {
			out = append(out, tx)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func matchesSearch(tx domain.Transaction, q string) bool {
	fields := []string{tx.ID, tx.Username, tx.TxID, tx.Amount.String()}
	if tx.Game != nil {
		fields = append(fields, tx.Game.Name)
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// UpdateStatus applies an admin decision. The write is conditional on the
// status read here, so a concurrent change turns into a conflict.
func (s *AdminService) UpdateStatus(ctx context.Context, meta RequestMeta, upd domain.StatusUpdate) (domain.Transaction, error) {
	upd.ID = strings.TrimSpace(upd.ID)
	if upd.ID == "" {
		return domain.Transaction{}, apperr.Validation("id is required")
	}
	if !upd.Type.Valid() {
		return domain.Transaction{}, apperr.Validation("type must be deposit or withdrawal")
	}
	if !upd.Status.Valid() {
		return domain.Transaction{}, apperr.Validation("status must be one of PENDING, COMPLETED, REJECTED")
	}
	if upd.TxID != nil {
		v := strings.TrimSpace(*upd.TxID)
		upd.TxID = &v
	}

	current, err := s.load(ctx, upd.Type, upd.ID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if upd.Expected != "" && upd.Expected != current.Status {
		return domain.Transaction{}, apperr.Conflict("transaction is %s, expected %s", current.Status, upd.Expected)
	}
	if err := CanTransition(current.Status, upd.Status, s.allowReopen); err != nil {
		return domain.Transaction{}, err
	}

	var updated *domain.Transaction
	switch upd.Type {
	case domain.TxDeposit:
		d, err := s.deposits.UpdateStatus(ctx, current.Status, upd)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("update deposit: %w", err)
		}
		if d != nil {
			tx := d.Transaction()
			updated = &tx
		}
	case domain.TxWithdrawal:
		w, err := s.withdrawals.UpdateStatus(ctx, current.Status, upd)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("update withdrawal: %w", err)
		}
		if w != nil {
			tx := w.Transaction()
			updated = &tx
		}
	}
	if updated == nil {
		return domain.Transaction{}, apperr.Conflict("transaction %s was changed by someone else, reload and retry", upd.ID)
	}

	metrics.StatusTransitions.WithLabelValues(string(upd.Type), string(current.Status), string(upd.Status)).Inc()

	details := map[string]interface{}{
		"from": string(current.Status),
		"to":   string(upd.Status),
	}
	if upd.TxID != nil {
		details["tx_id"] = *upd.TxID
	}
	if upd.Notes != nil {
		details["notes"] = *upd.Notes
	}
	category := domain.AuditCategoryPayment
	if upd.Type == domain.TxWithdrawal {
		category = domain.AuditCategoryWithdrawal
	}
	s.audit.Log(ctx, meta, domain.AuditActionStatusChange, category, string(upd.Type), upd.ID, details)
	if current.Status.Terminal() && upd.Status == domain.StatusPending {
		logger.Warn("transaction reopened", "id", upd.ID, "type", upd.Type, "from", current.Status, "actor_id", meta.ActorID)
		s.audit.Log(ctx, meta, domain.AuditActionTransactionReopen, category, string(upd.Type), upd.ID, details)
	}

	s.events.Publish(EventTransactionUpdated, *updated)
	return *updated, nil
}

// GetTransaction loads one deposit or withdrawal in the unified shape
func (s *AdminService) GetTransaction(ctx context.Context, txType domain.TxType, id string) (domain.Transaction, error) {
	if !txType.Valid() {
		return domain.Transaction{}, apperr.Validation("type must be deposit or withdrawal")
	}
	return s.load(ctx, txType, id)
}

func (s *AdminService) load(ctx context.Context, txType domain.TxType, id string) (domain.Transaction, error) {
	switch txType {
	case domain.TxDeposit:
		d, err := s.deposits.GetByID(ctx, id)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("load deposit: %w", err)
		}
		if d == nil {
			return domain.Transaction{}, apperr.NotFound("deposit %s not found", id)
		}
		return d.Transaction(), nil
	default:
		w, err := s.withdrawals.GetByID(ctx, id)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("load withdrawal: %w", err)
		}
		if w == nil {
			return domain.Transaction{}, apperr.NotFound("withdrawal %s not found", id)
		}
		return w.Transaction(), nil
	}
}

// Stats represents dashboard statistics
type Stats struct {
	Deposits     domain.TxSummary `json:"deposits"`
	Withdrawals  domain.TxSummary `json:"withdrawals"`
	PendingTotal int64            `json:"pendingTotal"`
	NetFlow      decimal.Decimal  `json:"netFlow"`
}

// GetStats returns dashboard statistics
func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	deposits, err := s.deposits.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("deposit summary: %w", err)
	}
	withdrawals, err := s.withdrawals.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("withdrawal summary: %w", err)
	}

	return &Stats{
		Deposits:     deposits,
		Withdrawals:  withdrawals,
		PendingTotal: deposits.Pending + withdrawals.Pending,
		NetFlow:      deposits.CompletedAmount.Sub(withdrawals.CompletedAmount),
	}, nil
}

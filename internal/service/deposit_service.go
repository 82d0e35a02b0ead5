package service

import (
	"context"
	"fmt"
	"strings"

	"crypto_cashier/internal/apperr"
	"crypto_cashier/internal/domain"
	"crypto_cashier/internal/metrics"

	"github.com/google/uuid"
)

const maxUsernameLen = 64

// DepositService records player deposit requests against the configured
// receiving addresses.
type DepositService struct {
	games    GameStore
	config   *ConfigService
	deposits DepositStore
	audit    *AuditService
	events   Publisher
}

func NewDepositService(games GameStore, config *ConfigService, deposits DepositStore, audit *AuditService, events Publisher) *DepositService {
	if events == nil {
		events = nopPublisher{}
	}
	return &DepositService{games: games, config: config, deposits: deposits, audit: audit, events: events}
}

type CreateDepositInput struct {
	GameID        string
	Username      string
	Amount        string
	PaymentMethod domain.PaymentMethod
}

// Create validates the request, snapshots the receiving address and stores
// a PENDING deposit. Nothing is written when the address is not configured.
func (s *DepositService) Create(ctx context.Context, meta RequestMeta, in CreateDepositInput) (*domain.Deposit, error) {
	gameID := strings.TrimSpace(in.GameID)
	username := strings.TrimSpace(in.Username)
	method := domain.PaymentMethod(strings.ToUpper(strings.TrimSpace(string(in.PaymentMethod))))

	if gameID == "" || username == "" || strings.TrimSpace(in.Amount) == "" || method == "" {
		return nil, apperr.Validation("gameId, username, amount and paymentMethod are required")
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if !method.Valid() {
		return nil, apperr.Validation("paymentMethod must be BITCOIN or LIGHTNING")
	}
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	game, err := activeGame(ctx, s.games, gameID)
	if err != nil {
		return nil, err
	}

	address, err := s.config.PaymentAddress(ctx, method)
	if err != nil {
		return nil, err
	}

	d := &domain.Deposit{
		ID:            uuid.NewString(),
		GameID:        game.ID,
		Game:          refOf(game),
		Username:      username,
		Amount:        amount,
		PaymentMethod: method,
		Address:       address,
		Status:        domain.StatusPending,
	}
	if err := s.deposits.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create deposit: %w", err)
	}

	metrics.TransactionsCreated.WithLabelValues(string(domain.TxDeposit), string(method)).Inc()
	s.audit.Log(ctx, meta, domain.AuditActionDepositCreate, domain.AuditCategoryPayment, string(domain.TxDeposit), d.ID, map[string]interface{}{
		"game_id":  d.GameID,
		"username": d.Username,
		"amount":   d.Amount.String(),
		"method":   string(d.PaymentMethod),
	})
	s.events.Publish(EventTransactionCreated, d.Transaction())

	return d, nil
}

// List returns deposits for the admin panel
func (s *DepositService) List(ctx context.Context, f domain.TxFilter) ([]domain.Deposit, error) {
	deposits, err := s.deposits.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if deposits == nil {
		deposits = []domain.Deposit{}
	}
	return deposits, nil
}

func validateUsername(username string) error {
	if len(username) > maxUsernameLen {
		return apperr.Validation("username must be at most %d characters", maxUsernameLen)
	}
	if strings.ContainsAny(username, "\r\n\t") {
		return apperr.Validation("username must not contain control characters")
	}
	return nil
}

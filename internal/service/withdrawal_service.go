package service

import (
	"context"
	"fmt"
	"strings"

	"crypto_cashier/internal/apperr"
	"crypto_cashier/internal/btc"
	"crypto_cashier/internal/domain"
	"crypto_cashier/internal/metrics"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/google/uuid"
)

const maxWalletAddressLen = 512

// WithdrawalService records cash-out requests net of the network fee.
type WithdrawalService struct {
	games       GameStore
	config      *ConfigService
	withdrawals WithdrawalStore
	audit       *AuditService
	events      Publisher

	// when set, BITCOIN destinations must decode for this network
	strictNet *chaincfg.Params
}

func NewWithdrawalService(games GameStore, config *ConfigService, withdrawals WithdrawalStore, audit *AuditService, events Publisher) *WithdrawalService {
	if events == nil {
		events = nopPublisher{}
	}
	return &WithdrawalService{games: games, config: config, withdrawals: withdrawals, audit: audit, events: events}
}

// ValidateDestinations turns on address format checks for withdrawals.
func (s *WithdrawalService) ValidateDestinations(net *chaincfg.Params) {
	s.strictNet = net
}

type CreateWithdrawalInput struct {
	GameID        string
	Username      string
	Amount        string
	WalletType    domain.PaymentMethod
	WalletAddress string
}

// Create stores a PENDING withdrawal with netAmount = amount - network_fee.
// Amounts not exceeding the fee are rejected.
func (s *WithdrawalService) Create(ctx context.Context, meta RequestMeta, in CreateWithdrawalInput) (*domain.Withdrawal, error) {
	gameID := strings.TrimSpace(in.GameID)
	username := strings.TrimSpace(in.Username)
	walletType := domain.PaymentMethod(strings.ToUpper(strings.TrimSpace(string(in.WalletType))))
	walletAddress := strings.TrimSpace(in.WalletAddress)

	if gameID == "" || username == "" || strings.TrimSpace(in.Amount) == "" || walletType == "" || walletAddress == "" {
		return nil, apperr.Validation("gameId, username, amount, walletType and walletAddress are required")
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if !walletType.Valid() {
		return nil, apperr.Validation("walletType must be BITCOIN or LIGHTNING")
	}
	if len(walletAddress) > maxWalletAddressLen {
		return nil, apperr.Validation("walletAddress is too long")
	}
	if err := s.checkDestination(walletType, walletAddress); err != nil {
		return nil, err
	}
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	game, err := activeGame(ctx, s.games, gameID)
	if err != nil {
		return nil, err
	}

	fee, err := s.config.NetworkFee(ctx)
	if err != nil {
		return nil, err
	}
	if err := CheckWithdrawalAmount(amount, fee); err != nil {
		return nil, err
	}

	w := &domain.Withdrawal{
		ID:            uuid.NewString(),
		GameID:        game.ID,
		Game:          refOf(game),
		Username:      username,
		Amount:        amount,
		NetworkFee:    fee,
		NetAmount:     NetAmount(amount, fee),
		WalletType:    walletType,
		WalletAddress: walletAddress,
		Status:        domain.StatusPending,
	}
	if err := s.withdrawals.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("create withdrawal: %w", err)
	}

	metrics.TransactionsCreated.WithLabelValues(string(domain.TxWithdrawal), string(walletType)).Inc()
	s.audit.Log(ctx, meta, domain.AuditActionWithdrawRequest, domain.AuditCategoryWithdrawal, string(domain.TxWithdrawal), w.ID, map[string]interface{}{
		"game_id":        w.GameID,
		"username":       w.Username,
		"amount":         w.Amount.String(),
		"fee":            FormatBTC(w.NetworkFee),
		"net_amount":     w.NetAmount.String(),
		"wallet_type":    string(w.WalletType),
		"wallet_address": w.WalletAddress,
	})
	s.events.Publish(EventTransactionCreated, w.Transaction())

	return w, nil
}

// Quote previews the payout for amount with the current fee
func (s *WithdrawalService) Quote(ctx context.Context, rawAmount string) (Quote, error) {
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return Quote{}, err
	}
	fee, err := s.config.NetworkFee(ctx)
	if err != nil {
		return Quote{}, err
	}
	rate, err := s.config.BTCUSDRate(ctx)
	if err != nil {
		return Quote{}, err
	}
	return NewQuote(amount, fee, rate), nil
}

// List returns withdrawals for the admin panel
func (s *WithdrawalService) List(ctx context.Context, f domain.TxFilter) ([]domain.Withdrawal, error) {
	withdrawals, err := s.withdrawals.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if withdrawals == nil {
		withdrawals = []domain.Withdrawal{}
	}
	return withdrawals, nil
}

func (s *WithdrawalService) checkDestination(walletType domain.PaymentMethod, addr string) error {
	if strings.ContainsAny(addr, " \t\r\n") {
		return apperr.Validation("walletAddress must not contain whitespace")
	}
	if s.strictNet == nil {
		return nil
	}
	var err error
	if walletType == domain.MethodBitcoin {
		err = btc.ValidateAddress(addr, s.strictNet)
	} else {
		err = btc.ValidateLightningDestination(addr)
	}
	if err != nil {
		return apperr.Validation("walletAddress: %v", err)
	}
	return nil
}

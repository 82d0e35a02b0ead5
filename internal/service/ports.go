package service

import (
	"context"

	"crypto_cashier/internal/domain"
)

// Storage ports implemented by the pgx repositories.

type GameStore interface {
	List(ctx context.Context, activeOnly bool) ([]domain.Game, error)
	GetByID(ctx context.Context, id string) (*domain.Game, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Game, error)
	Create(ctx context.Context, g *domain.Game) error
	Update(ctx context.Context, g *domain.Game) error
	Delete(ctx context.Context, id string) error
}

type ConfigStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	List(ctx context.Context) ([]domain.SystemConfig, error)
	Upsert(ctx context.Context, values map[string]string) error
	InsertMissing(ctx context.Context, values map[string]string) error
}

type DepositStore interface {
	Create(ctx context.Context, d *domain.Deposit) error
	GetByID(ctx context.Context, id string) (*domain.Deposit, error)
	List(ctx context.Context, f domain.TxFilter) ([]domain.Deposit, error)
	UpdateStatus(ctx context.Context, expected domain.Status, upd domain.StatusUpdate) (*domain.Deposit, error)
	CountByGame(ctx context.Context, gameID string) (int64, error)
	Summary(ctx context.Context) (domain.TxSummary, error)
}

type WithdrawalStore interface {
	Create(ctx context.Context, w *domain.Withdrawal) error
	GetByID(ctx context.Context, id string) (*domain.Withdrawal, error)
	List(ctx context.Context, f domain.TxFilter) ([]domain.Withdrawal, error)
	UpdateStatus(ctx context.Context, expected domain.Status, upd domain.StatusUpdate) (*domain.Withdrawal, error)
	CountByGame(ctx context.Context, gameID string) (int64, error)
	Summary(ctx context.Context) (domain.TxSummary, error)
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

type PromotionStore interface {
	List(ctx context.Context, activeOnly bool) ([]domain.Promotion, error)
	GetByID(ctx context.Context, id string) (*domain.Promotion, error)
	Create(ctx context.Context, p *domain.Promotion) error
	Update(ctx context.Context, p *domain.Promotion) error
	Delete(ctx context.Context, id string) error
}

type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	GetRecent(ctx context.Context, limit int) ([]*domain.AuditLog, error)
	GetByEntity(ctx context.Context, entityType, entityID string, limit int) ([]*domain.AuditLog, error)
}

// Event names pushed to connected admins.
const (
	EventTransactionCreated = "transaction.created"
	EventTransactionUpdated = "transaction.updated"
)

// Publisher fans transaction events out to live admin sessions.
type Publisher interface {
	Publish(event string, tx domain.Transaction)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, domain.Transaction) {}

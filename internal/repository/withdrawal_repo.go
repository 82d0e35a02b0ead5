package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"crypto_cashier/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const withdrawalColumns = `
	w.id, w.game_id, w.username, w.amount, w.network_fee, w.net_amount,
	w.wallet_type, w.wallet_address, w.status, w.tx_id, w.notes,
	w.created_at, w.updated_at,
	g.id, g.name, g.slug`

type WithdrawalRepository struct {
	db *pgxpool.Pool
}

func NewWithdrawalRepository(db *pgxpool.Pool) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// Create creates a new withdrawal request
func (r *WithdrawalRepository) Create(ctx context.Context, w *domain.Withdrawal) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO withdrawals (id, game_id, username, amount, network_fee, net_amount, wallet_type, wallet_address, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, w.ID, w.GameID, w.Username, w.Amount, w.NetworkFee, w.NetAmount, w.WalletType, w.WalletAddress, w.Status).Scan(&w.CreatedAt, &w.UpdatedAt)
}

// GetByID retrieves withdrawal by ID
func (r *WithdrawalRepository) GetByID(ctx context.Context, id string) (*domain.Withdrawal, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+withdrawalColumns+`
		FROM withdrawals w
		LEFT JOIN games g ON g.id = w.game_id
		WHERE w.id = $1
	`, id)

	return scanWithdrawal(row)
}

// List returns withdrawals matching the filter, newest first
func (r *WithdrawalRepository) List(ctx context.Context, f domain.TxFilter) ([]domain.Withdrawal, error) {
	where, args := txWhere("w", f)
	args = append(args, clampLimit(f.Limit))

	rows, err := r.db.Query(ctx, `
		SELECT `+withdrawalColumns+`
		FROM withdrawals w
		LEFT JOIN games g ON g.id = w.game_id
		`+where+`
		ORDER BY w.created_at DESC
		LIMIT $`+strconv.Itoa(len(args)), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWithdrawals(rows)
}

// UpdateStatus moves a withdrawal from expected status to upd.Status.
// wallet_address and amounts are never touched here.
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, expected domain.Status, upd domain.StatusUpdate) (*domain.Withdrawal, error) {
	var updatedAt time.Time
	err := r.db.QueryRow(ctx, `
		UPDATE withdrawals
		SET status = $3,
		    tx_id = COALESCE($4, tx_id),
		    notes = COALESCE($5, notes),
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING updated_at
	`, upd.ID, expected, upd.Status, upd.TxID, upd.Notes).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return r.GetByID(ctx, upd.ID)
}

// CountByGame returns how many withdrawals reference the game
func (r *WithdrawalRepository) CountByGame(ctx context.Context, gameID string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM withdrawals WHERE game_id = $1`, gameID).Scan(&n)
	return n, err
}

// Summary aggregates withdrawal counts per status; amount is the net paid out
func (r *WithdrawalRepository) Summary(ctx context.Context) (domain.TxSummary, error) {
	var s domain.TxSummary
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(*) FILTER (WHERE status = 'COMPLETED'),
			COUNT(*) FILTER (WHERE status = 'REJECTED'),
			COALESCE(SUM(net_amount) FILTER (WHERE status = 'COMPLETED'), 0)
		FROM withdrawals
	`).Scan(&s.Pending, &s.Completed, &s.Rejected, &s.CompletedAmount)
	return s, err
}

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	w, err := scanWithdrawalRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return w, nil
}

func scanWithdrawals(rows pgx.Rows) ([]domain.Withdrawal, error) {
	var withdrawals []domain.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawalRow(rows)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, *w)
	}
	return withdrawals, rows.Err()
}

func scanWithdrawalRow(row pgx.Row) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	var txID, notes *string
	var gID, gName, gSlug *string

	if err := row.Scan(
		&w.ID, &w.GameID, &w.Username, &w.Amount, &w.NetworkFee, &w.NetAmount,
		&w.WalletType, &w.WalletAddress, &w.Status, &txID, &notes,
		&w.CreatedAt, &w.UpdatedAt,
		&gID, &gName, &gSlug,
	); err != nil {
		return nil, err
	}

	if txID != nil {
		w.TxID = *txID
	}
	if notes != nil {
		w.Notes = *notes
	}
	w.Game = gameRef(gID, gName, gSlug)

	return &w, nil
}

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

const depositColumns = `
	d.id, d.game_id, d.username, d.amount, d.payment_method, d.address,
	d.status, d.tx_id, d.notes, d.created_at, d.updated_at,
	g.id, g.name, g.slug`

type DepositRepository struct {
	db *pgxpool.Pool
}

func NewDepositRepository(db *pgxpool.Pool) *DepositRepository {
	return &DepositRepository{db: db}
}

// Create inserts a new deposit request
func (r *DepositRepository) Create(ctx context.Context, d *domain.Deposit) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO deposits (id, game_id, username, amount, payment_method, address, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, d.ID, d.GameID, d.Username, d.Amount, d.PaymentMethod, d.Address, d.Status).Scan(&d.CreatedAt, &d.UpdatedAt)
}

// GetByID retrieves deposit by ID
func (r *DepositRepository) GetByID(ctx context.Context, id string) (*domain.Deposit, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+depositColumns+`
		FROM deposits d
		LEFT JOIN games g ON g.id = d.game_id
		WHERE d.id = $1
	`, id)

	return scanDeposit(row)
}

// List returns deposits matching the filter, newest first
func (r *DepositRepository) List(ctx context.Context, f domain.TxFilter) ([]domain.Deposit, error) {
	where, args := txWhere("d", f)
	args = append(args, clampLimit(f.Limit))

	rows, err := r.db.Query(ctx, `
		SELECT `+depositColumns+`
		FROM deposits d
		LEFT JOIN games g ON g.id = d.game_id
		`+where+`
		ORDER BY d.created_at DESC
		LIMIT $`+strconv.Itoa(len(args)), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDeposits(rows)
}

// UpdateStatus moves a deposit from expected status to upd.Status.
// Returns nil, nil when the row is missing or its status no longer matches.
func (r *DepositRepository) UpdateStatus(ctx context.Context, expected domain.Status, upd domain.StatusUpdate) (*domain.Deposit, error) {
	var updatedAt time.Time
	err := r.db.QueryRow(ctx, `
		UPDATE deposits
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

// CountByGame returns how many deposits reference the game
func (r *DepositRepository) CountByGame(ctx context.Context, gameID string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM deposits WHERE game_id = $1`, gameID).Scan(&n)
	return n, err
}

// Summary aggregates deposit counts per status
func (r *DepositRepository) Summary(ctx context.Context) (domain.TxSummary, error) {
	var s domain.TxSummary
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(*) FILTER (WHERE status = 'COMPLETED'),
			COUNT(*) FILTER (WHERE status = 'REJECTED'),
			COALESCE(SUM(amount) FILTER (WHERE status = 'COMPLETED'), 0)
		FROM deposits
	`).Scan(&s.Pending, &s.Completed, &s.Rejected, &s.CompletedAmount)
	return s, err
}

func scanDeposit(row pgx.Row) (*domain.Deposit, error) {
	d, err := scanDepositRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

func scanDeposits(rows pgx.Rows) ([]domain.Deposit, error) {
	var deposits []domain.Deposit
	for rows.Next() {
		d, err := scanDepositRow(rows)
		if err != nil {
			return nil, err
		}
		deposits = append(deposits, *d)
	}
	return deposits, rows.Err()
}

func scanDepositRow(row pgx.Row) (*domain.Deposit, error) {
	var d domain.Deposit
	var txID, notes *string
	var gID, gName, gSlug *string

	if err := row.Scan(
		&d.ID, &d.GameID, &d.Username, &d.Amount, &d.PaymentMethod, &d.Address,
		&d.Status, &txID, &notes, &d.CreatedAt, &d.UpdatedAt,
		&gID, &gName, &gSlug,
	); err != nil {
		return nil, err
	}

	if txID != nil {
		d.TxID = *txID
	}
	if notes != nil {
		d.Notes = *notes
	}
	d.Game = gameRef(gID, gName, gSlug)

	return &d, nil
}

func gameRef(id, name, slug *string) *domain.GameRef {
	if id == nil {
		return nil
	}
	ref := &domain.GameRef{ID: *id}
	if name != nil {
		ref.Name = *name
	}
	if slug != nil {
		ref.Slug = *slug
	}
	return ref
}

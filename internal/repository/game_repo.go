package repository

import (
	"context"
	"errors"

	"crypto_cashier/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GameRepository struct {
	db *pgxpool.Pool
}

func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

// List returns games ordered by name
func (r *GameRepository) List(ctx context.Context, activeOnly bool) ([]domain.Game, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, active, created_at, updated_at
		FROM games
		WHERE ($1 = FALSE OR active = TRUE)
		ORDER BY name ASC
	`, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		var g domain.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &g.Active, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (*domain.Game, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *GameRepository) GetBySlug(ctx context.Context, slug string) (*domain.Game, error) {
	return r.getOne(ctx, `WHERE slug = $1`, slug)
}

func (r *GameRepository) getOne(ctx context.Context, where string, arg any) (*domain.Game, error) {
	var g domain.Game
	err := r.db.QueryRow(ctx, `
		SELECT id, name, slug, active, created_at, updated_at
		FROM games `+where, arg).Scan(&g.ID, &g.Name, &g.Slug, &g.Active, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *GameRepository) Create(ctx context.Context, g *domain.Game) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO games (id, name, slug, active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, g.ID, g.Name, g.Slug, g.Active).Scan(&g.CreatedAt, &g.UpdatedAt)
	return mapPgError(err)
}

func (r *GameRepository) Update(ctx context.Context, g *domain.Game) error {
	err := r.db.QueryRow(ctx, `
		UPDATE games SET name = $2, slug = $3, active = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, g.ID, g.Name, g.Slug, g.Active).Scan(&g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return mapPgError(err)
}

// Delete removes a game; the RESTRICT foreign keys surface as ErrReferenced
func (r *GameRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

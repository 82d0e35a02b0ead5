package repository

import (
	"context"
	"errors"

	"crypto_cashier/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PromotionRepository struct {
	db *pgxpool.Pool
}

func NewPromotionRepository(db *pgxpool.Pool) *PromotionRepository {
	return &PromotionRepository{db: db}
}

func (r *PromotionRepository) List(ctx context.Context, activeOnly bool) ([]domain.Promotion, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, description, COALESCE(image_url, ''), active, created_at, updated_at
		FROM promotions
		WHERE ($1 = FALSE OR active = TRUE)
		ORDER BY created_at DESC
	`, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promos []domain.Promotion
	for rows.Next() {
		var p domain.Promotion
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		promos = append(promos, p)
	}
	return promos, rows.Err()
}

func (r *PromotionRepository) GetByID(ctx context.Context, id string) (*domain.Promotion, error) {
	var p domain.Promotion
	err := r.db.QueryRow(ctx, `
		SELECT id, title, description, COALESCE(image_url, ''), active, created_at, updated_at
		FROM promotions WHERE id = $1
	`, id).Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PromotionRepository) Create(ctx context.Context, p *domain.Promotion) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO promotions (id, title, description, image_url, active)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING created_at, updated_at
	`, p.ID, p.Title, p.Description, p.ImageURL, p.Active).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PromotionRepository) Update(ctx context.Context, p *domain.Promotion) error {
	err := r.db.QueryRow(ctx, `
		UPDATE promotions
		SET title = $2, description = $3, image_url = NULLIF($4, ''), active = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, p.ID, p.Title, p.Description, p.ImageURL, p.Active).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *PromotionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

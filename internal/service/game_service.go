package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"crypto_cashier/internal/apperr"
	"crypto_cashier/internal/domain"
	"crypto_cashier/internal/repository"

	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// GameService manages the catalogue of games accounts can be funded for.
type GameService struct {
	games       GameStore
	deposits    DepositStore
	withdrawals WithdrawalStore
	audit       *AuditService
}

func NewGameService(games GameStore, deposits DepositStore, withdrawals WithdrawalStore, audit *AuditService) *GameService {
	return &GameService{games: games, deposits: deposits, withdrawals: withdrawals, audit: audit}
}

// List returns all games, or only active ones for public consumers
func (s *GameService) List(ctx context.Context, activeOnly bool) ([]domain.Game, error) {
	games, err := s.games.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	if games == nil {
		games = []domain.Game{}
	}
	return games, nil
}

type GameInput struct {
	Name   *string
	Slug   *string
	Active *bool
}

// Create adds a game; slug defaults to a slugified name
func (s *GameService) Create(ctx context.Context, meta RequestMeta, in GameInput) (*domain.Game, error) {
	g := &domain.Game{ID: uuid.NewString(), Active: true}
	if in.Name != nil {
		g.Name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		g.Slug = strings.TrimSpace(*in.Slug)
	}
	if g.Slug == "" {
		g.Slug = Slugify(g.Name)
	}
	if in.Active != nil {
		g.Active = *in.Active
	}

	if err := validateGame(g); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, g.Slug, ""); err != nil {
		return nil, err
	}

	if err := s.games.Create(ctx, g); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("slug %q is already used", g.Slug)
		}
		return nil, fmt.Errorf("create game: %w", err)
	}

	s.audit.LogAdminAction(ctx, meta, domain.AuditActionGameCreate, "game", g.ID, map[string]interface{}{"name": g.Name, "slug": g.Slug})
	return g, nil
}

// Update applies a partial change
func (s *GameService) Update(ctx context.Context, meta RequestMeta, id string, in GameInput) (*domain.Game, error) {
	g, err := s.games.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.NotFound("game %s not found", id)
	}

	if in.Name != nil {
		g.Name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		g.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Active != nil {
		g.Active = *in.Active
	}

	if err := validateGame(g); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, g.Slug, g.ID); err != nil {
		return nil, err
	}

	if err := s.games.Update(ctx, g); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperr.NotFound("game %s not found", id)
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperr.Conflict("slug %q is already used", g.Slug)
		}
		return nil, fmt.Errorf("update game: %w", err)
	}

	s.audit.LogAdminAction(ctx, meta, domain.AuditActionGameUpdate, "game", g.ID, map[string]interface{}{"name": g.Name, "slug": g.Slug, "active": g.Active})
	return g, nil
}

// Delete removes a game that no deposit or withdrawal references
func (s *GameService) Delete(ctx context.Context, meta RequestMeta, id string) error {
	g, err := s.games.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return apperr.NotFound("game %s not found", id)
	}

	deposits, err := s.deposits.CountByGame(ctx, id)
	if err != nil {
		return err
	}
	withdrawals, err := s.withdrawals.CountByGame(ctx, id)
	if err != nil {
		return err
	}
	if deposits+withdrawals > 0 {
		return apperr.Conflict("game %s has %d deposits and %d withdrawals and cannot be deleted", g.Name, deposits, withdrawals)
	}

	if err := s.games.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return apperr.NotFound("game %s not found", id)
		case errors.Is(err, repository.ErrReferenced):
			return apperr.Conflict("game %s is referenced by transactions and cannot be deleted", g.Name)
		}
		return fmt.Errorf("delete game: %w", err)
	}

	s.audit.LogAdminAction(ctx, meta, domain.AuditActionGameDelete, "game", id, map[string]interface{}{"name": g.Name})
	return nil
}

func (s *GameService) ensureSlugFree(ctx context.Context, slug, selfID string) error {
	existing, err := s.games.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return apperr.Conflict("slug %q is already used", slug)
	}
	return nil
}

func validateGame(g *domain.Game) error {
	if g.Name == "" {
		return apperr.Validation("name is required")
	}
	if len(g.Name) > 100 {
		return apperr.Validation("name must be at most 100 characters")
	}
	if !slugPattern.MatchString(g.Slug) {
		return apperr.Validation("slug must contain only lowercase letters, digits and dashes")
	}
	return nil
}

// Slugify lowercases s and joins alphanumeric runs with dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
		default:
			dash = true
		}
	}
	return b.String()
}

// activeGame resolves a game for a new transaction.
func activeGame(ctx context.Context, games GameStore, id string) (*domain.Game, error) {
	g, err := games.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	if g == nil {
		return nil, apperr.NotFound("game %s not found", id)
	}
	if !g.Active {
		return nil, apperr.Validation("game %s is not active", g.Name)
	}
	return g, nil
}

func refOf(g *domain.Game) *domain.GameRef {
	return &domain.GameRef{ID: g.ID, Name: g.Name, Slug: g.Slug}
}

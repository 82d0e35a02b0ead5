package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"crypto_cashier/internal/apperr"
	"crypto_cashier/internal/domain"
	"crypto_cashier/internal/repository"

	"github.com/google/uuid"
)

type PromotionService struct {
	promos PromotionStore
	audit  *AuditService
}

func NewPromotionService(promos PromotionStore, audit *AuditService) *PromotionService {
	return &PromotionService{promos: promos, audit: audit}
}

func (s *PromotionService) List(ctx context.Context, activeOnly bool) ([]domain.Promotion, error) {
	promos, err := s.promos.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	if promos == nil {
		promos = []domain.Promotion{}
	}
	return promos, nil
}

type PromotionInput struct {
	Title       *string
	Description *string
	ImageURL    *string
	Active      *bool
}

func (s *PromotionService) Create(ctx context.Context, meta RequestMeta, in PromotionInput) (*domain.Promotion, error) {
	p := &domain.Promotion{ID: uuid.NewString(), Active: true}
	applyPromotion(p, in)
	if err := validatePromotion(p); err != nil {
		return nil, err
	}
	if err := s.promos.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create promotion: %w", err)
	}
	s.audit.LogAdminAction(ctx, meta, domain.AuditActionPromotionCreate, "promotion", p.ID, map[string]interface{}{"title": p.Title})
	return p, nil
}

func (s *PromotionService) Update(ctx context.Context, meta RequestMeta, id string, in PromotionInput) (*domain.Promotion, error) {
	p, err := s.promos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("promotion %s not found", id)
	}
	applyPromotion(p, in)
	if err := validatePromotion(p); err != nil {
		return nil, err
	}
	if err := s.promos.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("promotion %s not found", id)
		}
		return nil, fmt.Errorf("update promotion: %w", err)
	}
	s.audit.LogAdminAction(ctx, meta, domain.AuditActionPromotionUpdate, "promotion", p.ID, map[string]interface{}{"title": p.Title, "active": p.Active})
	return p, nil
}

func (s *PromotionService) Delete(ctx context.Context, meta RequestMeta, id string) error {
	if err := s.promos.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("promotion %s not found", id)
		}
		return fmt.Errorf("delete promotion: %w", err)
	}
	s.audit.LogAdminAction(ctx, meta, domain.AuditActionPromotionDelete, "promotion", id, nil)
	return nil
}

func applyPromotion(p *domain.Promotion, in PromotionInput) {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.ImageURL != nil {
		p.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
}

func validatePromotion(p *domain.Promotion) error {
	if p.Title == "" {
		return apperr.Validation("title is required")
	}
	if p.ImageURL != "" {
		u, err := url.Parse(p.ImageURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https" && !strings.HasPrefix(p.ImageURL, "/")) {
			return apperr.Validation("imageUrl must be an http(s) URL or an absolute path")
		}
	}
	return nil
}

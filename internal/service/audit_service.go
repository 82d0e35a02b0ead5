package service

import (
	"context"

	"crypto_cashier/internal/domain"
	"crypto_cashier/internal/logger"
)

// AuditService handles audit logging
type AuditService struct {
	repo AuditStore
}

// NewAuditService creates a new audit service
func NewAuditService(repo AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// RequestMeta describes who performed an action and from where.
type RequestMeta struct {
	ActorID   string
	IP        string
	UserAgent string
}

// Log creates a new audit log entry. Failures are logged, never returned.
func (s *AuditService) Log(ctx context.Context, meta RequestMeta, action, category, entityType, entityID string, details map[string]interface{}) {
	if s == nil || s.repo == nil {
		return
	}
	log := &domain.AuditLog{
		ActorID:    meta.ActorID,
		Action:     action,
		Category:   category,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("failed to create audit log", "error", err, "action", action, "actor_id", meta.ActorID)
	}
}

// LogLogin logs a sign-in attempt
func (s *AuditService) LogLogin(ctx context.Context, meta RequestMeta, email string, ok bool) {
	action := domain.AuditActionLogin
	if !ok {
		action = domain.AuditActionLoginFailed
	}
	s.Log(ctx, meta, action, domain.AuditCategoryAuth, "user", meta.ActorID, map[string]interface{}{"email": email})
}

// LogLogout logs an explicit sign-out
func (s *AuditService) LogLogout(ctx context.Context, meta RequestMeta, email string) {
	s.Log(ctx, meta, domain.AuditActionLogout, domain.AuditCategoryAuth, "user", meta.ActorID, map[string]interface{}{"email": email})
}

// LogAdminAction logs an admin change to a back-office entity
func (s *AuditService) LogAdminAction(ctx context.Context, meta RequestMeta, action, entityType, entityID string, details map[string]interface{}) {
	s.Log(ctx, meta, action, domain.AuditCategoryAdmin, entityType, entityID, details)
}

// GetRecentLogs returns recent audit logs
func (s *AuditService) GetRecentLogs(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	return s.repo.GetRecent(ctx, limit)
}

// GetEntityLogs returns the audit trail of one entity
func (s *AuditService) GetEntityLogs(ctx context.Context, entityType, entityID string, limit int) ([]*domain.AuditLog, error) {
	return s.repo.GetByEntity(ctx, entityType, entityID, limit)
}

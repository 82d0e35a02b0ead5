package domain

import "time"

// AuditLog represents an audit log entry for tracking important actions
type AuditLog struct {
	ID         int64                  `db:"id" json:"id"`
	ActorID    string                 `db:"actor_id" json:"actorId,omitempty"`
	Action     string                 `db:"action" json:"action"`
	Category   string                 `db:"category" json:"category"`
	EntityType string                 `db:"entity_type" json:"entityType,omitempty"`
	EntityID   string                 `db:"entity_id" json:"entityId,omitempty"`
	Details    map[string]interface{} `db:"details" json:"details"`
	IP         string                 `db:"ip" json:"ip,omitempty"`
	UserAgent  string                 `db:"user_agent" json:"userAgent,omitempty"`
	CreatedAt  time.Time              `db:"created_at" json:"createdAt"`
}

// Audit action categories
const (
	AuditCategoryAuth       = "auth"
	AuditCategoryPayment    = "payment"
	AuditCategoryWithdrawal = "withdrawal"
	AuditCategoryAdmin      = "admin"
)

// Audit actions
const (
	// Auth actions
	AuditActionLogin       = "login"
	AuditActionLoginFailed = "login_failed"
	AuditActionLogout      = "logout"

	// Payment actions
	AuditActionDepositCreate     = "deposit_create"
	AuditActionWithdrawRequest   = "withdraw_request"
	AuditActionStatusChange      = "transaction_status"
	AuditActionTransactionReopen = "transaction_reopen"

	// Admin actions
	AuditActionGameCreate      = "game_create"
	AuditActionGameUpdate      = "game_update"
	AuditActionGameDelete      = "game_delete"
	AuditActionConfigUpdate    = "config_update"
	AuditActionPromotionCreate = "promotion_create"
	AuditActionPromotionUpdate = "promotion_update"
	AuditActionPromotionDelete = "promotion_delete"
	AuditActionUserCreate      = "user_create"
	AuditActionUserDelete      = "user_delete"
)

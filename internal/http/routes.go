package http

import (
	"crypto_cashier/internal/config"
	"crypto_cashier/internal/domain"
	"crypto_cashier/internal/http/handlers"
	"crypto_cashier/internal/http/middleware"
	"crypto_cashier/internal/ws"

	"github.com/gin-gonic/gin"
)

// Deps is everything the router needs beyond the handler set.
type Deps struct {
	Handler *handlers.Handler
	Health  *handlers.HealthHandler
	Hub     *ws.Hub
	Config  *config.Config
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	h := d.Handler
	cfg := d.Config

	// Health checks (no rate limiting)
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)

	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit("api", cfg.APIRateLimit, cfg.APIRateWindow))
	api.GET("/health", d.Health.Health)

	// Public cashier surface
	api.GET("/games", h.ListGames)
	api.GET("/promotions", h.ListPromotions)
	api.GET("/config", h.PublicConfig)
	api.POST("/deposits", h.CreateDeposit)
	api.POST("/withdrawals", h.CreateWithdrawal)
	api.GET("/withdrawals/quote", h.WithdrawalQuote)

	// Auth
	authRL := middleware.RedisRateLimit("auth", cfg.AuthRateLimit, cfg.AuthRateWindow)
	auth := api.Group("/auth")
	{
		auth.POST("/login", authRL, h.Login)
		auth.POST("/logout", middleware.OptionalAuth(h.Auth), h.Logout)
		auth.GET("/me", middleware.Auth(h.Auth), h.Me)
	}

	// Back office. Operators get read access, changes need ADMIN.
	admin := api.Group("/admin")
	admin.Use(middleware.Auth(h.Auth), middleware.RequireRole(domain.RoleAdmin, domain.RoleOperator))
	write := middleware.RequireRole(domain.RoleAdmin)
	{
		admin.GET("/transactions", h.ListTransactions)
		admin.GET("/transactions/:type/:id", h.GetTransaction)
		admin.GET("/deposits", h.ListDeposits)
		admin.GET("/withdrawals", h.ListWithdrawals)
		admin.PATCH("/transaction", write, h.UpdateTransaction)

		admin.GET("/games", h.AdminListGames)
		admin.POST("/games", write, h.CreateGame)
		admin.PATCH("/games/:id", write, h.UpdateGame)
		admin.DELETE("/games/:id", write, h.DeleteGame)

		admin.GET("/config", h.AdminConfig)
		admin.PATCH("/config", write, h.UpdateConfig)

		admin.GET("/promotions", h.AdminListPromotions)
		admin.POST("/promotions", write, h.CreatePromotion)
		admin.PATCH("/promotions/:id", write, h.UpdatePromotion)
		admin.DELETE("/promotions/:id", write, h.DeletePromotion)

		admin.GET("/users", write, h.ListUsers)
		admin.POST("/users", write, h.CreateUser)
		admin.DELETE("/users/:id", write, h.DeleteUser)

		admin.GET("/stats", h.Stats)
		admin.GET("/audit", write, h.AuditLog)
	}

	// Admin event feed authenticates on its own: browsers cannot send headers
	// on the websocket handshake.
	api.GET("/admin/ws", ws.HandleWS(d.Hub, h.Auth, cfg.AllowedOrigins))
}

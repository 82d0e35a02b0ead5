package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"

	"crypto_cashier/internal/apperr"
	"crypto_cashier/internal/config"
	"crypto_cashier/internal/http/middleware"
	"crypto_cashier/internal/logger"
	"crypto_cashier/internal/repository"
	"crypto_cashier/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	Games       *service.GameService
	Config      *service.ConfigService
	Deposits    *service.DepositService
	Withdrawals *service.WithdrawalService
	Admin       *service.AdminService
	Auth        *service.AuthService
	Users       *service.UserService
	Promotions  *service.PromotionService
	Audit       *service.AuditService

	// CookieSecure marks the session cookie Secure (off for plain-http dev)
	CookieSecure bool
}

// NewHandler wires repositories and services over the pool.
func NewHandler(db *pgxpool.Pool, cfg *config.Config, events service.Publisher) (*Handler, error) {
	net, err := config.NetParams(cfg.BTCNetwork)
	if err != nil {
		return nil, err
	}

	games := repository.NewGameRepository(db)
	deposits := repository.NewDepositRepository(db)
	withdrawals := repository.NewWithdrawalRepository(db)
	users := repository.NewUserRepository(db)

	audit := service.NewAuditService(repository.NewAuditRepository(db))
	configSvc := service.NewConfigService(repository.NewConfigRepository(db), net, audit)

	withdrawalSvc := service.NewWithdrawalService(games, configSvc, withdrawals, audit, events)
	if cfg.ValidateWalletAddresses {
		withdrawalSvc.ValidateDestinations(net)
	}

	return &Handler{
		Games:        service.NewGameService(games, deposits, withdrawals, audit),
		Config:       configSvc,
		Deposits:     service.NewDepositService(games, configSvc, deposits, audit, events),
		Withdrawals:  withdrawalSvc,
		Admin:        service.NewAdminService(deposits, withdrawals, audit, events, cfg.AllowStatusReopen),
		Auth:         service.NewAuthService(users, service.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL), audit),
		Users:        service.NewUserService(users, audit),
		Promotions:   service.NewPromotionService(repository.NewPromotionRepository(db), audit),
		Audit:        audit,
		CookieSecure: cfg.CookieSecure,
	}, nil
}

// respondError пишет ошибку в едином формате {"error","code"}
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if apperr.KindOf(err) == apperr.KindInternal {
		logger.Error("request failed", "error", err, "method", c.Request.Method, "path", c.Request.URL.Path, "request_id", c.GetString("request_id"))
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": apperr.Message(err), "code": apperr.KindOf(err)})
}

func badRequest(c *gin.Context) {
	respondError(c, apperr.Validation("invalid request body"))
}

// requestMeta collects actor and client details for the audit log.
func requestMeta(c *gin.Context) service.RequestMeta {
	meta := service.RequestMeta{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	if p, ok := middleware.CurrentPrincipal(c); ok {
		meta.ActorID = p.UserID
	}
	return meta
}

func queryLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Amount accepts both "0.002" and 0.002 in request bodies. Numbers keep their
// literal text so no float rounding happens.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

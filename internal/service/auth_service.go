package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crypto_cashier/internal/apperr"
	"crypto_cashier/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost matches the cost used when seeding admin accounts.
const BcryptCost = 12

// compared against when the email is unknown so both paths cost a bcrypt run
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), BcryptCost)

// AuthService signs admins in with email and password.
type AuthService struct {
	users  UserStore
	tokens *TokenIssuer
	audit  *AuditService
}

func NewAuthService(users UserStore, tokens *TokenIssuer, audit *AuditService) *AuthService {
	return &AuthService{users: users, tokens: tokens, audit: audit}
}

// Session is the result of a successful login.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, meta RequestMeta, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		s.audit.LogLogin(ctx, meta, email, false)
		return nil, apperr.Unauthorized("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)); err != nil {
		meta.ActorID = u.ID
		s.audit.LogLogin(ctx, meta, email, false)
		return nil, apperr.Unauthorized("invalid email or password")
	}

	token, exp, err := s.tokens.Issue(domain.Principal{UserID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	meta.ActorID = u.ID
	s.audit.LogLogin(ctx, meta, email, true)
	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

// Authenticate resolves a bearer/cookie token into a principal. The user row
// is re-read so deleted accounts lose access and the stored role applies.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, apperr.Unauthorized("authentication required")
	}
	p, err := s.tokens.Parse(token)
	if err != nil {
		return domain.Principal{}, apperr.Unauthorized("invalid or expired session")
	}

	u, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("load session user: %w", err)
	}
	if u == nil {
		return domain.Principal{}, apperr.Unauthorized("invalid or expired session")
	}
	return domain.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}

// HashPassword hashes with BcryptCost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

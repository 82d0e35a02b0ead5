package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"crypto_cashier/internal/apperr"
	"crypto_cashier/internal/domain"
	"crypto_cashier/internal/repository"

	"github.com/google/uuid"
)

const minPasswordLen = 8

// UserService manages back-office accounts.
type UserService struct {
	users UserStore
	audit *AuditService
	hash  func(string) (string, error)
}

func NewUserService(users UserStore, audit *AuditService) *UserService {
	return &UserService{users: users, audit: audit, hash: HashPassword}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user %s not found", id)
	}
	return u, nil
}

type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
}

func (s *UserService) Create(ctx context.Context, meta RequestMeta, in CreateUserInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, apperr.Validation("email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("email is not valid")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperr.Validation("password must be at least %d characters", minPasswordLen)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleAdmin
	}
	if !role.Valid() {
		return nil, apperr.Validation("role must be ADMIN or OPERATOR")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("a user with email %s already exists", email)
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		ID:             uuid.NewString(),
		Email:          email,
		Name:           strings.TrimSpace(in.Name),
		HashedPassword: hash,
		Role:           role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("a user with email %s already exists", email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.audit.LogAdminAction(ctx, meta, domain.AuditActionUserCreate, "user", u.ID, map[string]interface{}{"email": u.Email, "role": string(u.Role)})
	return u, nil
}

// Delete removes an account; admins cannot delete themselves
func (s *UserService) Delete(ctx context.Context, meta RequestMeta, id string) error {
	if id == meta.ActorID {
		return apperr.Validation("you cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user %s not found", id)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.audit.LogAdminAction(ctx, meta, domain.AuditActionUserDelete, "user", id, nil)
	return nil
}

// EnsureAdmin creates the bootstrap admin when the email is not taken yet.
// Reports whether a new account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	_, err = s.Create(ctx, RequestMeta{}, CreateUserInput{Email: email, Password: password, Name: "Admin", Role: domain.RoleAdmin})
	if err != nil {
		return false, err
	}
	return true, nil
}

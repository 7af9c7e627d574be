package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/matchdaylabs/teamstats/internal/domain/user"
	idgen "github.com/matchdaylabs/teamstats/internal/platform/id"
	"github.com/matchdaylabs/teamstats/internal/platform/logging"
)

const minPasswordLength = 8

type AuthService struct {
	users  user.Repository
	ids    idgen.Generator
	logger *logging.Logger
}

func NewAuthService(users user.Repository, ids idgen.Generator, logger *logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AuthService{
		users:  users,
		ids:    ids,
		logger: logger,
	}
}

func (s *AuthService) Signup(ctx context.Context, email, name, password string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Signup")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if !strings.Contains(email, "@") {
		return user.User{}, fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	if name == "" {
		return user.User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return user.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	if _, exists, err := s.users.GetByEmail(ctx, email); err != nil {
		return user.User{}, fmt.Errorf("check email: %w", err)
	} else if exists {
		return user.User{}, fmt.Errorf("%w: email is already registered", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.ids.NewID()
	if err != nil {
		return user.User{}, fmt.Errorf("generate user id: %w", err)
	}

	item := user.User{
		ID:           id,
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return user.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.users.Create(ctx, item); err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user signed up", "user_id", item.ID)
	return item, nil
}

// Login answers the same error for an unknown email and a wrong password
// so the endpoint cannot be used to probe registered addresses.
func (s *AuthService) Login(ctx context.Context, email, password string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Login")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return user.User{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	item, exists, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return user.User{}, fmt.Errorf("get user by email: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(item.PasswordHash), []byte(password)); err != nil {
		return user.User{}, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}

	return item, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.GetUser")
	defer span.End()

	if strings.TrimSpace(id) == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	item, exists, err := s.users.GetByID(ctx, id)
	if err != nil {
		return user.User{}, fmt.Errorf("get user by id: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, id)
	}

	return item, nil
}

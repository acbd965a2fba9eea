package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/inventory-dashboard/internal/config"
	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
	"github.com/mamadbah2/inventory-dashboard/internal/repository"
)

var (
	// ErrInvalidCredentials covers blank fields, unknown users and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserExists is returned when signing up with a taken username.
	ErrUserExists = repository.ErrUserExists
)

// Service registers users, checks passwords and issues session tokens.
type Service struct {
	users      repository.UserStore
	tokens     *TokenIssuer
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires the auth service.
func NewService(users repository.UserStore, cfg config.SessionConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:      users,
		tokens:     NewTokenIssuer(cfg.Secret, cfg.TTL),
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
		now:        time.Now,
	}
}

// SignUp creates an account with a bcrypt-hashed password.
func (s *Service) SignUp(ctx context.Context, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}

	s.logger.Info("user signed up", zap.String("username", username), zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login verifies the password of an existing account.
func (s *Service) Login(ctx context.Context, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs a session token for the user.
func (s *Service) IssueToken(user models.User) (string, time.Time, error) {
	return s.tokens.Issue(user.Username, s.now())
}

// ParseToken validates a session token and returns its username.
func (s *Service) ParseToken(token string) (string, error) {
	return s.tokens.Parse(token)
}

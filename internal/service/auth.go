package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskease/internal/auth"
	"taskease/internal/models"
	"taskease/internal/repository"
	"taskease/pkg/logger"
)

// AuthService handles registration and login and issues bearer tokens.
type AuthService struct {
	users  repository.UserStore
	tokens *auth.Verifier
}

func NewAuthService(users repository.UserStore, tokens *auth.Verifier) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates the user and returns a signed token for immediate use.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, *models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user := &models.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			logger.SecurityLogger.Warn("Duplicate email on register", zap.String("email", email))
			return "", nil, ErrEmailTaken
		}
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return "", nil, err
	}
	logger.AuditLogger.Info("User registered", zap.Int("user_id", user.ID))
	return token, user, nil
}

// Login verifies the password and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.SecurityLogger.Warn("Login with unknown email", zap.String("email", email))
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.SecurityLogger.Warn("Login with wrong password", zap.Int("user_id", user.ID))
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return "", nil, err
	}
	logger.AuditLogger.Info("Login success", zap.Int("user_id", user.ID))
	return token, user, nil
}

package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"melodix/internal/apperrors"
	"melodix/internal/models"
	"melodix/internal/store"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	resetTokenBytes = 32

	msgLoginRequired      = "email and password are required"
	msgInvalidCredentials = "incorrect email or password"
	msgEmailTaken         = "email already exists"
	msgEmailRequired      = "email is required"
	msgResetSent          = "if the email exists, a reset link has been sent"
	msgInvalidResetToken  = "reset token is invalid or has expired"
	msgPasswordRequired   = "password and confirmation are required"
	msgPasswordReset      = "password has been reset"
)

type UserServiceConfig struct {
	BcryptCost    int
	ResetTokenTTL time.Duration
	FrontendURL   string
}

// UserService owns registration, credential checks and the password reset
// flow.
type UserService struct {
	store    UserStore
	tokens   *AuthService
	notifier Notifier
	logger   zerolog.Logger
	cfg      UserServiceConfig
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUserService(users UserStore, tokens *AuthService, notifier Notifier, logger zerolog.Logger, cfg UserServiceConfig) *UserService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = time.Hour
	}

	return &UserService{
		store:    users,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisteredUser, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	address := strings.TrimSpace(req.Address)
	phone := strings.TrimSpace(req.Phone)
	email := NormalizeEmail(req.Email)

	if firstName == "" || lastName == "" || email == "" || req.Password == "" ||
		req.ConfirmPassword == "" || address == "" || phone == "" {
		return nil, apperrors.Validation(msgFieldsRequired)
	}
	if !ValidEmail(email) {
		return nil, apperrors.Validation(msgInvalidEmail)
	}
	if err := ValidatePassword(req.Password, req.ConfirmPassword); err != nil {
		return nil, err
	}

	_, err := s.store.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.Conflict(msgEmailTaken)
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.logger.Error().Err(err).Msg("Error checking existing user")
		return nil, apperrors.Internal("database error", err)
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		Address:      address,
		Phone:        phone,
		Role:         string(models.RoleUser),
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.Conflict(msgEmailTaken)
		}
		s.logger.Error().Err(err).Msg("Error creating user")
		return nil, apperrors.Internal("failed to create user", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered successfully")
	return &models.RegisteredUser{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

// Login answers an unknown email and a wrong password with the same error,
// and spends a bcrypt comparison in both cases.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperrors.Validation(msgLoginRequired)
	}

	user, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(req.Password))
		return nil, apperrors.Authentication(msgInvalidCredentials)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error querying user")
		return nil, apperrors.Internal("database error", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("user_id", user.ID).Msg("Failed authentication attempt")
		return nil, apperrors.Authentication(msgInvalidCredentials)
	}

	return s.issue(user)
}

// Refresh re-reads the user so the new token carries the stored role, not
// whatever the previous token claimed.
func (s *UserService) Refresh(ctx context.Context, userID string) (*models.AuthResponse, error) {
	user, err := s.store.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.Authentication("user no longer exists")
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error fetching user")
		return nil, apperrors.Internal("database error", err)
	}
	return s.issue(user)
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.store.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error fetching user")
		return nil, apperrors.Internal("database error", err)
	}
	return user.Public(), nil
}

// ForgotPassword returns the same message whether or not the account exists.
// Only an existing account gets a fresh token, replacing any earlier one.
func (s *UserService) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) (*models.MessageResponse, error) {
	email := NormalizeEmail(req.Email)
	if email == "" {
		return nil, apperrors.Validation(msgEmailRequired)
	}
	if !ValidEmail(email) {
		return nil, apperrors.Validation(msgInvalidEmail)
	}

	user, err := s.store.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.logger.Info().Msg("Password reset requested for unknown email")
	case err != nil:
		s.logger.Error().Err(err).Msg("Error querying user")
		return nil, apperrors.Internal("database error", err)
	default:
		if err := s.issueResetToken(ctx, user); err != nil {
			return nil, err
		}
	}

	return &models.MessageResponse{Message: msgResetSent}, nil
}

func (s *UserService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) (*models.MessageResponse, error) {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return nil, apperrors.InvalidToken(msgInvalidResetToken)
	}

	user, err := s.store.FindByResetToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.InvalidToken(msgInvalidResetToken)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error querying reset token")
		return nil, apperrors.Internal("database error", err)
	}

	now := s.now()
	if user.ResetPasswordExpires == nil || !now.Before(*user.ResetPasswordExpires) {
		return nil, apperrors.InvalidToken(msgInvalidResetToken)
	}

	if req.Password == "" || req.ConfirmPassword == "" {
		return nil, apperrors.Validation(msgPasswordRequired)
	}
	if err := ValidatePassword(req.Password, req.ConfirmPassword); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	err = s.store.ConsumeResetToken(ctx, user.ID, token, hash, now)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.InvalidToken(msgInvalidResetToken)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("Error resetting password")
		return nil, apperrors.Internal("failed to reset password", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("Password reset")
	return &models.MessageResponse{Message: msgPasswordReset}, nil
}

func (s *UserService) issue(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperrors.Internal("failed to generate token", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("User authenticated successfully")
	return &models.AuthResponse{User: user.Public(), Token: token}, nil
}

func (s *UserService) issueResetToken(ctx context.Context, user *models.User) error {
	token, err := generateResetToken()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error generating reset token")
		return apperrors.Internal("failed to generate reset token", err)
	}

	expires := s.now().Add(s.cfg.ResetTokenTTL)
	if err := s.store.SetResetToken(ctx, user.ID, token, expires); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("Error saving reset token")
		return apperrors.Internal("failed to save reset token", err)
	}

	evt := models.PasswordResetEvent{
		Email:     user.Email,
		FirstName: user.FirstName,
		Token:     token,
		ResetURL:  resetURL(s.cfg.FrontendURL, token),
		ExpiresAt: expires,
	}
	if err := s.notifier.PasswordResetRequested(ctx, evt); err != nil {
		// The token is stored; the caller still gets the uniform answer.
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to dispatch reset email")
	}

	s.logger.Info().Str("user_id", user.ID).Time("expires", expires).Msg("Reset token issued")
	return nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return "", apperrors.Internal("failed to hash password", err)
	}
	return string(hash), nil
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("melodix-timing-equalizer"), s.cfg.BcryptCost)
		if err != nil {
			s.logger.Error().Err(err).Msg("Error building dummy hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func generateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func resetURL(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
}

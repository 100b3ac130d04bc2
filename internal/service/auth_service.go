// Package service provides business logic implementations.
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/flashdeck/flashdeck/internal/config"
	"github.com/flashdeck/flashdeck/internal/models"
	apierrors "github.com/flashdeck/flashdeck/internal/pkg/errors"
	"github.com/flashdeck/flashdeck/internal/repository"
)

// dummyHash is compared against when the email does not resolve to a user,
// so login takes roughly the same time whether or not the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("flashdeck-no-such-user"), bcrypt.DefaultCost)

// AuthService defines registration, login, and token resolution.
type AuthService interface {
	// Register creates an account with a bcrypt-hashed password.
	// A taken email yields a conflict error.
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	// Login verifies credentials and issues a fresh access token.
	// Bad credentials yield an unauthorized error with no hint of
	// whether the email exists.
	Login(ctx context.Context, email, password string) (*models.AccessToken, error)
	// Authenticate resolves a bearer token to its user. Unknown and
	// expired tokens both yield an unauthorized error; a token whose
	// expiration equals the current instant is already expired.
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// RegisterRequest is the request for creating an account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=80"`
	Password string `json:"password" validate:"required,min=8"`
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	tokenTTL  time.Duration

	// now is swapped out in tests to control token expiry.
	now func() time.Time
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, cfg config.AuthConfig) AuthService {
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokenTTL:  ttl,
		now:       time.Now,
	}
}

// Register creates a new user account.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apierrors.NewConflictError("User with given email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *authService) Login(ctx context.Context, email, password string) (*models.AccessToken, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, apierrors.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apierrors.ErrUnauthorized
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	accessToken := &models.AccessToken{
		Token:      token,
		UserID:     user.ID,
		Expiration: s.now().Add(s.tokenTTL),
	}
	if err := s.tokenRepo.Create(ctx, accessToken); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}

	return accessToken, nil
}

// Authenticate resolves a bearer token to its user.
func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apierrors.ErrUnauthorized
	}

	accessToken, err := s.tokenRepo.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if accessToken == nil || !accessToken.Valid(s.now()) {
		return nil, apierrors.ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, accessToken.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, apierrors.ErrUnauthorized
	}
	return user, nil
}

// generateToken returns a cryptographically random opaque token string.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Compile-time check to ensure authService implements AuthService.
var _ AuthService = (*authService)(nil)

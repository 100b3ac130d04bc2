package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck/internal/config"
	"github.com/flashdeck/flashdeck/internal/models"
	apierrors "github.com/flashdeck/flashdeck/internal/pkg/errors"
	"github.com/flashdeck/flashdeck/internal/repository"
)

// --- Mock Repositories ---

type mockUserRepo struct {
	users   map[uuid.UUID]*models.User
	byEmail map[string]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:   make(map[uuid.UUID]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if _, exists := m.byEmail[user.Email]; exists {
		return repository.ErrDuplicate
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.byEmail[email], nil
}

type mockTokenRepo struct {
	tokens map[string]*models.AccessToken
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[string]*models.AccessToken)}
}

func (m *mockTokenRepo) Create(ctx context.Context, token *models.AccessToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockTokenRepo) Get(ctx context.Context, token string) (*models.AccessToken, error) {
	return m.tokens[token], nil
}

// --- Tests ---

func newTestAuthService() (*authService, *mockUserRepo, *mockTokenRepo) {
	userRepo := newMockUserRepo()
	tokenRepo := newMockTokenRepo()
	svc := NewAuthService(userRepo, tokenRepo, config.AuthConfig{TokenTTL: 24 * time.Hour}).(*authService)
	return svc, userRepo, tokenRepo
}

func register(t *testing.T, svc *authService, email, password string) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterRequest{
		Email:    email,
		Name:     "Test User",
		Password: password,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return user
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with hashed password", func(t *testing.T) {
		svc, _, _ := newTestAuthService()

		user := register(t, svc, "alice@example.com", "correct horse battery")

		if user.ID == uuid.Nil {
			t.Error("expected user to get an ID")
		}
		if user.PasswordHash == "correct horse battery" {
			t.Error("password stored in the clear")
		}
	})

	t.Run("duplicate email yields conflict", func(t *testing.T) {
		svc, _, _ := newTestAuthService()
		register(t, svc, "alice@example.com", "password-one")

		_, err := svc.Register(ctx, RegisterRequest{
			Email:    "alice@example.com",
			Name:     "Other Alice",
			Password: "password-two",
		})

		apiErr := apierrors.AsAPIError(err)
		if apiErr.Code != "conflict" {
			t.Errorf("expected conflict error, got %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials issue a token", func(t *testing.T) {
		svc, _, tokenRepo := newTestAuthService()
		issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return issued }
		user := register(t, svc, "alice@example.com", "secret password")

		token, err := svc.Login(ctx, "alice@example.com", "secret password")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		if token.Token == "" {
			t.Error("expected an opaque token value")
		}
		if token.UserID != user.ID {
			t.Errorf("token bound to wrong user: %s", token.UserID)
		}
		want := issued.Add(24 * time.Hour)
		if !token.Expiration.Equal(want) {
			t.Errorf("expected expiration %v, got %v", want, token.Expiration)
		}
		if tokenRepo.tokens[token.Token] == nil {
			t.Error("token was not persisted")
		}
	})

	t.Run("two logins issue distinct tokens", func(t *testing.T) {
		svc, _, _ := newTestAuthService()
		register(t, svc, "alice@example.com", "secret password")

		first, err := svc.Login(ctx, "alice@example.com", "secret password")
		if err != nil {
			t.Fatalf("first login failed: %v", err)
		}
		second, err := svc.Login(ctx, "alice@example.com", "secret password")
		if err != nil {
			t.Fatalf("second login failed: %v", err)
		}
		if first.Token == second.Token {
			t.Error("expected distinct tokens per login")
		}
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		svc, _, _ := newTestAuthService()
		register(t, svc, "alice@example.com", "secret password")

		_, err := svc.Login(ctx, "alice@example.com", "wrong password")
		if apierrors.AsAPIError(err) != apierrors.ErrUnauthorized {
			t.Errorf("expected unauthorized, got %v", err)
		}
	})

	t.Run("unknown email is unauthorized", func(t *testing.T) {
		svc, _, _ := newTestAuthService()

		_, err := svc.Login(ctx, "nobody@example.com", "whatever")
		if apierrors.AsAPIError(err) != apierrors.ErrUnauthorized {
			t.Errorf("expected unauthorized, got %v", err)
		}
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token resolves user", func(t *testing.T) {
		svc, _, _ := newTestAuthService()
		user := register(t, svc, "alice@example.com", "secret password")
		token, err := svc.Login(ctx, "alice@example.com", "secret password")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		got, err := svc.Authenticate(ctx, token.Token)
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("resolved wrong user: %s", got.ID)
		}
	})

	t.Run("unknown token is unauthorized", func(t *testing.T) {
		svc, _, _ := newTestAuthService()

		_, err := svc.Authenticate(ctx, "no-such-token")
		if apierrors.AsAPIError(err) != apierrors.ErrUnauthorized {
			t.Errorf("expected unauthorized, got %v", err)
		}
	})

	t.Run("empty token is unauthorized", func(t *testing.T) {
		svc, _, _ := newTestAuthService()

		_, err := svc.Authenticate(ctx, "")
		if apierrors.AsAPIError(err) != apierrors.ErrUnauthorized {
			t.Errorf("expected unauthorized, got %v", err)
		}
	})

	t.Run("token at its expiration instant is expired", func(t *testing.T) {
		svc, _, _ := newTestAuthService()
		issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return issued }
		register(t, svc, "alice@example.com", "secret password")
		token, err := svc.Login(ctx, "alice@example.com", "secret password")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		svc.now = func() time.Time { return token.Expiration }
		if _, err := svc.Authenticate(ctx, token.Token); apierrors.AsAPIError(err) != apierrors.ErrUnauthorized {
			t.Errorf("expected unauthorized at expiration instant, got %v", err)
		}

		svc.now = func() time.Time { return token.Expiration.Add(-time.Second) }
		if _, err := svc.Authenticate(ctx, token.Token); err != nil {
			t.Errorf("expected token to still be valid just before expiration, got %v", err)
		}
	})
}

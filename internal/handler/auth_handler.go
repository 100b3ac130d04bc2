package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	apierrors "github.com/flashdeck/flashdeck/internal/pkg/errors"
	"github.com/flashdeck/flashdeck/internal/pkg/response"
	"github.com/flashdeck/flashdeck/internal/service"
)

// AuthHandler handles registration and login HTTP requests.
type AuthHandler struct {
	authService service.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// Register handles POST /v1/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		response.Error(w, err)
		return
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, user)
}

// LoginHTTPRequest is the HTTP request body for obtaining a token.
type LoginHTTPRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the API response format for issued tokens.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Expiration  time.Time `json:"expiration"`
}

// Login handles POST /v1/token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if req.Email == "" {
		response.Error(w, apierrors.NewValidationError("email", "email is required"))
		return
	}
	if req.Password == "" {
		response.Error(w, apierrors.NewValidationError("password", "password is required"))
		return
	}

	token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, TokenResponse{
		AccessToken: token.Token,
		TokenType:   "bearer",
		Expiration:  token.Expiration,
	})
}

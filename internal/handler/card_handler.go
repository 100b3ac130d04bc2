package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/flashdeck/flashdeck/internal/middleware"
	apierrors "github.com/flashdeck/flashdeck/internal/pkg/errors"
	"github.com/flashdeck/flashdeck/internal/pkg/response"
	"github.com/flashdeck/flashdeck/internal/service"
)

// CardHandler handles card-related HTTP requests.
type CardHandler struct {
	cardService service.CardService
	validate    *validator.Validate
}

// NewCardHandler creates a new card handler.
func NewCardHandler(cardService service.CardService) *CardHandler {
	return &CardHandler{
		cardService: cardService,
		validate:    validator.New(),
	}
}

// Routes returns a chi router with card routes. Every route requires
// authentication via the given middleware.
func (h *CardHandler) Routes(requireAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(requireAuth)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// List handles GET /v1/cards
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}

	skip, limit := parsePage(r)
	cards, err := h.cardService.List(r.Context(), user.ID, skip, limit)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, cards)
}

// Create handles POST /v1/cards
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}

	var req service.CreateCardRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		response.Error(w, err)
		return
	}

	card, err := h.cardService.Create(r.Context(), user.ID, req)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, card)
}

// Get handles GET /v1/cards/{id}
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}

	cardID, err := parseIDParam(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	card, err := h.cardService.Get(r.Context(), user.ID, cardID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, card)
}

// Update handles PUT /v1/cards/{id}
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}

	cardID, err := parseIDParam(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var req service.UpdateCardRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		response.Error(w, err)
		return
	}

	card, err := h.cardService.Update(r.Context(), user.ID, cardID, req)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, card)
}

// Delete handles DELETE /v1/cards/{id}
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}

	cardID, err := parseIDParam(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.cardService.Delete(r.Context(), user.ID, cardID); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}

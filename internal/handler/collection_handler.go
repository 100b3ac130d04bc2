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

// CollectionHandler handles collection-related HTTP requests.
type CollectionHandler struct {
	collectionService service.CollectionService
	validate          *validator.Validate
}

// NewCollectionHandler creates a new collection handler.
func NewCollectionHandler(collectionService service.CollectionService) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		validate:          validator.New(),
	}
}

// Routes returns a chi router with collection routes. The public listing
// and single-collection reads work without a token; reads of a private
// collection still need its owner behind optionalAuth.
func (h *CollectionHandler) Routes(requireAuth, optionalAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListPublic)
	r.With(optionalAuth).Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/mine", h.ListMine)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}

// ListPublic handles GET /v1/collections
func (h *CollectionHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePage(r)
	collections, err := h.collectionService.ListPublic(r.Context(), skip, limit)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, collections)
}

// ListMine handles GET /v1/collections/mine
func (h *CollectionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}

	skip, limit := parsePage(r)
	collections, err := h.collectionService.ListMine(r.Context(), user.ID, skip, limit)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, collections)
}

// Get handles GET /v1/collections/{id}
func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	collectionID, err := parseIDParam(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	collection, err := h.collectionService.Get(r.Context(), middleware.GetUser(r.Context()), collectionID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, collection)
}

// Create handles POST /v1/collections
func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}

	var req service.CreateCollectionRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		response.Error(w, err)
		return
	}

	collection, err := h.collectionService.Create(r.Context(), user.ID, req)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, collection)
}

// Update handles PUT /v1/collections/{id}
func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}

	collectionID, err := parseIDParam(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var req service.UpdateCollectionRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		response.Error(w, err)
		return
	}

	collection, err := h.collectionService.Update(r.Context(), user.ID, collectionID, req)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, collection)
}

// Delete handles DELETE /v1/collections/{id}
func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}

	collectionID, err := parseIDParam(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.collectionService.Delete(r.Context(), user.ID, collectionID); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}

// Package handler provides HTTP handlers for the flashdeck API.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apierrors "github.com/flashdeck/flashdeck/internal/pkg/errors"
)

const defaultPageLimit = 10

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation on it. The returned error is ready to hand to response.Error.
func decodeAndValidate(r *http.Request, validate *validator.Validate, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierrors.ErrBadRequest.WithMessage("Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return apierrors.NewValidationError(fe.Field(), fe.Field()+" failed on the "+fe.Tag()+" rule")
		}
		return apierrors.ErrBadRequest.WithMessage("Invalid request body")
	}
	return nil
}

// parsePage reads skip and limit query parameters. Absent or unparseable
// values fall back to skip 0 and limit 10.
func parsePage(r *http.Request) (skip, limit int) {
	skip = 0
	limit = defaultPageLimit
	if s := r.URL.Query().Get("skip"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			skip = v
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil {
			limit = v
		}
	}
	return skip, limit
}

// parseIDParam parses the {id} URL parameter as a UUID.
func parseIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apierrors.ErrBadRequest.WithMessage("Invalid resource ID")
	}
	return id, nil
}

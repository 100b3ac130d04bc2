package models

import (
	"time"

	"github.com/google/uuid"
)

// Collection is a named grouping of cards, private by default.
type Collection struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	IsPrivate   bool      `json:"is_private" db:"is_private"`
	OwnerID     uuid.UUID `json:"owner_id" db:"owner_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"last_update" db:"updated_at"`

	// Cards is populated only on single-collection reads; list endpoints
	// return the short form without member cards.
	Cards []*Card `json:"cards,omitempty"`
}

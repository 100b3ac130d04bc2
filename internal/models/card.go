package models

import (
	"time"

	"github.com/google/uuid"
)

// Card represents a flashcard owned by a user.
//
// Collections holds the card's memberships and is always populated by
// repository read paths; callers never observe an unresolved relation.
type Card struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Content     string        `json:"content" db:"content"`
	OwnerID     uuid.UUID     `json:"owner_id" db:"owner_id"`
	Collections []*Collection `json:"collections"`
	CreatedAt   time.Time     `json:"creation" db:"created_at"`
	UpdatedAt   time.Time     `json:"last_update" db:"updated_at"`
}

// CollectionIDs returns the identifiers of the card's collections.
func (c *Card) CollectionIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.Collections))
	for i, col := range c.Collections {
		ids[i] = col.ID
	}
	return ids
}

package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flashdeck/flashdeck/internal/models"
)

// querier is the subset of pgxpool.Pool and pgx.Tx used by shared helpers.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// CardRepository defines the interface for card data operations.
//
// Every read path returns cards with their collection memberships fully
// materialized; callers never observe an unresolved relation.
type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Card, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]*models.Card, error)
	Update(ctx context.Context, card *models.Card) error
	// UpdateCollections applies a set of link additions and removals as a
	// single transaction. Both slices empty is a no-op with no writes.
	UpdateCollections(ctx context.Context, cardID uuid.UUID, add, remove []uuid.UUID) error
	// Delete removes the card and all its collection links in a single
	// transaction, so a partial failure cannot leave dangling links.
	Delete(ctx context.Context, id uuid.UUID) error
}

type cardRepo struct {
	pool *pgxpool.Pool
}

// NewCardRepository creates a new card repository.
func NewCardRepository(pool *pgxpool.Pool) CardRepository {
	return &cardRepo{pool: pool}
}

// Create inserts a new card.
func (r *cardRepo) Create(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO cards (id, title, content, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	if card.Collections == nil {
		card.Collections = []*models.Collection{}
	}

	return r.pool.QueryRow(ctx, query,
		card.ID,
		card.Title,
		card.Content,
		card.OwnerID,
	).Scan(&card.CreatedAt, &card.UpdatedAt)
}

// GetByID retrieves a card by its UUID with collections loaded.
func (r *cardRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	query := `
		SELECT id, title, content, owner_id, created_at, updated_at
		FROM cards WHERE id = $1`

	var card models.Card
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&card.ID,
		&card.Title,
		&card.Content,
		&card.OwnerID,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	byCard, err := collectionsByCardIDs(ctx, r.pool, []uuid.UUID{card.ID})
	if err != nil {
		return nil, err
	}
	card.Collections = byCard[card.ID]
	return &card, nil
}

// ListByOwner retrieves a page of the owner's cards in creation order,
// each with its collections loaded.
func (r *cardRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]*models.Card, error) {
	query := `
		SELECT id, title, content, owner_id, created_at, updated_at
		FROM cards
		WHERE owner_id = $1
		ORDER BY created_at
		OFFSET $2 LIMIT $3`

	rows, err := r.pool.Query(ctx, query, ownerID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*models.Card
	var ids []uuid.UUID
	for rows.Next() {
		var card models.Card
		if err := rows.Scan(
			&card.ID,
			&card.Title,
			&card.Content,
			&card.OwnerID,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			return nil, err
		}
		cards = append(cards, &card)
		ids = append(ids, card.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byCard, err := collectionsByCardIDs(ctx, r.pool, ids)
	if err != nil {
		return nil, err
	}
	for _, card := range cards {
		card.Collections = byCard[card.ID]
	}
	return cards, nil
}

// Update persists the card's title and content and bumps updated_at.
func (r *cardRepo) Update(ctx context.Context, card *models.Card) error {
	query := `
		UPDATE cards
		SET title = $2, content = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	return r.pool.QueryRow(ctx, query, card.ID, card.Title, card.Content).Scan(&card.UpdatedAt)
}

// UpdateCollections applies link additions then removals in one transaction.
func (r *cardRepo) UpdateCollections(ctx context.Context, cardID uuid.UUID, add, remove []uuid.UUID) error {
	if len(add) == 0 && len(remove) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, collectionID := range add {
		_, err := tx.Exec(ctx, `
			INSERT INTO card_collections (card_id, collection_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`,
			cardID, collectionID,
		)
		if err != nil {
			return err
		}
	}

	if len(remove) > 0 {
		_, err := tx.Exec(ctx, `
			DELETE FROM card_collections
			WHERE card_id = $1 AND collection_id = ANY($2)`,
			cardID, remove,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Delete unlinks all collections and removes the card in one transaction.
func (r *cardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM card_collections WHERE card_id = $1`, id); err != nil {
		return err
	}

	result, err := tx.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

// collectionsByCardIDs loads the collection memberships for a set of cards
// in one query, keyed by card id. Cards with no memberships map to an
// empty slice so callers never serialize a null relation.
func collectionsByCardIDs(ctx context.Context, q querier, cardIDs []uuid.UUID) (map[uuid.UUID][]*models.Collection, error) {
	result := make(map[uuid.UUID][]*models.Collection, len(cardIDs))
	for _, id := range cardIDs {
		result[id] = []*models.Collection{}
	}
	if len(cardIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT cc.card_id, c.id, c.title, c.description, c.is_private, c.owner_id, c.created_at, c.updated_at
		FROM card_collections cc
		JOIN collections c ON c.id = cc.collection_id
		WHERE cc.card_id = ANY($1)
		ORDER BY c.created_at`

	rows, err := q.Query(ctx, query, cardIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var cardID uuid.UUID
		var col models.Collection
		if err := rows.Scan(
			&cardID,
			&col.ID,
			&col.Title,
			&col.Description,
			&col.IsPrivate,
			&col.OwnerID,
			&col.CreatedAt,
			&col.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result[cardID] = append(result[cardID], &col)
	}
	return result, rows.Err()
}

// Compile-time check to ensure cardRepo implements CardRepository.
var _ CardRepository = (*cardRepo)(nil)

package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flashdeck/flashdeck/internal/models"
)

// CollectionRepository defines the interface for collection data operations.
type CollectionRepository interface {
	Create(ctx context.Context, collection *models.Collection) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	// GetWithCards loads the collection with its member cards, and each
	// card with its own collection memberships, so clients resolving a
	// collection's cards see every card's other memberships without an
	// extra round trip.
	GetWithCards(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	ListPublic(ctx context.Context, skip, limit int) ([]*models.Collection, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]*models.Collection, error)
	// ListByIDs resolves identifiers against existing collections.
	// Unknown identifiers are absent from the result, not an error.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Collection, error)
	// ListOwnedByIDs resolves identifiers against collections owned by
	// the given user; identifiers that don't resolve or belong to
	// someone else are absent from the result.
	ListOwnedByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*models.Collection, error)
	Update(ctx context.Context, collection *models.Collection) error
	// Delete unlinks all member cards and removes the collection in a
	// single transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}

type collectionRepo struct {
	pool *pgxpool.Pool
}

// NewCollectionRepository creates a new collection repository.
func NewCollectionRepository(pool *pgxpool.Pool) CollectionRepository {
	return &collectionRepo{pool: pool}
}

const collectionColumns = `id, title, description, is_private, owner_id, created_at, updated_at`

func scanCollection(row pgx.Row) (*models.Collection, error) {
	var col models.Collection
	err := row.Scan(
		&col.ID,
		&col.Title,
		&col.Description,
		&col.IsPrivate,
		&col.OwnerID,
		&col.CreatedAt,
		&col.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &col, nil
}

// Create inserts a new collection.
func (r *collectionRepo) Create(ctx context.Context, collection *models.Collection) error {
	query := `
		INSERT INTO collections (id, title, description, is_private, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	if collection.ID == uuid.Nil {
		collection.ID = uuid.New()
	}

	return r.pool.QueryRow(ctx, query,
		collection.ID,
		collection.Title,
		collection.Description,
		collection.IsPrivate,
		collection.OwnerID,
	).Scan(&collection.CreatedAt, &collection.UpdatedAt)
}

// GetByID retrieves a collection by its UUID without member cards.
func (r *collectionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE id = $1`
	return scanCollection(r.pool.QueryRow(ctx, query, id))
}

// GetWithCards retrieves a collection with member cards fully materialized.
func (r *collectionRepo) GetWithCards(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	collection, err := r.GetByID(ctx, id)
	if err != nil || collection == nil {
		return collection, err
	}

	query := `
		SELECT c.id, c.title, c.content, c.owner_id, c.created_at, c.updated_at
		FROM card_collections cc
		JOIN cards c ON c.id = cc.card_id
		WHERE cc.collection_id = $1
		ORDER BY c.created_at`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []*models.Card{}
	var cardIDs []uuid.UUID
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
		cardIDs = append(cardIDs, card.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byCard, err := collectionsByCardIDs(ctx, r.pool, cardIDs)
	if err != nil {
		return nil, err
	}
	for _, card := range cards {
		card.Collections = byCard[card.ID]
	}

	collection.Cards = cards
	return collection, nil
}

// ListPublic retrieves a page of non-private collections in creation order.
func (r *collectionRepo) ListPublic(ctx context.Context, skip, limit int) ([]*models.Collection, error) {
	query := `
		SELECT ` + collectionColumns + `
		FROM collections
		WHERE is_private = FALSE
		ORDER BY created_at
		OFFSET $1 LIMIT $2`

	return r.listCollections(ctx, query, skip, limit)
}

// ListByOwner retrieves a page of the owner's collections in creation order.
func (r *collectionRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]*models.Collection, error) {
	query := `
		SELECT ` + collectionColumns + `
		FROM collections
		WHERE owner_id = $1
		ORDER BY created_at
		OFFSET $2 LIMIT $3`

	return r.listCollections(ctx, query, ownerID, skip, limit)
}

// ListByIDs resolves identifiers against existing collections.
func (r *collectionRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Collection, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE id = ANY($1)`
	return r.listCollections(ctx, query, ids)
}

// ListOwnedByIDs resolves identifiers against collections owned by ownerID.
func (r *collectionRepo) ListOwnedByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*models.Collection, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE owner_id = $1 AND id = ANY($2)`
	return r.listCollections(ctx, query, ownerID, ids)
}

// Update persists title, description, and visibility, and bumps updated_at.
func (r *collectionRepo) Update(ctx context.Context, collection *models.Collection) error {
	query := `
		UPDATE collections
		SET title = $2, description = $3, is_private = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	return r.pool.QueryRow(ctx, query,
		collection.ID,
		collection.Title,
		collection.Description,
		collection.IsPrivate,
	).Scan(&collection.UpdatedAt)
}

// Delete unlinks all member cards and removes the collection in one transaction.
func (r *collectionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM card_collections WHERE collection_id = $1`, id); err != nil {
		return err
	}

	result, err := tx.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func (r *collectionRepo) listCollections(ctx context.Context, query string, args ...any) ([]*models.Collection, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*models.Collection
	for rows.Next() {
		var col models.Collection
		if err := rows.Scan(
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
		collections = append(collections, &col)
	}
	return collections, rows.Err()
}

// Compile-time check to ensure collectionRepo implements CollectionRepository.
var _ CollectionRepository = (*collectionRepo)(nil)

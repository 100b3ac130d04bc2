package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck/internal/models"
	apierrors "github.com/flashdeck/flashdeck/internal/pkg/errors"
	"github.com/flashdeck/flashdeck/internal/repository"
)

// CollectionService defines collection management operations. Public
// collections are readable by anyone, including anonymous callers;
// everything else is owner-only.
type CollectionService interface {
	ListPublic(ctx context.Context, skip, limit int) ([]*models.Collection, error)
	ListMine(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]*models.Collection, error)
	// Get returns the collection with its member cards. requester may be
	// nil for anonymous callers, who can only read public collections.
	Get(ctx context.Context, requester *models.User, collectionID uuid.UUID) (*models.Collection, error)
	Create(ctx context.Context, ownerID uuid.UUID, req CreateCollectionRequest) (*models.Collection, error)
	Update(ctx context.Context, requesterID, collectionID uuid.UUID, req UpdateCollectionRequest) (*models.Collection, error)
	Delete(ctx context.Context, requesterID, collectionID uuid.UUID) error
}

// CreateCollectionRequest is the request for creating a collection.
// Visibility defaults to private when not supplied.
type CreateCollectionRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	IsPrivate   *bool  `json:"is_private"`
}

// UpdateCollectionRequest is a partial update: only non-nil fields are
// applied. An omitted is_private keeps the current visibility.
type UpdateCollectionRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsPrivate   *bool   `json:"is_private"`
}

type collectionService struct {
	collectionRepo repository.CollectionRepository
}

// NewCollectionService creates a new collection service.
func NewCollectionService(collectionRepo repository.CollectionRepository) CollectionService {
	return &collectionService{collectionRepo: collectionRepo}
}

// ListPublic returns a page of non-private collections.
func (s *collectionService) ListPublic(ctx context.Context, skip, limit int) ([]*models.Collection, error) {
	skip, limit = normalizePage(skip, limit)
	collections, err := s.collectionRepo.ListPublic(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	if collections == nil {
		collections = []*models.Collection{}
	}
	return collections, nil
}

// ListMine returns a page of the user's own collections, private included.
func (s *collectionService) ListMine(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]*models.Collection, error) {
	skip, limit = normalizePage(skip, limit)
	collections, err := s.collectionRepo.ListByOwner(ctx, ownerID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	if collections == nil {
		collections = []*models.Collection{}
	}
	return collections, nil
}

// Get returns the collection with member cards. Private collections are
// only visible to their owner; existence is still disclosed to non-owners
// via the forbidden response, matching the other ownership checks.
func (s *collectionService) Get(ctx context.Context, requester *models.User, collectionID uuid.UUID) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetWithCards(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	if collection == nil {
		return nil, apierrors.NewNotFoundError("Collection")
	}
	if collection.IsPrivate && (requester == nil || requester.ID != collection.OwnerID) {
		return nil, apierrors.ErrForbidden
	}
	return collection, nil
}

// Create creates a collection owned by the given user.
func (s *collectionService) Create(ctx context.Context, ownerID uuid.UUID, req CreateCollectionRequest) (*models.Collection, error) {
	isPrivate := true
	if req.IsPrivate != nil {
		isPrivate = *req.IsPrivate
	}

	collection := &models.Collection{
		Title:       req.Title,
		Description: req.Description,
		IsPrivate:   isPrivate,
		OwnerID:     ownerID,
		Cards:       []*models.Card{},
	}
	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return collection, nil
}

// Update applies a partial update to an owned collection.
func (s *collectionService) Update(ctx context.Context, requesterID, collectionID uuid.UUID, req UpdateCollectionRequest) (*models.Collection, error) {
	collection, err := s.getOwned(ctx, requesterID, collectionID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		collection.Title = *req.Title
	}
	if req.Description != nil {
		collection.Description = *req.Description
	}
	if req.IsPrivate != nil {
		collection.IsPrivate = *req.IsPrivate
	}

	if err := s.collectionRepo.Update(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to update collection: %w", err)
	}
	return collection, nil
}

// Delete removes an owned collection, unlinking member cards first. The
// cards themselves survive.
func (s *collectionService) Delete(ctx context.Context, requesterID, collectionID uuid.UUID) error {
	if _, err := s.getOwned(ctx, requesterID, collectionID); err != nil {
		return err
	}
	if err := s.collectionRepo.Delete(ctx, collectionID); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return nil
}

func (s *collectionService) getOwned(ctx context.Context, requesterID, collectionID uuid.UUID) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	if collection == nil {
		return nil, apierrors.NewNotFoundError("Collection")
	}
	if collection.OwnerID != requesterID {
		return nil, apierrors.ErrForbidden
	}
	return collection, nil
}

// Compile-time check to ensure collectionService implements CollectionService.
var _ CollectionService = (*collectionService)(nil)

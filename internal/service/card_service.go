package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck/internal/models"
	apierrors "github.com/flashdeck/flashdeck/internal/pkg/errors"
	"github.com/flashdeck/flashdeck/internal/repository"
)

// CardService defines card management operations. Every operation is
// scoped to the requesting user; only owners may read or mutate a card.
type CardService interface {
	List(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]*models.Card, error)
	Get(ctx context.Context, requesterID, cardID uuid.UUID) (*models.Card, error)
	Create(ctx context.Context, ownerID uuid.UUID, req CreateCardRequest) (*models.Card, error)
	Update(ctx context.Context, requesterID, cardID uuid.UUID, req UpdateCardRequest) (*models.Card, error)
	Delete(ctx context.Context, requesterID, cardID uuid.UUID) error
}

// CreateCardRequest is the request for creating a card. CollectionIDs that
// don't resolve to a collection owned by the creator are silently dropped.
type CreateCardRequest struct {
	Title         string      `json:"title" validate:"required,max=255"`
	Content       string      `json:"content" validate:"required"`
	CollectionIDs []uuid.UUID `json:"collection_ids"`
}

// UpdateCardRequest is a partial update: only non-nil fields are applied.
// A nil CollectionIDs leaves links unchanged; a non-nil one (even empty)
// replaces the card's collection set via reconciliation.
type UpdateCardRequest struct {
	Title         *string      `json:"title"`
	Content       *string      `json:"content"`
	CollectionIDs *[]uuid.UUID `json:"collection_ids"`
}

type cardService struct {
	cardRepo       repository.CardRepository
	collectionRepo repository.CollectionRepository
}

// NewCardService creates a new card service.
func NewCardService(cardRepo repository.CardRepository, collectionRepo repository.CollectionRepository) CardService {
	return &cardService{
		cardRepo:       cardRepo,
		collectionRepo: collectionRepo,
	}
}

// List returns a page of the user's cards with collections loaded.
func (s *cardService) List(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]*models.Card, error) {
	skip, limit = normalizePage(skip, limit)
	cards, err := s.cardRepo.ListByOwner(ctx, ownerID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	if cards == nil {
		cards = []*models.Card{}
	}
	return cards, nil
}

// Get returns the card if the requester owns it.
func (s *cardService) Get(ctx context.Context, requesterID, cardID uuid.UUID) (*models.Card, error) {
	return s.getOwned(ctx, requesterID, cardID)
}

// Create creates a card, linking any requested collections that resolve to
// collections owned by the creator. Identifiers that don't resolve, or
// resolve to someone else's collection, are dropped without error.
func (s *cardService) Create(ctx context.Context, ownerID uuid.UUID, req CreateCardRequest) (*models.Card, error) {
	card := &models.Card{
		Title:   req.Title,
		Content: req.Content,
		OwnerID: ownerID,
	}
	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	if len(req.CollectionIDs) > 0 {
		owned, err := s.collectionRepo.ListOwnedByIDs(ctx, ownerID, req.CollectionIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve collections: %w", err)
		}
		if len(owned) > 0 {
			link := make([]uuid.UUID, len(owned))
			for i, col := range owned {
				link[i] = col.ID
			}
			if err := s.cardRepo.UpdateCollections(ctx, card.ID, link, nil); err != nil {
				return nil, fmt.Errorf("failed to link collections: %w", err)
			}
		}
	}

	return s.reload(ctx, card.ID)
}

// Update applies a partial update and reconciles collection links when a
// replacement set is supplied.
//
// Unlike Create, requested identifiers here are resolved for existence
// only, with no ownership check. That asymmetry comes from the upstream
// behavior this service preserves.
func (s *cardService) Update(ctx context.Context, requesterID, cardID uuid.UUID, req UpdateCardRequest) (*models.Card, error) {
	card, err := s.getOwned(ctx, requesterID, cardID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		card.Title = *req.Title
	}
	if req.Content != nil {
		card.Content = *req.Content
	}
	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	if req.CollectionIDs != nil {
		resolved, err := s.collectionRepo.ListByIDs(ctx, *req.CollectionIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve collections: %w", err)
		}
		requested := make([]uuid.UUID, len(resolved))
		for i, col := range resolved {
			requested[i] = col.ID
		}

		add, remove := diffLinks(card.CollectionIDs(), requested)
		if err := s.cardRepo.UpdateCollections(ctx, card.ID, add, remove); err != nil {
			return nil, fmt.Errorf("failed to reconcile collections: %w", err)
		}
	}

	return s.reload(ctx, card.ID)
}

// Delete removes the card and all its collection links.
func (s *cardService) Delete(ctx context.Context, requesterID, cardID uuid.UUID) error {
	if _, err := s.getOwned(ctx, requesterID, cardID); err != nil {
		return err
	}
	if err := s.cardRepo.Delete(ctx, cardID); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	return nil
}

// getOwned loads a card, reporting NotFound before any ownership check and
// Forbidden for a non-owner regardless of how the id was obtained.
func (s *cardService) getOwned(ctx context.Context, requesterID, cardID uuid.UUID) (*models.Card, error) {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	if card == nil {
		return nil, apierrors.NewNotFoundError("Card")
	}
	if card.OwnerID != requesterID {
		return nil, apierrors.ErrForbidden
	}
	return card, nil
}

func (s *cardService) reload(ctx context.Context, cardID uuid.UUID) (*models.Card, error) {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload card: %w", err)
	}
	if card == nil {
		return nil, apierrors.NewNotFoundError("Card")
	}
	return card, nil
}

// Compile-time check to ensure cardService implements CardService.
var _ CardService = (*cardService)(nil)

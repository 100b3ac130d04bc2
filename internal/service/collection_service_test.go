package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck/internal/models"
	apierrors "github.com/flashdeck/flashdeck/internal/pkg/errors"
)

func newTestCollectionService() (CollectionService, CardService, *mockCollectionRepo) {
	store := newMemStore()
	cardRepo := &mockCardRepo{store: store}
	collectionRepo := &mockCollectionRepo{store: store}
	return NewCollectionService(collectionRepo), NewCardService(cardRepo, collectionRepo), collectionRepo
}

func boolPtr(b bool) *bool { return &b }

func TestCollectionCreate(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("defaults to private", func(t *testing.T) {
		svc, _, _ := newTestCollectionService()

		col, err := svc.Create(ctx, owner, CreateCollectionRequest{Title: "French"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if !col.IsPrivate {
			t.Error("expected collection to default to private")
		}
		if col.OwnerID != owner {
			t.Errorf("collection owned by %s, want %s", col.OwnerID, owner)
		}
	})

	t.Run("explicit visibility is honored", func(t *testing.T) {
		svc, _, _ := newTestCollectionService()

		col, err := svc.Create(ctx, owner, CreateCollectionRequest{Title: "French", IsPrivate: boolPtr(false)})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if col.IsPrivate {
			t.Error("expected a public collection")
		}
	})
}

func TestCollectionListing(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	svc, _, _ := newTestCollectionService()
	if _, err := svc.Create(ctx, owner, CreateCollectionRequest{Title: "mine private"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(ctx, owner, CreateCollectionRequest{Title: "mine public", IsPrivate: boolPtr(false)}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(ctx, other, CreateCollectionRequest{Title: "theirs public", IsPrivate: boolPtr(false)}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("public listing excludes private collections", func(t *testing.T) {
		collections, err := svc.ListPublic(ctx, 0, 100)
		if err != nil {
			t.Fatalf("ListPublic failed: %v", err)
		}
		if len(collections) != 2 {
			t.Fatalf("expected 2 public collections, got %d", len(collections))
		}
		for _, col := range collections {
			if col.IsPrivate {
				t.Errorf("private collection %q leaked into public listing", col.Title)
			}
		}
	})

	t.Run("own listing includes private collections", func(t *testing.T) {
		collections, err := svc.ListMine(ctx, owner, 0, 100)
		if err != nil {
			t.Fatalf("ListMine failed: %v", err)
		}
		if len(collections) != 2 {
			t.Errorf("expected 2 own collections, got %d", len(collections))
		}
	})

	t.Run("pagination applies", func(t *testing.T) {
		collections, err := svc.ListPublic(ctx, 1, 100)
		if err != nil {
			t.Fatalf("ListPublic failed: %v", err)
		}
		if len(collections) != 1 {
			t.Errorf("expected 1 collection after skip 1, got %d", len(collections))
		}
	})
}

func TestCollectionGet(t *testing.T) {
	ctx := context.Background()
	owner := &models.User{ID: uuid.New()}
	stranger := &models.User{ID: uuid.New()}

	t.Run("public collection readable by anyone", func(t *testing.T) {
		svc, _, _ := newTestCollectionService()
		created, _ := svc.Create(ctx, owner.ID, CreateCollectionRequest{Title: "French", IsPrivate: boolPtr(false)})

		for _, requester := range []*models.User{owner, stranger, nil} {
			got, err := svc.Get(ctx, requester, created.ID)
			if err != nil {
				t.Fatalf("Get failed for requester %v: %v", requester, err)
			}
			if got.ID != created.ID {
				t.Errorf("got collection %s, want %s", got.ID, created.ID)
			}
		}
	})

	t.Run("private collection readable only by owner", func(t *testing.T) {
		svc, _, _ := newTestCollectionService()
		created, _ := svc.Create(ctx, owner.ID, CreateCollectionRequest{Title: "Secret"})

		if _, err := svc.Get(ctx, owner, created.ID); err != nil {
			t.Fatalf("owner read failed: %v", err)
		}
		if _, err := svc.Get(ctx, stranger, created.ID); apierrors.AsAPIError(err) != apierrors.ErrForbidden {
			t.Errorf("expected forbidden for stranger, got %v", err)
		}
		if _, err := svc.Get(ctx, nil, created.ID); apierrors.AsAPIError(err) != apierrors.ErrForbidden {
			t.Errorf("expected forbidden for anonymous, got %v", err)
		}
	})

	t.Run("unknown collection is not found", func(t *testing.T) {
		svc, _, _ := newTestCollectionService()

		if _, err := svc.Get(ctx, owner, uuid.New()); apierrors.AsAPIError(err).Code != "not_found" {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("member cards come back with their own memberships", func(t *testing.T) {
		svc, cards, _ := newTestCollectionService()
		first, _ := svc.Create(ctx, owner.ID, CreateCollectionRequest{Title: "French"})
		second, _ := svc.Create(ctx, owner.ID, CreateCollectionRequest{Title: "Verbs"})
		if _, err := cards.Create(ctx, owner.ID, CreateCardRequest{
			Title: "aller", Content: "to go", CollectionIDs: []uuid.UUID{first.ID, second.ID},
		}); err != nil {
			t.Fatalf("card create failed: %v", err)
		}

		got, err := svc.Get(ctx, owner, first.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got.Cards) != 1 {
			t.Fatalf("expected 1 member card, got %d", len(got.Cards))
		}
		memberships := idSet(got.Cards[0].CollectionIDs())
		if len(memberships) != 2 || !memberships[first.ID] || !memberships[second.ID] {
			t.Errorf("expected card memberships {%s,%s}, got %v", first.ID, second.ID, got.Cards[0].CollectionIDs())
		}
	})
}

func TestCollectionUpdate(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	strPtr := func(s string) *string { return &s }

	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		svc, _, _ := newTestCollectionService()
		created, _ := svc.Create(ctx, owner, CreateCollectionRequest{
			Title:       "French",
			Description: "Basics",
			IsPrivate:   boolPtr(false),
		})

		updated, err := svc.Update(ctx, owner, created.ID, UpdateCollectionRequest{Title: strPtr("French 101")})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Title != "French 101" {
			t.Errorf("title not updated: %q", updated.Title)
		}
		if updated.Description != "Basics" {
			t.Errorf("description should be untouched, got %q", updated.Description)
		}
		if updated.IsPrivate {
			t.Error("omitted is_private must keep the current visibility")
		}
	})

	t.Run("visibility can be flipped", func(t *testing.T) {
		svc, _, _ := newTestCollectionService()
		created, _ := svc.Create(ctx, owner, CreateCollectionRequest{Title: "French"})

		updated, err := svc.Update(ctx, owner, created.ID, UpdateCollectionRequest{IsPrivate: boolPtr(false)})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.IsPrivate {
			t.Error("expected collection to become public")
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		svc, _, _ := newTestCollectionService()
		created, _ := svc.Create(ctx, owner, CreateCollectionRequest{Title: "French"})

		_, err := svc.Update(ctx, stranger, created.ID, UpdateCollectionRequest{Title: strPtr("stolen")})
		if apierrors.AsAPIError(err) != apierrors.ErrForbidden {
			t.Errorf("expected forbidden, got %v", err)
		}
	})
}

func TestCollectionDelete(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	t.Run("delete unlinks member cards but keeps them", func(t *testing.T) {
		svc, cards, _ := newTestCollectionService()
		created, _ := svc.Create(ctx, owner, CreateCollectionRequest{Title: "French"})
		card, err := cards.Create(ctx, owner, CreateCardRequest{
			Title: "aller", Content: "to go", CollectionIDs: []uuid.UUID{created.ID},
		})
		if err != nil {
			t.Fatalf("card create failed: %v", err)
		}

		if err := svc.Delete(ctx, owner, created.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		if _, err := svc.Get(ctx, &models.User{ID: owner}, created.ID); apierrors.AsAPIError(err).Code != "not_found" {
			t.Errorf("expected collection gone, got %v", err)
		}
		survivor, err := cards.Get(ctx, owner, card.ID)
		if err != nil {
			t.Fatalf("card should survive collection deletion: %v", err)
		}
		if len(survivor.Collections) != 0 {
			t.Errorf("expected card unlinked, got %v", survivor.CollectionIDs())
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		svc, _, _ := newTestCollectionService()
		created, _ := svc.Create(ctx, owner, CreateCollectionRequest{Title: "French"})

		if err := svc.Delete(ctx, stranger, created.ID); apierrors.AsAPIError(err) != apierrors.ErrForbidden {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("unknown collection is not found", func(t *testing.T) {
		svc, _, _ := newTestCollectionService()

		if err := svc.Delete(ctx, owner, uuid.New()); apierrors.AsAPIError(err).Code != "not_found" {
			t.Errorf("expected not found, got %v", err)
		}
	})
}

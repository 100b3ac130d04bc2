package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// TestFlashcardLifecycle walks the whole happy path through the real
// services against the in-memory store: account, login, collection, a
// linked card, and collection deletion leaving the card unlinked.
func TestFlashcardLifecycle(t *testing.T) {
	ctx := context.Background()

	store := newMemStore()
	cardRepo := &mockCardRepo{store: store}
	collectionRepo := &mockCollectionRepo{store: store}
	cards := NewCardService(cardRepo, collectionRepo)
	collections := NewCollectionService(collectionRepo)

	auth, _, _ := newTestAuthService()

	user := register(t, auth, "alice@example.com", "secret password")
	issued, err := auth.Login(ctx, "alice@example.com", "secret password")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	resolved, err := auth.Authenticate(ctx, issued.Token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("token resolved to %s, want %s", resolved.ID, user.ID)
	}

	collection, err := collections.Create(ctx, resolved.ID, CreateCollectionRequest{Title: "French"})
	if err != nil {
		t.Fatalf("collection create failed: %v", err)
	}

	card, err := cards.Create(ctx, resolved.ID, CreateCardRequest{
		Title:         "aller",
		Content:       "to go",
		CollectionIDs: []uuid.UUID{collection.ID},
	})
	if err != nil {
		t.Fatalf("card create failed: %v", err)
	}

	got, err := cards.Get(ctx, resolved.ID, card.ID)
	if err != nil {
		t.Fatalf("card read failed: %v", err)
	}
	if len(got.Collections) != 1 || got.Collections[0].ID != collection.ID {
		t.Fatalf("expected card linked to %s, got %v", collection.ID, got.CollectionIDs())
	}

	if err := collections.Delete(ctx, resolved.ID, collection.ID); err != nil {
		t.Fatalf("collection delete failed: %v", err)
	}

	got, err = cards.Get(ctx, resolved.ID, card.ID)
	if err != nil {
		t.Fatalf("card should survive collection deletion: %v", err)
	}
	if len(got.Collections) != 0 {
		t.Fatalf("expected card unlinked after collection deletion, got %v", got.CollectionIDs())
	}
}

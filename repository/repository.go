// Package repository implements the entity operations over the storage
// port: folder/deck/card CRUD, the referential checks between them, and
// the denormalized card_count bookkeeping.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/studycards/api/models"
	"github.com/studycards/api/storage"
)

// Repository validates inputs, enforces the data invariants and delegates
// persistence to the storage port.
//
// card_count is maintained with a recompute-on-write policy: after every
// card insert or delete the owning deck's count is recounted from the
// cards collection and written back. Concurrent card mutations on the same
// deck can race between the write and the recount; the count is a cache
// and the next mutation repairs it.
type Repository struct {
	store storage.Store
	log   zerolog.Logger
}

func New(store storage.Store, log zerolog.Logger) *Repository {
	return &Repository{store: store, log: log}
}

// wrapStoreErr translates storage errors at the repository boundary:
// storage.ErrNotFound becomes the domain not-found, anything else is
// logged and reported as a generic storage failure.
func (r *Repository) wrapStoreErr(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	r.log.Error().Err(err).Str("op", op).Msg("storage operation failed")
	return fmt.Errorf("%s: %w", op, ErrStorage)
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// Folders

func (r *Repository) ListFolders(ctx context.Context) ([]models.Folder, error) {
	folders, err := r.store.ListFolders(ctx)
	if err != nil {
		return nil, r.wrapStoreErr("list folders", err)
	}
	return folders, nil
}

func (r *Repository) CreateFolder(ctx context.Context, in CreateFolderInput) (*models.Folder, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	folder, err := r.store.InsertFolder(ctx, models.Folder{Name: in.Name})
	if err != nil {
		return nil, r.wrapStoreErr("create folder", err)
	}
	return folder, nil
}

// DeleteFolder refuses to delete a folder that still owns decks; the
// caller has to delete or move them first.
func (r *Repository) DeleteFolder(ctx context.Context, id string) error {
	decks, err := r.store.CountDecksInFolder(ctx, id)
	if err != nil {
		return r.wrapStoreErr("count decks in folder", err)
	}
	if decks > 0 {
		return fmt.Errorf("%w: cannot delete folder with decks", ErrConflict)
	}
	found, err := r.store.DeleteFolder(ctx, id)
	if err != nil {
		return r.wrapStoreErr("delete folder", err)
	}
	if !found {
		return fmt.Errorf("folder: %w", ErrNotFound)
	}
	return nil
}

// Decks

func (r *Repository) ListDecks(ctx context.Context, folderID string) ([]models.Deck, error) {
	decks, err := r.store.ListDecks(ctx, folderID)
	if err != nil {
		return nil, r.wrapStoreErr("list decks", err)
	}
	return decks, nil
}

func (r *Repository) GetDeck(ctx context.Context, id string) (*models.Deck, error) {
	deck, err := r.store.GetDeck(ctx, id)
	if err != nil {
		return nil, r.wrapStoreErr("get deck", err)
	}
	return deck, nil
}

func (r *Repository) CreateDeck(ctx context.Context, in CreateDeckInput) (*models.Deck, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	// folder_id must reference an existing folder. A dangling reference is
	// an invalid field value, not a missing addressed entity, so it maps
	// to a validation error rather than a 404.
	if _, err := r.store.GetFolder(ctx, in.FolderID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: folder_id does not reference an existing folder", ErrValidation)
		}
		return nil, r.wrapStoreErr("get folder", err)
	}

	color := in.Color
	if color == "" {
		color = models.DefaultDeckColor
	}
	deck, err := r.store.InsertDeck(ctx, models.Deck{
		Name:        in.Name,
		Description: in.Description,
		FolderID:    in.FolderID,
		Color:       color,
		CardCount:   0,
	})
	if err != nil {
		return nil, r.wrapStoreErr("create deck", err)
	}
	return deck, nil
}

func (r *Repository) UpdateDeck(ctx context.Context, id string, in UpdateDeckInput) (*models.Deck, error) {
	deck, err := r.store.UpdateDeck(ctx, id, storage.DeckUpdate{
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
	})
	if err != nil {
		return nil, r.wrapStoreErr("update deck", err)
	}
	return deck, nil
}

// DeleteDeck cascades: the deck's cards are removed first, then the deck
// itself, so the count invariant never sees orphaned cards.
func (r *Repository) DeleteDeck(ctx context.Context, id string) error {
	if _, err := r.store.GetDeck(ctx, id); err != nil {
		return r.wrapStoreErr("get deck", err)
	}
	if err := r.store.DeleteCardsInDeck(ctx, id); err != nil {
		return r.wrapStoreErr("delete cards in deck", err)
	}
	found, err := r.store.DeleteDeck(ctx, id)
	if err != nil {
		return r.wrapStoreErr("delete deck", err)
	}
	if !found {
		return fmt.Errorf("deck: %w", ErrNotFound)
	}
	return nil
}

// Cards

func (r *Repository) ListCards(ctx context.Context, deckID string) ([]models.Card, error) {
	cards, err := r.store.ListCards(ctx, deckID)
	if err != nil {
		return nil, r.wrapStoreErr("list cards", err)
	}
	return cards, nil
}

func (r *Repository) GetCard(ctx context.Context, id string) (*models.Card, error) {
	card, err := r.store.GetCard(ctx, id)
	if err != nil {
		return nil, r.wrapStoreErr("get card", err)
	}
	return card, nil
}

func (r *Repository) CreateCard(ctx context.Context, in CreateCardInput) (*models.Card, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	if _, err := r.store.GetDeck(ctx, in.DeckID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: deck_id does not reference an existing deck", ErrValidation)
		}
		return nil, r.wrapStoreErr("get deck", err)
	}

	card, err := r.store.InsertCard(ctx, models.Card{
		DeckID:     in.DeckID,
		Front:      in.Front,
		Back:       in.Back,
		Difficulty: 0,
	})
	if err != nil {
		return nil, r.wrapStoreErr("create card", err)
	}
	if err := r.refreshCardCount(ctx, card.DeckID); err != nil {
		return nil, err
	}
	return card, nil
}

// UpdateCard applies a partial update. When difficulty is provided,
// last_studied is stamped with the current time in the same write.
func (r *Repository) UpdateCard(ctx context.Context, id string, in UpdateCardInput) (*models.Card, error) {
	update := storage.CardUpdate{
		Front:      in.Front,
		Back:       in.Back,
		Difficulty: in.Difficulty,
	}
	if in.Difficulty != nil {
		now := time.Now().UTC()
		update.LastStudied = &now
	}
	card, err := r.store.UpdateCard(ctx, id, update)
	if err != nil {
		return nil, r.wrapStoreErr("update card", err)
	}
	return card, nil
}

func (r *Repository) DeleteCard(ctx context.Context, id string) error {
	card, err := r.store.GetCard(ctx, id)
	if err != nil {
		return r.wrapStoreErr("get card", err)
	}
	found, err := r.store.DeleteCard(ctx, id)
	if err != nil {
		return r.wrapStoreErr("delete card", err)
	}
	if !found {
		return fmt.Errorf("card: %w", ErrNotFound)
	}
	return r.refreshCardCount(ctx, card.DeckID)
}

// refreshCardCount recounts a deck's cards and writes the result back. A
// deck deleted between the triggering write and the recount is not an
// error; there is simply nothing left to update.
func (r *Repository) refreshCardCount(ctx context.Context, deckID string) error {
	n, err := r.store.CountCardsInDeck(ctx, deckID)
	if err != nil {
		return r.wrapStoreErr("count cards in deck", err)
	}
	if err := r.store.SetDeckCardCount(ctx, deckID, n); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return r.wrapStoreErr("set deck card count", err)
	}
	return nil
}

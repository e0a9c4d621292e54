// Package storage defines the persistence contract the rest of the API is
// written against, plus its two implementations: a MongoDB-backed store and
// an in-memory store used when Mongo cannot be reached at startup.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/studycards/api/models"
)

// ErrNotFound is returned by Get* methods when no document matches the id.
// Callers translate it into their own not-found handling; the store never
// distinguishes "bad id format" from "absent document".
var ErrNotFound = errors.New("storage: document not found")

// DeckUpdate carries a partial deck update. Nil fields are left untouched.
type DeckUpdate struct {
	Name        *string
	Description *string
	Color       *string
}

// CardUpdate carries a partial card update. Nil fields are left untouched.
// LastStudied travels together with Difficulty so both land in one write.
type CardUpdate struct {
	Front       *string
	Back        *string
	Difficulty  *int
	LastStudied *time.Time
}

type FolderStore interface {
	ListFolders(ctx context.Context) ([]models.Folder, error)
	GetFolder(ctx context.Context, id string) (*models.Folder, error)
	InsertFolder(ctx context.Context, folder models.Folder) (*models.Folder, error)
	// DeleteFolder reports whether a folder was removed.
	DeleteFolder(ctx context.Context, id string) (bool, error)
}

type DeckStore interface {
	// ListDecks returns all decks, or only those owned by folderID when
	// folderID is non-empty.
	ListDecks(ctx context.Context, folderID string) ([]models.Deck, error)
	GetDeck(ctx context.Context, id string) (*models.Deck, error)
	InsertDeck(ctx context.Context, deck models.Deck) (*models.Deck, error)
	UpdateDeck(ctx context.Context, id string, update DeckUpdate) (*models.Deck, error)
	DeleteDeck(ctx context.Context, id string) (bool, error)
	CountDecksInFolder(ctx context.Context, folderID string) (int64, error)
	// SetDeckCardCount writes a freshly recomputed card_count back to a deck.
	SetDeckCardCount(ctx context.Context, id string, count int64) error
}

type CardStore interface {
	// ListCards returns all cards, or only those in deckID when deckID is
	// non-empty.
	ListCards(ctx context.Context, deckID string) ([]models.Card, error)
	GetCard(ctx context.Context, id string) (*models.Card, error)
	InsertCard(ctx context.Context, card models.Card) (*models.Card, error)
	UpdateCard(ctx context.Context, id string, update CardUpdate) (*models.Card, error)
	DeleteCard(ctx context.Context, id string) (bool, error)
	DeleteCardsInDeck(ctx context.Context, deckID string) error
	CountCardsInDeck(ctx context.Context, deckID string) (int64, error)
}

// Searcher matches decks on name/description and cards on front/back.
// Implementations must be case-insensitive and return results in a
// deterministic order for a fixed dataset.
type Searcher interface {
	SearchDecks(ctx context.Context, query string) ([]models.Deck, error)
	SearchCards(ctx context.Context, query string) ([]models.Card, error)
}

// Store is the full storage port. It is chosen once at process startup and
// never swapped afterwards.
type Store interface {
	FolderStore
	DeckStore
	CardStore
	Searcher
}

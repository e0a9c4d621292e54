package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/studycards/api/models"
)

// MemoryStore is the volatile fallback implementation of Store. Entities
// live in insertion-ordered slices, which makes listing and search order
// deterministic for a fixed dataset. State does not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	folders []models.Folder
	decks   []models.Deck
	cards   []models.Card
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewSeededMemoryStore returns a memory store pre-loaded with the example
// dataset. Seeding an empty memory store cannot fail.
func NewSeededMemoryStore() *MemoryStore {
	s := NewMemoryStore()
	_ = Seed(context.Background(), s)
	return s
}

func newID() string {
	id, err := gonanoid.New()
	if err != nil {
		// gonanoid only fails if the OS entropy source is broken.
		panic(err)
	}
	return id
}

// Folders

func (s *MemoryStore) ListFolders(ctx context.Context) ([]models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Folder, len(s.folders))
	copy(out, s.folders)
	return out, nil
}

func (s *MemoryStore) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.folders {
		if f.ID == id {
			folder := f
			return &folder, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) InsertFolder(ctx context.Context, folder models.Folder) (*models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	folder.ID = newID()
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = time.Now().UTC()
	}
	s.folders = append(s.folders, folder)
	return &folder, nil
}

func (s *MemoryStore) DeleteFolder(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.folders {
		if f.ID == id {
			s.folders = append(s.folders[:i], s.folders[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Decks

func (s *MemoryStore) ListDecks(ctx context.Context, folderID string) ([]models.Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Deck, 0, len(s.decks))
	for _, d := range s.decks {
		if folderID == "" || d.FolderID == folderID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *MemoryStore) GetDeck(ctx context.Context, id string) (*models.Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.decks {
		if d.ID == id {
			deck := d
			return &deck, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) InsertDeck(ctx context.Context, deck models.Deck) (*models.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deck.ID = newID()
	if deck.CreatedAt.IsZero() {
		deck.CreatedAt = time.Now().UTC()
	}
	s.decks = append(s.decks, deck)
	return &deck, nil
}

func (s *MemoryStore) UpdateDeck(ctx context.Context, id string, update DeckUpdate) (*models.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.decks {
		if s.decks[i].ID != id {
			continue
		}
		if update.Name != nil {
			s.decks[i].Name = *update.Name
		}
		if update.Description != nil {
			s.decks[i].Description = *update.Description
		}
		if update.Color != nil {
			s.decks[i].Color = *update.Color
		}
		deck := s.decks[i]
		return &deck, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) DeleteDeck(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.decks {
		if d.ID == id {
			s.decks = append(s.decks[:i], s.decks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) CountDecksInFolder(ctx context.Context, folderID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, d := range s.decks {
		if d.FolderID == folderID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) SetDeckCardCount(ctx context.Context, id string, count int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.decks {
		if s.decks[i].ID == id {
			s.decks[i].CardCount = int(count)
			return nil
		}
	}
	return ErrNotFound
}

// Cards

func (s *MemoryStore) ListCards(ctx context.Context, deckID string) ([]models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Card, 0, len(s.cards))
	for _, c := range s.cards {
		if deckID == "" || c.DeckID == deckID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *MemoryStore) GetCard(ctx context.Context, id string) (*models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.cards {
		if c.ID == id {
			card := c
			return &card, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) InsertCard(ctx context.Context, card models.Card) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	card.ID = newID()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}
	s.cards = append(s.cards, card)
	return &card, nil
}

func (s *MemoryStore) UpdateCard(ctx context.Context, id string, update CardUpdate) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cards {
		if s.cards[i].ID != id {
			continue
		}
		if update.Front != nil {
			s.cards[i].Front = *update.Front
		}
		if update.Back != nil {
			s.cards[i].Back = *update.Back
		}
		if update.Difficulty != nil {
			s.cards[i].Difficulty = *update.Difficulty
		}
		if update.LastStudied != nil {
			s.cards[i].LastStudied = update.LastStudied
		}
		card := s.cards[i]
		return &card, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) DeleteCard(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.cards {
		if c.ID == id {
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) DeleteCardsInDeck(ctx context.Context, deckID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.cards[:0]
	for _, c := range s.cards {
		if c.DeckID != deckID {
			kept = append(kept, c)
		}
	}
	s.cards = kept
	return nil
}

func (s *MemoryStore) CountCardsInDeck(ctx context.Context, deckID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, c := range s.cards {
		if c.DeckID == deckID {
			n++
		}
	}
	return n, nil
}

// Search

func (s *MemoryStore) SearchDecks(ctx context.Context, query string) ([]models.Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(query)
	out := make([]models.Deck, 0)
	for _, d := range s.decks {
		if strings.Contains(strings.ToLower(d.Name), q) ||
			strings.Contains(strings.ToLower(d.Description), q) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *MemoryStore) SearchCards(ctx context.Context, query string) ([]models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(query)
	out := make([]models.Card, 0)
	for _, c := range s.cards {
		if strings.Contains(strings.ToLower(c.Front), q) ||
			strings.Contains(strings.ToLower(c.Back), q) {
			out = append(out, c)
		}
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)

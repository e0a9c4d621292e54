package models

import "time"

// DefaultDeckColor is assigned when a deck is created without a color.
const DefaultDeckColor = "#E3F2FD"

// Deck is a named collection of cards belonging to one folder.
//
// CardCount is a denormalized cache of the number of cards whose DeckID
// points at this deck. It is recomputed from the cards collection after
// every card insert or delete that touches the deck.
type Deck struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	FolderID    string    `json:"folder_id"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	CardCount   int       `json:"card_count"`
}

package models

import "time"

// Folder is a top-level grouping of decks. A folder cannot be deleted
// while it still owns decks.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

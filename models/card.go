package models

import "time"

// Card is a front/back study item belonging to one deck.
//
// LastStudied is nil until the first difficulty update; it is set to the
// update time whenever Difficulty changes.
type Card struct {
	ID          string     `json:"id"`
	DeckID      string     `json:"deck_id"`
	Front       string     `json:"front"`
	Back        string     `json:"back"`
	CreatedAt   time.Time  `json:"created_at"`
	LastStudied *time.Time `json:"last_studied"`
	Difficulty  int        `json:"difficulty"`
}

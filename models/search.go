package models

// SearchResult is the combined payload returned by content search.
// Both slices are always non-nil so empty results encode as [].
type SearchResult struct {
	Decks []Deck `json:"decks"`
	Cards []Card `json:"cards"`
}

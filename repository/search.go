package repository

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/studycards/api/models"
	"github.com/studycards/api/storage"
)

// SearchService matches decks on name/description and cards on front/back.
// The storage implementation decides the strategy: Mongo tries the text
// indexes and falls back to a case-insensitive regex scan when no text
// index exists; the memory store does a substring scan. Both return the
// same shape.
type SearchService struct {
	store storage.Searcher
	log   zerolog.Logger
}

func NewSearchService(store storage.Searcher, log zerolog.Logger) *SearchService {
	return &SearchService{store: store, log: log}
}

// Search returns the decks and cards matching query. An empty or
// whitespace-only query yields an empty result without touching storage.
func (s *SearchService) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	result := &models.SearchResult{
		Decks: []models.Deck{},
		Cards: []models.Card{},
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return result, nil
	}

	decks, err := s.store.SearchDecks(ctx, query)
	if err != nil {
		s.log.Error().Err(err).Str("query", query).Msg("deck search failed")
		return nil, ErrStorage
	}
	cards, err := s.store.SearchCards(ctx, query)
	if err != nil {
		s.log.Error().Err(err).Str("query", query).Msg("card search failed")
		return nil, ErrStorage
	}

	if decks != nil {
		result.Decks = decks
	}
	if cards != nil {
		result.Cards = cards
	}
	return result, nil
}

package repository

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studycards/api/models"
	"github.com/studycards/api/storage"
)

// untouchableSearcher fails the test if any search reaches storage.
type untouchableSearcher struct {
	t *testing.T
}

func (s *untouchableSearcher) SearchDecks(ctx context.Context, query string) ([]models.Deck, error) {
	s.t.Fatalf("SearchDecks called with %q", query)
	return nil, nil
}

func (s *untouchableSearcher) SearchCards(ctx context.Context, query string) ([]models.Card, error) {
	s.t.Fatalf("SearchCards called with %q", query)
	return nil, nil
}

func TestSearchEmptyQuerySkipsStorage(t *testing.T) {
	svc := NewSearchService(&untouchableSearcher{t: t}, zerolog.Nop())

	for _, q := range []string{"", "   ", "\t"} {
		result, err := svc.Search(context.Background(), q)
		require.NoError(t, err)
		assert.NotNil(t, result.Decks)
		assert.NotNil(t, result.Cards)
		assert.Empty(t, result.Decks)
		assert.Empty(t, result.Cards)
	}
}

func TestSearchSeedDataMatriz(t *testing.T) {
	store := storage.NewSeededMemoryStore()
	svc := NewSearchService(store, zerolog.Nop())

	for _, q := range []string{"matriz", "MATRIZ"} {
		result, err := svc.Search(context.Background(), q)
		require.NoError(t, err)

		require.Len(t, result.Decks, 1, "query %q", q)
		assert.Equal(t, "Álgebra Linear", result.Decks[0].Name)

		require.Len(t, result.Cards, 1, "query %q", q)
		assert.Contains(t, result.Cards[0].Front, "matriz")
	}
}

func TestSearchNoMatches(t *testing.T) {
	store := storage.NewSeededMemoryStore()
	svc := NewSearchService(store, zerolog.Nop())

	result, err := svc.Search(context.Background(), "quantum chromodynamics")
	require.NoError(t, err)
	assert.Empty(t, result.Decks)
	assert.Empty(t, result.Cards)
}

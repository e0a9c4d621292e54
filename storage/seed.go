package storage

import (
	"context"
	"fmt"

	"github.com/studycards/api/models"
)

// Seed loads the example dataset through the storage port: two folders, a
// deck in each, and a handful of cards. After the inserts every deck's
// card_count is recounted so the seeded data already satisfies the counter
// invariant.
func Seed(ctx context.Context, s Store) error {
	folders := []models.Folder{
		{Name: "Programação"},
		{Name: "Matemática"},
	}

	folderIDs := make([]string, 0, len(folders))
	for _, f := range folders {
		inserted, err := s.InsertFolder(ctx, f)
		if err != nil {
			return fmt.Errorf("seed folder %q: %w", f.Name, err)
		}
		folderIDs = append(folderIDs, inserted.ID)
	}

	decks := []models.Deck{
		{
			Name:        "JavaScript Básico",
			Description: "Conceitos fundamentais do JavaScript",
			FolderID:    folderIDs[0],
			Color:       models.DefaultDeckColor,
		},
		{
			Name:        "Álgebra Linear",
			Description: "Matrizes e vetores",
			FolderID:    folderIDs[1],
			Color:       "#F3E5F5",
		},
	}

	deckIDs := make([]string, 0, len(decks))
	for _, d := range decks {
		inserted, err := s.InsertDeck(ctx, d)
		if err != nil {
			return fmt.Errorf("seed deck %q: %w", d.Name, err)
		}
		deckIDs = append(deckIDs, inserted.ID)
	}

	cards := []models.Card{
		{
			DeckID: deckIDs[0],
			Front:  "O que é uma variável em JavaScript?",
			Back:   "Uma variável é um container que armazena dados. Pode ser declarada com var, let ou const.",
		},
		{
			DeckID: deckIDs[0],
			Front:  "Qual a diferença entre let e const?",
			Back:   "let permite reatribuição de valor, const não permite. Ambas têm escopo de bloco.",
		},
		{
			DeckID: deckIDs[1],
			Front:  "O que é uma matriz identidade?",
			Back:   "É uma matriz quadrada onde os elementos da diagonal principal são 1 e os demais são 0.",
		},
	}

	for _, c := range cards {
		if _, err := s.InsertCard(ctx, c); err != nil {
			return fmt.Errorf("seed card %q: %w", c.Front, err)
		}
	}

	for _, id := range deckIDs {
		n, err := s.CountCardsInDeck(ctx, id)
		if err != nil {
			return fmt.Errorf("seed recount deck %s: %w", id, err)
		}
		if err := s.SetDeckCardCount(ctx, id, n); err != nil {
			return fmt.Errorf("seed card_count deck %s: %w", id, err)
		}
	}

	return nil
}

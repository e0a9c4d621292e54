package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studycards/api/models"
	"github.com/studycards/api/repository"
	"github.com/studycards/api/storage"
)

func newTestMux(t *testing.T, store storage.Store) *http.ServeMux {
	t.Helper()
	repo := repository.New(store, zerolog.Nop())
	search := repository.NewSearchService(store, zerolog.Nop())
	return Router(New(repo, search))
}

func do(t *testing.T, mux *http.ServeMux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestFolderRoutes(t *testing.T) {
	mux := newTestMux(t, storage.NewMemoryStore())

	rec := do(t, mux, http.MethodPost, "/api/folders", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodPost, "/api/folders", map[string]string{"name": "Math"})
	require.Equal(t, http.StatusCreated, rec.Code)
	folder := decode[models.Folder](t, rec)
	assert.NotEmpty(t, folder.ID)
	assert.Equal(t, "Math", folder.Name)

	rec = do(t, mux, http.MethodGet, "/api/folders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	folders := decode[[]models.Folder](t, rec)
	assert.Len(t, folders, 1)

	rec = do(t, mux, http.MethodDelete, "/api/folders/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, mux, http.MethodDelete, "/api/folders/"+folder.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteFolderWithDecksIsRejected(t *testing.T) {
	mux := newTestMux(t, storage.NewMemoryStore())

	folder := decode[models.Folder](t, do(t, mux, http.MethodPost, "/api/folders", map[string]string{"name": "Math"}))
	deck := decode[models.Deck](t, do(t, mux, http.MethodPost, "/api/decks",
		map[string]string{"name": "Algebra", "folder_id": folder.ID}))

	rec := do(t, mux, http.MethodDelete, "/api/folders/"+folder.ID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Contains(t, body["error"], "decks")

	rec = do(t, mux, http.MethodDelete, "/api/decks/"+deck.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, mux, http.MethodDelete, "/api/folders/"+folder.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeckRoutes(t *testing.T) {
	mux := newTestMux(t, storage.NewMemoryStore())

	folder := decode[models.Folder](t, do(t, mux, http.MethodPost, "/api/folders", map[string]string{"name": "Math"}))

	rec := do(t, mux, http.MethodPost, "/api/decks", map[string]string{"name": "NoFolder"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodPost, "/api/decks", map[string]string{"name": "Algebra", "folder_id": folder.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	deck := decode[models.Deck](t, rec)
	assert.Equal(t, models.DefaultDeckColor, deck.Color)
	assert.Equal(t, 0, deck.CardCount)

	rec = do(t, mux, http.MethodGet, "/api/decks/"+deck.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/decks/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/decks?folder_id="+folder.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decks := decode[[]models.Deck](t, rec)
	assert.Len(t, decks, 1)

	rec = do(t, mux, http.MethodPut, "/api/decks/"+deck.ID, map[string]string{"description": "matrices"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.Deck](t, rec)
	assert.Equal(t, "Algebra", updated.Name)
	assert.Equal(t, "matrices", updated.Description)

	rec = do(t, mux, http.MethodPut, "/api/decks/missing", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCardRoutesAndCardCount(t *testing.T) {
	mux := newTestMux(t, storage.NewMemoryStore())

	folder := decode[models.Folder](t, do(t, mux, http.MethodPost, "/api/folders", map[string]string{"name": "Math"}))
	deck := decode[models.Deck](t, do(t, mux, http.MethodPost, "/api/decks",
		map[string]string{"name": "Algebra", "folder_id": folder.ID}))

	rec := do(t, mux, http.MethodPost, "/api/cards", map[string]string{"deck_id": deck.ID, "front": "2+2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodPost, "/api/cards", map[string]string{"deck_id": deck.ID, "front": "2+2", "back": "4"})
	require.Equal(t, http.StatusCreated, rec.Code)
	card := decode[models.Card](t, rec)
	assert.Equal(t, 0, card.Difficulty)
	assert.Nil(t, card.LastStudied)

	deckAfter := decode[models.Deck](t, do(t, mux, http.MethodGet, "/api/decks/"+deck.ID, nil))
	assert.Equal(t, 1, deckAfter.CardCount)

	rec = do(t, mux, http.MethodPut, "/api/cards/"+card.ID, map[string]int{"difficulty": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	studied := decode[models.Card](t, rec)
	assert.Equal(t, 3, studied.Difficulty)
	assert.NotNil(t, studied.LastStudied)

	rec = do(t, mux, http.MethodPut, "/api/cards/missing", map[string]string{"front": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, mux, http.MethodDelete, "/api/cards/"+card.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	deckAfter = decode[models.Deck](t, do(t, mux, http.MethodGet, "/api/decks/"+deck.ID, nil))
	assert.Equal(t, 0, deckAfter.CardCount)

	rec = do(t, mux, http.MethodDelete, "/api/cards/"+card.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchRoute(t *testing.T) {
	mux := newTestMux(t, storage.NewSeededMemoryStore())

	rec := do(t, mux, http.MethodGet, "/api/search?q=", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decode[models.SearchResult](t, rec)
	assert.Empty(t, empty.Decks)
	assert.Empty(t, empty.Cards)
	assert.Contains(t, rec.Body.String(), `"decks":[]`)

	rec = do(t, mux, http.MethodGet, "/api/search?q=matriz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[models.SearchResult](t, rec)
	require.Len(t, result.Decks, 1)
	assert.Equal(t, "Álgebra Linear", result.Decks[0].Name)
	require.Len(t, result.Cards, 1)
}

func TestInvalidJSONBody(t *testing.T) {
	mux := newTestMux(t, storage.NewMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/api/folders", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEndpointsReturnJSONArrays(t *testing.T) {
	mux := newTestMux(t, storage.NewMemoryStore())

	for _, path := range []string{"/api/decks", "/api/cards"} {
		rec := do(t, mux, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "[]\n", rec.Body.String(), fmt.Sprintf("%s should encode an empty array", path))
	}
}

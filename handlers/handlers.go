// Package handlers exposes the repository and search service over the
// JSON API described in the route table: folders, decks, cards and search
// under /api.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/studycards/api/repository"
)

// Handler carries the two collaborators every route needs.
type Handler struct {
	repo   *repository.Repository
	search *repository.SearchService
}

func New(repo *repository.Repository, search *repository.SearchService) *Handler {
	return &Handler{repo: repo, search: search}
}

// Router wires the route table onto a fresh mux so tests can exercise the
// exact routes the server runs.
func Router(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/folders", h.ListFolders)
	mux.HandleFunc("POST /api/folders", h.CreateFolder)
	mux.HandleFunc("DELETE /api/folders/{folderID}", h.DeleteFolder)

	mux.HandleFunc("GET /api/decks", h.ListDecks)
	mux.HandleFunc("GET /api/decks/{deckID}", h.GetDeck)
	mux.HandleFunc("POST /api/decks", h.CreateDeck)
	mux.HandleFunc("PUT /api/decks/{deckID}", h.UpdateDeck)
	mux.HandleFunc("DELETE /api/decks/{deckID}", h.DeleteDeck)

	mux.HandleFunc("GET /api/cards", h.ListCards)
	mux.HandleFunc("GET /api/cards/{cardID}", h.GetCard)
	mux.HandleFunc("POST /api/cards", h.CreateCard)
	mux.HandleFunc("PUT /api/cards/{cardID}", h.UpdateCard)
	mux.HandleFunc("DELETE /api/cards/{cardID}", h.DeleteCard)

	mux.HandleFunc("GET /api/search", h.Search)

	return mux
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps repository errors onto the API's status codes.
// Storage failures deliberately get a generic body; the cause is already
// logged where it happened.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrConflict):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

package handlers

import (
	"net/http"

	"github.com/studycards/api/repository"
)

func (h *Handler) ListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.repo.ListDecks(r.Context(), r.URL.Query().Get("folder_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, decks)
}

func (h *Handler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := h.repo.GetDeck(r.Context(), r.PathValue("deckID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, deck)
}

func (h *Handler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var in repository.CreateDeckInput
	if !decodeBody(w, r, &in) {
		return
	}
	deck, err := h.repo.CreateDeck(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, deck)
}

func (h *Handler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	var in repository.UpdateDeckInput
	if !decodeBody(w, r, &in) {
		return
	}
	deck, err := h.repo.UpdateDeck(r.Context(), r.PathValue("deckID"), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, deck)
}

func (h *Handler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteDeck(r.Context(), r.PathValue("deckID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

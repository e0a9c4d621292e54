package handlers

import (
	"net/http"

	"github.com/studycards/api/repository"
)

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.repo.ListCards(r.Context(), r.URL.Query().Get("deck_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cards)
}

func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.repo.GetCard(r.Context(), r.PathValue("cardID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var in repository.CreateCardInput
	if !decodeBody(w, r, &in) {
		return
	}
	card, err := h.repo.CreateCard(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, card)
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	var in repository.UpdateCardInput
	if !decodeBody(w, r, &in) {
		return
	}
	card, err := h.repo.UpdateCard(r.Context(), r.PathValue("cardID"), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteCard(r.Context(), r.PathValue("cardID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

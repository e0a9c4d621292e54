package handlers

import "net/http"

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

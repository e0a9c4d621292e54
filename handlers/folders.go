package handlers

import (
	"net/http"

	"github.com/studycards/api/repository"
)

func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.repo.ListFolders(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, folders)
}

func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var in repository.CreateFolderInput
	if !decodeBody(w, r, &in) {
		return
	}
	folder, err := h.repo.CreateFolder(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, folder)
}

func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteFolder(r.Context(), r.PathValue("folderID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/retrocade/retrocade/internal/service"
)

type CapybaraHandler struct {
	capybaraService *service.CapybaraService
}

func NewCapybaraHandler(capybaraService *service.CapybaraService) *CapybaraHandler {
	return &CapybaraHandler{
		capybaraService: capybaraService,
	}
}

func (h *CapybaraHandler) List(w http.ResponseWriter, r *http.Request) {
	capybaras, err := h.capybaraService.Capybaras()
	if err != nil {
		writeInternal(w, r, "failed to list capybaras", err)
		return
	}
	writeJSON(w, http.StatusOK, capybaras)
}

func (h *CapybaraHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CapybaraInput
	if !decodeJSON(w, r, maxGameBody, &in) {
		return
	}

	capybara, err := h.capybaraService.Create(in)
	if errors.Is(err, service.ErrCapybaraInvalid) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeInternal(w, r, "failed to create capybara", err)
		return
	}
	writeJSON(w, http.StatusCreated, capybara)
}

func (h *CapybaraHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.capybaraService.Delete(r.PathValue("id"))
	if err != nil {
		writeInternal(w, r, "failed to delete capybara", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Capybara not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

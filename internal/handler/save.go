package handler

import (
	"errors"
	"net/http"

	"github.com/retrocade/retrocade/internal/repository"
	"github.com/retrocade/retrocade/internal/service"
)

type SaveHandler struct {
	saveService *service.SaveService
	maxSaveSize int64
}

func NewSaveHandler(saveService *service.SaveService, maxSaveSize int64) *SaveHandler {
	return &SaveHandler{
		saveService: saveService,
		maxSaveSize: maxSaveSize,
	}
}

func (h *SaveHandler) Latest(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameId")

	save, err := h.saveService.Latest(gameID)
	if errors.Is(err, repository.ErrSaveNotFound) {
		writeError(w, http.StatusNotFound, "Save not found")
		return
	}
	if err != nil {
		writeInternal(w, r, "failed to get save", err)
		return
	}
	writeJSON(w, http.StatusOK, save)
}

// Create stores a save state, replacing any previous one for the game
func (h *SaveHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		GameID   string `json:"gameId"`
		SaveData string `json:"saveData"`
	}
	if !decodeJSON(w, r, h.maxSaveSize, &in) {
		return
	}

	save, err := h.saveService.Create(in.GameID, in.SaveData)
	if errors.Is(err, service.ErrSaveInvalid) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeInternal(w, r, "failed to create save", err)
		return
	}
	writeJSON(w, http.StatusCreated, save)
}

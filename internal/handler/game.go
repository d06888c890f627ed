package handler

import (
	"errors"
	"net/http"

	"github.com/retrocade/retrocade/internal/repository"
	"github.com/retrocade/retrocade/internal/service"
)

// maxGameBody bounds the JSON body of a game create request
const maxGameBody = 64 << 10

type GameHandler struct {
	gameService *service.GameService
}

func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameService.Games()
	if err != nil {
		writeInternal(w, r, "failed to list games", err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.gameService.ByID(r.PathValue("id"))
	if errors.Is(err, repository.ErrGameNotFound) {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	if err != nil {
		writeInternal(w, r, "failed to get game", err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// Launch returns the emulator settings for the play page
func (h *GameHandler) Launch(w http.ResponseWriter, r *http.Request) {
	launch, err := h.gameService.Launch(r.PathValue("id"))
	if errors.Is(err, repository.ErrGameNotFound) {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	if err != nil {
		writeInternal(w, r, "failed to build launch settings", err)
		return
	}
	writeJSON(w, http.StatusOK, launch)
}

func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.GameInput
	if !decodeJSON(w, r, maxGameBody, &in) {
		return
	}

	game, err := h.gameService.Create(in)
	if errors.Is(err, service.ErrGameInvalid) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeInternal(w, r, "failed to create game", err)
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.gameService.Delete(r.PathValue("id"))
	if err != nil {
		writeInternal(w, r, "failed to delete game", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

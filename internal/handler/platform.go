package handler

import (
	"net/http"

	"github.com/retrocade/retrocade/internal/model"
)

// Platforms lists the emulator cores uploads can target
func Platforms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.Platforms)
}

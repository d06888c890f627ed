package model

import (
	"time"
)

const DefaultCore = "snes"

type Game struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Core      string    `db:"core" json:"core"`   // Emulator platform tag ("snes", "n64", ...)
	Cover     string    `db:"cover" json:"cover"` // External URL or /api/files/{id}
	Rom       string    `db:"rom" json:"rom"`     // External URL or /api/files/{id}
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// Launch holds the settings the emulator widget needs to start a game.
type Launch struct {
	Player    string `json:"player"`
	Core      string `json:"core"`
	GameURL   string `json:"gameUrl"`
	GameID    string `json:"gameId"` // Save-state key: core + "-" + rom filename
	DataPath  string `json:"dataPath"`
	LoaderURL string `json:"loaderUrl"`
}

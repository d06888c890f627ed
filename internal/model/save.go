package model

import (
	"time"
)

type SaveState struct {
	ID        string    `db:"id" json:"id"`
	GameID    string    `db:"game_id" json:"gameId"`
	SaveData  string    `db:"save_data" json:"saveData"` // base64 blob produced by the emulator
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/retrocade/retrocade/internal/model"
)

var (
	ErrSaveNotFound = errors.New("save not found")
)

type SaveRepository interface {
	// Replace stores save as the only save for its game id
	Replace(save *model.SaveState) error
	Latest(gameID string) (*model.SaveState, error)
}

type saveRepository struct {
	db *sqlx.DB
}

func NewSaveRepository(db *sqlx.DB) SaveRepository {
	return &saveRepository{db: db}
}

// Replace upserts on the unique game_id index, so concurrent writers for one
// game still leave a single row.
func (r *saveRepository) Replace(save *model.SaveState) error {
	query := `
		INSERT INTO saves (id, game_id, save_data, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (game_id) DO UPDATE SET
			id = excluded.id,
			save_data = excluded.save_data,
			created_at = excluded.created_at
	`
	_, err := r.db.Exec(query, save.ID, save.GameID, save.SaveData, save.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to replace save: %w", err)
	}
	return nil
}

func (r *saveRepository) Latest(gameID string) (*model.SaveState, error) {
	save := &model.SaveState{}
	query := `SELECT * FROM saves WHERE game_id = $1 ORDER BY created_at DESC LIMIT 1`

	err := r.db.Get(save, query, gameID)
	if err == sql.ErrNoRows {
		return nil, ErrSaveNotFound
	}

	return save, err
}

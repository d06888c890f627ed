package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/retrocade/retrocade/internal/model"
)

var (
	ErrGameNotFound = errors.New("game not found")
)

type GameRepository interface {
	Create(game *model.Game) error
	ByID(id string) (*model.Game, error)
	Games() ([]*model.Game, error)
	Delete(id string) error
}

type gameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) Create(game *model.Game) error {
	query := `INSERT INTO games (id, title, core, cover, rom, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		game.ID,
		game.Title,
		game.Core,
		game.Cover,
		game.Rom,
		game.CreatedAt,
	)

	return err
}

func (r *gameRepository) ByID(id string) (*model.Game, error) {
	game := &model.Game{}
	query := `SELECT * FROM games WHERE id = $1`

	err := r.db.Get(game, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrGameNotFound
	}

	return game, err
}

func (r *gameRepository) Games() ([]*model.Game, error) {
	games := []*model.Game{}
	query := `SELECT * FROM games ORDER BY created_at ASC`

	err := r.db.Select(&games, query)
	if err != nil {
		return nil, err
	}

	return games, nil
}

func (r *gameRepository) Delete(id string) error {
	query := `DELETE FROM games WHERE id = $1`
	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGameNotFound
	}

	return nil
}

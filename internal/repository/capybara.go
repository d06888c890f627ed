package repository

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/retrocade/retrocade/internal/model"
)

var (
	ErrCapybaraNotFound = errors.New("capybara not found")
)

type CapybaraRepository interface {
	Create(capybara *model.Capybara) error
	Capybaras() ([]*model.Capybara, error)
	Delete(id string) error
}

type capybaraRepository struct {
	db *sqlx.DB
}

func NewCapybaraRepository(db *sqlx.DB) CapybaraRepository {
	return &capybaraRepository{db: db}
}

func (r *capybaraRepository) Create(capybara *model.Capybara) error {
	query := `INSERT INTO capybaras (id, name, description, image_url, location, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		capybara.ID,
		capybara.Name,
		capybara.Description,
		capybara.ImageURL,
		capybara.Location,
		capybara.CreatedAt,
	)

	return err
}

func (r *capybaraRepository) Capybaras() ([]*model.Capybara, error) {
	capybaras := []*model.Capybara{}
	err := r.db.Select(&capybaras, `SELECT * FROM capybaras ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	return capybaras, nil
}

func (r *capybaraRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM capybaras WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCapybaraNotFound
	}
	return nil
}

package model

import (
	"time"
)

type Capybara struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	ImageURL    string    `db:"image_url" json:"imageUrl"`
	Location    *string   `db:"location" json:"location"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

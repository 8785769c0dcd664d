package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Product struct {
	ID            gocql.UUID `json:"id" db:"product_id"`
	Name          string     `json:"name" db:"name"`
	Description   string     `json:"description" db:"description"`
	Price         float64    `json:"price" db:"price"`
	Category      string     `json:"category" db:"category"`
	Stock         int        `json:"stock" db:"stock"`
	ImageURL      string     `json:"image_url" db:"image_url"`
	AverageRating float64    `json:"average_rating" db:"average_rating"`
	ReviewCount   int        `json:"review_count" db:"review_count"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

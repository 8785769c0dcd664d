package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Review struct {
	ID        gocql.UUID `json:"review_id"`
	ProductID gocql.UUID `json:"product_id"`
	UserID    gocql.UUID `json:"user_id"`
	Username  string     `json:"username"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"created_at"`
}

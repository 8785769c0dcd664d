package models

import (
	"time"

	"github.com/gocql/gocql"
)

type WishlistItem struct {
	Product Product   `json:"product"`
	AddedAt time.Time `json:"added_at"`
}

type Wishlist struct {
	UserID gocql.UUID     `json:"user_id"`
	Items  []WishlistItem `json:"items"`
}

package models

import "github.com/gocql/gocql"

// CartLine est la ligne persistée : un couple (user, product) unique
type CartLine struct {
	UserID    gocql.UUID `json:"user_id"`
	ProductID gocql.UUID `json:"product_id"`
	Quantity  int        `json:"quantity"`
}

// CartItem est la ligne enrichie renvoyée au client (jointure catalogue,
// prix courant — jamais un prix figé)
type CartItem struct {
	ProductID gocql.UUID `json:"product_id"`
	Name      string     `json:"name"`
	Price     float64    `json:"price"`
	Quantity  int        `json:"quantity"`
	ImageURL  string     `json:"image_url,omitempty"`
	Total     float64    `json:"total"`
}

type Cart struct {
	UserID gocql.UUID `json:"user_id"`
	Items  []CartItem `json:"items"`
	Total  float64    `json:"total_amount"`
}

package models

import (
	"time"

	"github.com/gocql/gocql"
)

// OrderStatus est un type fermé : toute transition passe par CanTransition.
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderShipped   OrderStatus = "Shipped"
	OrderCancelled OrderStatus = "Cancelled" // uniquement atteint par compensation
)

// CanTransition vérifie les transitions autorisées du statut commande.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	switch s {
	case OrderPending:
		return to == OrderShipped || to == OrderCancelled
	default:
		return false
	}
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderShipped, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              gocql.UUID  `json:"id"`
	UserID          gocql.UUID  `json:"user_id"`
	ShippingAddress string      `json:"shipping_address"`
	Status          OrderStatus `json:"status"`
	TotalAmount     float64     `json:"total_amount"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
}

// OrderItem est un instantané figé : le prix est celui du catalogue au moment
// de la commande et ne bouge plus jamais.
type OrderItem struct {
	ProductID gocql.UUID `json:"product_id"`
	Name      string     `json:"product_name"`
	Quantity  int        `json:"quantity"`
	Price     float64    `json:"price"`
	Total     float64    `json:"total"`
}

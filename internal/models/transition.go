package models

import (
	"time"

	"github.com/gocql/gocql"
)

// CheckoutTransition est une ligne du journal persisté de la séquence
// commande/paiement. Chaque étape écrit sa transition avant que le résultat
// ne soit visible par l'appelant.
type CheckoutTransition struct {
	OrderID   gocql.UUID `json:"order_id"`
	Seq       int        `json:"seq"`
	Step      string     `json:"step"`
	FromState string     `json:"from_state"`
	ToState   string     `json:"to_state"`
	OK        bool       `json:"ok"`
	Detail    string     `json:"detail,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

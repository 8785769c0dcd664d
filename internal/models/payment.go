package models

import (
	"time"

	"github.com/gocql/gocql"
)

type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "Pending"
	PaymentCompleted         PaymentStatus = "Completed"
	PaymentFailed            PaymentStatus = "Failed"
	PaymentRefunded          PaymentStatus = "Refunded"
	PaymentPartiallyRefunded PaymentStatus = "Partially Refunded"
)

// CanTransition vérifie les transitions autorisées du statut paiement.
// Refunded / Partially Refunded sont modélisés mais aucun chemin du code ne
// les atteint aujourd'hui.
func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	switch s {
	case PaymentPending:
		return to == PaymentCompleted || to == PaymentFailed
	case PaymentCompleted:
		return to == PaymentRefunded || to == PaymentPartiallyRefunded
	default:
		return false
	}
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded, PaymentPartiallyRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodPaypal       PaymentMethod = "paypal"
	MethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCreditCard, MethodPaypal, MethodBankTransfer:
		return true
	}
	return false
}

type Payment struct {
	ID          gocql.UUID    `json:"payment_id"`
	UserID      gocql.UUID    `json:"user_id"`
	OrderID     gocql.UUID    `json:"order_id"`
	Amount      float64       `json:"amount"`
	Method      PaymentMethod `json:"method"`
	Status      PaymentStatus `json:"status"`
	PaymentDate time.Time     `json:"payment_date"`
}

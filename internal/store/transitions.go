package store

import (
	"context"

	"github.com/gocql/gocql"

	"trendnest_backend/internal/database"
	"trendnest_backend/internal/models"
)

// ScyllaTransitions journalise chaque étape de la séquence commande/paiement.
// Clustering sur seq : relire une partition rend l'historique dans l'ordre.
type ScyllaTransitions struct {
	db *database.ScyllaManager
}

func NewScyllaTransitions(db *database.ScyllaManager) *ScyllaTransitions {
	return &ScyllaTransitions{db: db}
}

func (s *ScyllaTransitions) Append(ctx context.Context, t models.CheckoutTransition) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}
	return session.Query(`INSERT INTO checkout_transitions (order_id, seq, step, from_state, to_state, ok, detail, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.OrderID, t.Seq, t.Step, t.FromState, t.ToState, t.OK, t.Detail, t.Timestamp).
		WithContext(ctx).Exec()
}

func (s *ScyllaTransitions) ByOrder(ctx context.Context, orderID gocql.UUID) ([]models.CheckoutTransition, error) {
	session, err := s.db.Session()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT order_id, seq, step, from_state, to_state, ok, detail, created_at FROM checkout_transitions WHERE order_id = ?`, orderID).
		WithContext(ctx).Iter()

	var transitions []models.CheckoutTransition
	var t models.CheckoutTransition
	for iter.Scan(&t.OrderID, &t.Seq, &t.Step, &t.FromState, &t.ToState, &t.OK, &t.Detail, &t.Timestamp) {
		transitions = append(transitions, t)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return transitions, nil
}

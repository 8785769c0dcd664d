package store

import (
	"context"

	"github.com/gocql/gocql"

	"trendnest_backend/internal/database"
	"trendnest_backend/internal/models"
)

// ScyllaPayments : un paiement par commande (payments_by_order est la table
// inverse, à une seule ligne par partition).
type ScyllaPayments struct {
	db *database.ScyllaManager
}

func NewScyllaPayments(db *database.ScyllaManager) *ScyllaPayments {
	return &ScyllaPayments{db: db}
}

func (s *ScyllaPayments) Create(ctx context.Context, p *models.Payment) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO payments (payment_id, user_id, order_id, amount, method, status, payment_date) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.OrderID, p.Amount, string(p.Method), string(p.Status), p.PaymentDate).
		WithContext(ctx).Exec(); err != nil {
		return err
	}

	return session.Query(`INSERT INTO payments_by_order (order_id, payment_id) VALUES (?, ?)`,
		p.OrderID, p.ID).WithContext(ctx).Exec()
}

func (s *ScyllaPayments) ByID(ctx context.Context, id gocql.UUID) (*models.Payment, error) {
	session, err := s.db.Session()
	if err != nil {
		return nil, err
	}

	p := models.Payment{}
	var method, status string
	if err := session.Query(`SELECT payment_id, user_id, order_id, amount, method, status, payment_date FROM payments WHERE payment_id = ?`, id).
		WithContext(ctx).
		Scan(&p.ID, &p.UserID, &p.OrderID, &p.Amount, &method, &status, &p.PaymentDate); err != nil {
		if err == gocql.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Method = models.PaymentMethod(method)
	p.Status = models.PaymentStatus(status)
	return &p, nil
}

func (s *ScyllaPayments) ByOrder(ctx context.Context, orderID gocql.UUID) (*models.Payment, error) {
	session, err := s.db.Session()
	if err != nil {
		return nil, err
	}

	var paymentID gocql.UUID
	if err := session.Query(`SELECT payment_id FROM payments_by_order WHERE order_id = ?`, orderID).
		WithContext(ctx).Scan(&paymentID); err != nil {
		if err == gocql.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.ByID(ctx, paymentID)
}

func (s *ScyllaPayments) UpdateStatus(ctx context.Context, id gocql.UUID, to models.PaymentStatus) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}

	var current string
	if err := session.Query(`SELECT status FROM payments WHERE payment_id = ?`, id).
		WithContext(ctx).Scan(&current); err != nil {
		if err == gocql.ErrNotFound {
			return ErrNotFound
		}
		return err
	}

	if !models.PaymentStatus(current).CanTransition(to) {
		return ErrInvalidTransition
	}

	var previous string
	applied, err := session.Query(`UPDATE payments SET status = ? WHERE payment_id = ? IF status = ?`,
		string(to), id, current).WithContext(ctx).ScanCAS(&previous)
	if err != nil {
		return err
	}
	if !applied {
		return ErrInvalidTransition
	}
	return nil
}

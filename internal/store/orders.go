package store

import (
	"context"
	"sort"

	"github.com/gocql/gocql"

	"trendnest_backend/internal/database"
	"trendnest_backend/internal/models"
)

// ScyllaOrders persiste les commandes. Les lignes (prix figés) vivent dans
// order_items, partitionnées par commande ; orders_by_user sert l'historique.
type ScyllaOrders struct {
	db *database.ScyllaManager
}

func NewScyllaOrders(db *database.ScyllaManager) *ScyllaOrders {
	return &ScyllaOrders{db: db}
}

func (s *ScyllaOrders) Create(ctx context.Context, o *models.Order) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO orders (order_id, user_id, shipping_address, status, total_amount, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, o.ShippingAddress, string(o.Status), o.TotalAmount, o.CreatedAt).
		WithContext(ctx).Exec(); err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO orders_by_user (user_id, created_at, order_id) VALUES (?, ?, ?)`,
		o.UserID, o.CreatedAt, o.ID).WithContext(ctx).Exec(); err != nil {
		return err
	}

	for _, item := range o.Items {
		if err := session.Query(`INSERT INTO order_items (order_id, product_id, product_name, quantity, price, total) VALUES (?, ?, ?, ?, ?, ?)`,
			o.ID, item.ProductID, item.Name, item.Quantity, item.Price, item.Total).
			WithContext(ctx).Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (s *ScyllaOrders) ByID(ctx context.Context, id gocql.UUID) (*models.Order, error) {
	session, err := s.db.Session()
	if err != nil {
		return nil, err
	}

	o := models.Order{}
	var status string
	if err := session.Query(`SELECT order_id, user_id, shipping_address, status, total_amount, created_at FROM orders WHERE order_id = ?`, id).
		WithContext(ctx).
		Scan(&o.ID, &o.UserID, &o.ShippingAddress, &status, &o.TotalAmount, &o.CreatedAt); err != nil {
		if err == gocql.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	o.Status = models.OrderStatus(status)

	iter := session.Query(`SELECT product_id, product_name, quantity, price, total FROM order_items WHERE order_id = ?`, id).
		WithContext(ctx).Iter()
	var item models.OrderItem
	for iter.Scan(&item.ProductID, &item.Name, &item.Quantity, &item.Price, &item.Total) {
		o.Items = append(o.Items, item)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *ScyllaOrders) ByUser(ctx context.Context, userID gocql.UUID) ([]models.Order, error) {
	session, err := s.db.Session()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT order_id FROM orders_by_user WHERE user_id = ?`, userID).
		WithContext(ctx).Iter()
	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	var orders []models.Order
	for _, id := range ids {
		o, err := s.ByID(ctx, id)
		if err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		orders = append(orders, *o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// UpdateStatus applique la transition uniquement si elle est autorisée par le
// modèle, avec un UPDATE conditionnel sur le statut courant.
func (s *ScyllaOrders) UpdateStatus(ctx context.Context, id gocql.UUID, to models.OrderStatus) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}

	var current string
	if err := session.Query(`SELECT status FROM orders WHERE order_id = ?`, id).
		WithContext(ctx).Scan(&current); err != nil {
		if err == gocql.ErrNotFound {
			return ErrNotFound
		}
		return err
	}

	if !models.OrderStatus(current).CanTransition(to) {
		return ErrInvalidTransition
	}

	var previous string
	applied, err := session.Query(`UPDATE orders SET status = ? WHERE order_id = ? IF status = ?`,
		string(to), id, current).WithContext(ctx).ScanCAS(&previous)
	if err != nil {
		return err
	}
	if !applied {
		return ErrInvalidTransition
	}
	return nil
}

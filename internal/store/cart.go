package store

import (
	"context"

	"github.com/gocql/gocql"

	"trendnest_backend/internal/database"
	"trendnest_backend/internal/models"
)

// ScyllaCarts : une ligne par couple (user, product), la clé de clustering
// garantit l'unicité — ajouter deux fois le même produit ré-écrit la ligne.
type ScyllaCarts struct {
	db *database.ScyllaManager
}

func NewScyllaCarts(db *database.ScyllaManager) *ScyllaCarts {
	return &ScyllaCarts{db: db}
}

func (s *ScyllaCarts) Lines(ctx context.Context, userID gocql.UUID) ([]models.CartLine, error) {
	session, err := s.db.Session()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT user_id, product_id, quantity FROM cart_items WHERE user_id = ?`, userID).
		WithContext(ctx).Iter()

	var lines []models.CartLine
	var l models.CartLine
	for iter.Scan(&l.UserID, &l.ProductID, &l.Quantity) {
		lines = append(lines, l)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *ScyllaCarts) Line(ctx context.Context, userID, productID gocql.UUID) (*models.CartLine, error) {
	session, err := s.db.Session()
	if err != nil {
		return nil, err
	}

	l := models.CartLine{}
	if err := session.Query(`SELECT user_id, product_id, quantity FROM cart_items WHERE user_id = ? AND product_id = ?`,
		userID, productID).WithContext(ctx).Scan(&l.UserID, &l.ProductID, &l.Quantity); err != nil {
		if err == gocql.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (s *ScyllaCarts) Upsert(ctx context.Context, line models.CartLine) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}
	return session.Query(`INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?, ?, ?)`,
		line.UserID, line.ProductID, line.Quantity).WithContext(ctx).Exec()
}

func (s *ScyllaCarts) Delete(ctx context.Context, userID, productID gocql.UUID) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}
	return session.Query(`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`,
		userID, productID).WithContext(ctx).Exec()
}

// Clear est idempotent : vider un panier déjà vide réussit.
func (s *ScyllaCarts) Clear(ctx context.Context, userID gocql.UUID) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}
	return session.Query(`DELETE FROM cart_items WHERE user_id = ?`, userID).
		WithContext(ctx).Exec()
}

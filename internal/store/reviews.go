package store

import (
	"context"

	"github.com/gocql/gocql"

	"trendnest_backend/internal/database"
	"trendnest_backend/internal/models"
)

type ScyllaReviews struct {
	db *database.ScyllaManager
}

func NewScyllaReviews(db *database.ScyllaManager) *ScyllaReviews {
	return &ScyllaReviews{db: db}
}

func (s *ScyllaReviews) Create(ctx context.Context, r *models.Review) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}
	return session.Query(`INSERT INTO reviews (product_id, user_id, review_id, username, rating, comment, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ProductID, r.UserID, r.ID, r.Username, r.Rating, r.Comment, r.CreatedAt).
		WithContext(ctx).Exec()
}

func (s *ScyllaReviews) ByProduct(ctx context.Context, productID gocql.UUID) ([]models.Review, error) {
	session, err := s.db.Session()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT product_id, user_id, review_id, username, rating, comment, created_at FROM reviews WHERE product_id = ?`, productID).
		WithContext(ctx).Iter()

	var reviews []models.Review
	var r models.Review
	for iter.Scan(&r.ProductID, &r.UserID, &r.ID, &r.Username, &r.Rating, &r.Comment, &r.CreatedAt) {
		reviews = append(reviews, r)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Exists : un seul avis par utilisateur et par produit.
func (s *ScyllaReviews) Exists(ctx context.Context, productID, userID gocql.UUID) (bool, error) {
	session, err := s.db.Session()
	if err != nil {
		return false, err
	}

	var found gocql.UUID
	if err := session.Query(`SELECT review_id FROM reviews WHERE product_id = ? AND user_id = ? LIMIT 1`,
		productID, userID).WithContext(ctx).Scan(&found); err != nil {
		if err == gocql.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

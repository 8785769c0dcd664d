package store

import (
	"context"
	"time"

	"github.com/gocql/gocql"

	"trendnest_backend/internal/database"
)

type ScyllaWishlists struct {
	db *database.ScyllaManager
}

func NewScyllaWishlists(db *database.ScyllaManager) *ScyllaWishlists {
	return &ScyllaWishlists{db: db}
}

func (s *ScyllaWishlists) Items(ctx context.Context, userID gocql.UUID) (map[gocql.UUID]time.Time, error) {
	session, err := s.db.Session()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT product_id, added_at FROM wishlist_items WHERE user_id = ?`, userID).
		WithContext(ctx).Iter()

	items := make(map[gocql.UUID]time.Time)
	var productID gocql.UUID
	var addedAt time.Time
	for iter.Scan(&productID, &addedAt) {
		items[productID] = addedAt
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ScyllaWishlists) Add(ctx context.Context, userID, productID gocql.UUID, at time.Time) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}
	return session.Query(`INSERT INTO wishlist_items (user_id, product_id, added_at) VALUES (?, ?, ?)`,
		userID, productID, at).WithContext(ctx).Exec()
}

func (s *ScyllaWishlists) Remove(ctx context.Context, userID, productID gocql.UUID) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}
	return session.Query(`DELETE FROM wishlist_items WHERE user_id = ? AND product_id = ?`,
		userID, productID).WithContext(ctx).Exec()
}

func (s *ScyllaWishlists) Contains(ctx context.Context, userID, productID gocql.UUID) (bool, error) {
	session, err := s.db.Session()
	if err != nil {
		return false, err
	}

	var at time.Time
	if err := session.Query(`SELECT added_at FROM wishlist_items WHERE user_id = ? AND product_id = ?`,
		userID, productID).WithContext(ctx).Scan(&at); err != nil {
		if err == gocql.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

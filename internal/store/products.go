package store

import (
	"context"
	"time"

	"github.com/gocql/gocql"

	"trendnest_backend/internal/database"
	"trendnest_backend/internal/models"
)

// ScyllaProducts persiste le catalogue. La table categories maintient
// l'ensemble des catégories distinctes (pas de SELECT DISTINCT efficace ici).
type ScyllaProducts struct {
	db *database.ScyllaManager
}

func NewScyllaProducts(db *database.ScyllaManager) *ScyllaProducts {
	return &ScyllaProducts{db: db}
}

const productColumns = `product_id, name, description, price, category, stock, image_url, average_rating, review_count, created_at, updated_at`

func (s *ScyllaProducts) Create(ctx context.Context, p *models.Product) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.Stock, p.ImageURL,
		p.AverageRating, p.ReviewCount, p.CreatedAt, p.UpdatedAt).
		WithContext(ctx).Exec(); err != nil {
		return err
	}

	return session.Query(`INSERT INTO categories (category) VALUES (?)`, p.Category).
		WithContext(ctx).Exec()
}

func (s *ScyllaProducts) ByID(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	session, err := s.db.Session()
	if err != nil {
		return nil, err
	}

	p := models.Product{}
	if err := session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, id).
		WithContext(ctx).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock, &p.ImageURL,
			&p.AverageRating, &p.ReviewCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == gocql.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *ScyllaProducts) All(ctx context.Context) ([]models.Product, error) {
	session, err := s.db.Session()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).WithContext(ctx).Iter()

	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock, &p.ImageURL,
		&p.AverageRating, &p.ReviewCount, &p.CreatedAt, &p.UpdatedAt) {
		products = append(products, p)
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ScyllaProducts) Categories(ctx context.Context) ([]string, error) {
	session, err := s.db.Session()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT category FROM categories`).WithContext(ctx).Iter()

	var categories []string
	var c string
	for iter.Scan(&c) {
		categories = append(categories, c)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return categories, nil
}

// DecrementStock protège contre la survente : lecture puis UPDATE conditionnel
// (IF stock = ?). Une course perdue est rejouée, trois échecs → ErrStockConflict.
func (s *ScyllaProducts) DecrementStock(ctx context.Context, id gocql.UUID, qty int) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}

	for attempt := 0; attempt < 3; attempt++ {
		var current int
		if err := session.Query(`SELECT stock FROM products WHERE product_id = ?`, id).
			WithContext(ctx).Scan(&current); err != nil {
			if err == gocql.ErrNotFound {
				return ErrNotFound
			}
			return err
		}

		if current < qty {
			return ErrInsufficientStock
		}

		var previous int
		applied, err := session.Query(`UPDATE products SET stock = ?, updated_at = ? WHERE product_id = ? IF stock = ?`,
			current-qty, time.Now(), id, current).WithContext(ctx).ScanCAS(&previous)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
		// course perdue : on relit et on retente
	}
	return ErrStockConflict
}

func (s *ScyllaProducts) RestoreStock(ctx context.Context, id gocql.UUID, qty int) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}

	for attempt := 0; attempt < 3; attempt++ {
		var current int
		if err := session.Query(`SELECT stock FROM products WHERE product_id = ?`, id).
			WithContext(ctx).Scan(&current); err != nil {
			if err == gocql.ErrNotFound {
				return ErrNotFound
			}
			return err
		}

		var previous int
		applied, err := session.Query(`UPDATE products SET stock = ?, updated_at = ? WHERE product_id = ? IF stock = ?`,
			current+qty, time.Now(), id, current).WithContext(ctx).ScanCAS(&previous)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
	}
	return ErrStockConflict
}

func (s *ScyllaProducts) UpdateRating(ctx context.Context, id gocql.UUID, average float64, count int) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}
	return session.Query(`UPDATE products SET average_rating = ?, review_count = ?, updated_at = ? WHERE product_id = ?`,
		average, count, time.Now(), id).WithContext(ctx).Exec()
}

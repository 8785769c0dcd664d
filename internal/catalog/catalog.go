// Package catalog gère le catalogue produits : création, lecture, filtrage.
package catalog

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/gocql/gocql"

	"trendnest_backend/internal/models"
	"trendnest_backend/internal/store"
)

var (
	ErrMissingName  = errors.New("le nom du produit est requis")
	ErrInvalidPrice = errors.New("le prix doit être strictement positif")
	ErrInvalidStock = errors.New("le stock ne peut pas être négatif")
)

// Indexer pousse les produits vers le moteur de recherche. nil = pas d'index.
type Indexer interface {
	IndexProduct(ctx context.Context, p models.Product) error
}

type Service struct {
	products store.ProductStore
	indexer  Indexer
}

func NewService(products store.ProductStore, indexer Indexer) *Service {
	return &Service{products: products, indexer: indexer}
}

// Query décrit un filtrage de catalogue. MinPrice/MaxPrice à nil = non bornés.
type Query struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Search   string
	SortBy   string
	Order    string
	Page     int
	Limit    int
}

// Page est une page de résultats avec ses métadonnées de pagination.
type Page struct {
	Products   []models.Product `json:"products"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// Add valide puis persiste un produit, et l'indexe en arrière-plan.
func (s *Service) Add(ctx context.Context, p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}
	if p.Price <= 0 {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}

	if p.ID == (gocql.UUID{}) {
		p.ID = gocql.TimeUUID()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.products.Create(ctx, p); err != nil {
		return err
	}

	if s.indexer != nil {
		product := *p
		go func() {
			if err := s.indexer.IndexProduct(context.Background(), product); err != nil {
				log.Println("⚠️ Indexation Elasticsearch échouée:", err)
			}
		}()
	}
	return nil
}

func (s *Service) ByID(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	return s.products.ByID(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.products.Categories(ctx)
}

// List applique filtres, tri et pagination en mémoire sur le catalogue.
func (s *Service) List(ctx context.Context, q Query) (*Page, error) {
	products, err := s.products.All(ctx)
	if err != nil {
		return nil, err
	}

	filtered := filter(products, q)
	sortProducts(filtered, q.SortBy, q.Order)

	page, limit := normalizePage(q.Page), q.Limit
	if limit < 1 {
		limit = 10
	}
	total := len(filtered)
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &Page{
		Products:   filtered[start:end],
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func filter(products []models.Product, q Query) []models.Product {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
			continue
		}
		if q.MinPrice != nil && p.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && p.Price > *q.MaxPrice {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// sortProducts trie la liste. Un champ de tri inconnu retombe silencieusement
// sur le tri par nom croissant.
func sortProducts(products []models.Product, sortBy, order string) {
	desc := strings.EqualFold(order, "desc")

	var less func(a, b models.Product) bool
	switch sortBy {
	case "price":
		less = func(a, b models.Product) bool { return a.Price < b.Price }
	case "category":
		less = func(a, b models.Product) bool { return a.Category < b.Category }
	case "name":
		less = func(a, b models.Product) bool { return a.Name < b.Name }
	default:
		less = func(a, b models.Product) bool { return a.Name < b.Name }
		desc = false
	}

	sort.SliceStable(products, func(i, j int) bool {
		if desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// ClampLimit borne la taille de page demandée par l'API entre 1 et 100.
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// Package cart gère le panier : une ligne par produit, quantités fusionnées.
package cart

import (
	"context"
	"errors"
	"log"

	"github.com/gocql/gocql"

	"trendnest_backend/internal/models"
	"trendnest_backend/internal/store"
)

var (
	ErrInvalidQuantity = errors.New("la quantité doit être au moins 1")
	ErrLineNotFound    = errors.New("ce produit n'est pas dans le panier")
)

// Broadcaster notifie les changements de panier (invalidation de cache,
// diffusion temps réel). nil = pas de notification.
type Broadcaster interface {
	CartChanged(ctx context.Context, userID gocql.UUID)
}

type Service struct {
	carts    store.CartStore
	products store.ProductStore
	notify   Broadcaster
}

func NewService(carts store.CartStore, products store.ProductStore, notify Broadcaster) *Service {
	return &Service{carts: carts, products: products, notify: notify}
}

// AddItem ajoute qty unités au panier. Si le produit y figure déjà, les
// quantités fusionnent sur la même ligne. La quantité fusionnée est vérifiée
// contre le stock courant ; en cas de dépassement le panier reste intact.
func (s *Service) AddItem(ctx context.Context, userID, productID gocql.UUID, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	product, err := s.products.ByID(ctx, productID)
	if err != nil {
		return err
	}

	merged := qty
	existing, err := s.carts.Line(ctx, userID, productID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if existing != nil {
		merged += existing.Quantity
	}

	if merged > product.Stock {
		return store.ErrInsufficientStock
	}

	if err := s.carts.Upsert(ctx, models.CartLine{UserID: userID, ProductID: productID, Quantity: merged}); err != nil {
		return err
	}
	s.changed(ctx, userID)
	return nil
}

// UpdateQuantity remplace la quantité d'une ligne existante. Le stock n'est
// pas revérifié ici : la vérification finale a lieu au checkout.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID gocql.UUID, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	if _, err := s.carts.Line(ctx, userID, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrLineNotFound
		}
		return err
	}

	if err := s.carts.Upsert(ctx, models.CartLine{UserID: userID, ProductID: productID, Quantity: qty}); err != nil {
		return err
	}
	s.changed(ctx, userID)
	return nil
}

func (s *Service) Remove(ctx context.Context, userID, productID gocql.UUID) error {
	if _, err := s.carts.Line(ctx, userID, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrLineNotFound
		}
		return err
	}
	if err := s.carts.Delete(ctx, userID, productID); err != nil {
		return err
	}
	s.changed(ctx, userID)
	return nil
}

// Clear vide le panier. Vider un panier déjà vide réussit.
func (s *Service) Clear(ctx context.Context, userID gocql.UUID) error {
	if err := s.carts.Clear(ctx, userID); err != nil {
		return err
	}
	s.changed(ctx, userID)
	return nil
}

// Get rend le panier enrichi aux prix courants du catalogue. Une ligne dont
// le produit a disparu du catalogue est ignorée.
func (s *Service) Get(ctx context.Context, userID gocql.UUID) (*models.Cart, error) {
	lines, err := s.carts.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}

	c := &models.Cart{UserID: userID, Items: []models.CartItem{}}
	for _, line := range lines {
		product, err := s.products.ByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Println("⚠️ Produit du panier absent du catalogue:", line.ProductID)
				continue
			}
			return nil, err
		}
		item := models.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			ImageURL:  product.ImageURL,
			Total:     product.Price * float64(line.Quantity),
		}
		c.Items = append(c.Items, item)
		c.Total += item.Total
	}
	return c, nil
}

func (s *Service) changed(ctx context.Context, userID gocql.UUID) {
	if s.notify != nil {
		s.notify.CartChanged(ctx, userID)
	}
}

// Package store expose les accès ScyllaDB derrière des interfaces, pour que
// les services métier et la séquence de checkout restent testables sans base.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/gocql/gocql"

	"trendnest_backend/internal/models"
)

var (
	ErrNotFound = errors.New("enregistrement introuvable")
	// ErrInsufficientStock : le stock courant ne couvre pas la quantité demandée.
	ErrInsufficientStock = errors.New("stock insuffisant")
	// ErrStockConflict : la décrémentation LWT a perdu la course trop de fois.
	ErrStockConflict = errors.New("conflit de mise à jour du stock")
	// ErrInvalidTransition : transition de statut refusée par le modèle.
	ErrInvalidTransition = errors.New("transition de statut invalide")
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByID(ctx context.Context, id gocql.UUID) (*models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
}

type ActivityStore interface {
	Record(ctx context.Context, userID gocql.UUID, action string) error
}

type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	ByID(ctx context.Context, id gocql.UUID) (*models.Product, error)
	All(ctx context.Context) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	// DecrementStock retire qty du stock via un compare-and-set LWT ;
	// jamais de stock négatif, même sous course.
	DecrementStock(ctx context.Context, id gocql.UUID, qty int) error
	// RestoreStock ré-ajoute qty (action compensatoire du checkout).
	RestoreStock(ctx context.Context, id gocql.UUID, qty int) error
	UpdateRating(ctx context.Context, id gocql.UUID, average float64, count int) error
}

type CartStore interface {
	Lines(ctx context.Context, userID gocql.UUID) ([]models.CartLine, error)
	Line(ctx context.Context, userID, productID gocql.UUID) (*models.CartLine, error)
	Upsert(ctx context.Context, line models.CartLine) error
	Delete(ctx context.Context, userID, productID gocql.UUID) error
	Clear(ctx context.Context, userID gocql.UUID) error
}

type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	ByID(ctx context.Context, id gocql.UUID) (*models.Order, error)
	ByUser(ctx context.Context, userID gocql.UUID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id gocql.UUID, to models.OrderStatus) error
}

type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	ByID(ctx context.Context, id gocql.UUID) (*models.Payment, error)
	ByOrder(ctx context.Context, orderID gocql.UUID) (*models.Payment, error)
	UpdateStatus(ctx context.Context, id gocql.UUID, to models.PaymentStatus) error
}

type ReviewStore interface {
	Create(ctx context.Context, r *models.Review) error
	ByProduct(ctx context.Context, productID gocql.UUID) ([]models.Review, error)
	Exists(ctx context.Context, productID, userID gocql.UUID) (bool, error)
}

type WishlistStore interface {
	Items(ctx context.Context, userID gocql.UUID) (map[gocql.UUID]time.Time, error)
	Add(ctx context.Context, userID, productID gocql.UUID, at time.Time) error
	Remove(ctx context.Context, userID, productID gocql.UUID) error
	Contains(ctx context.Context, userID, productID gocql.UUID) (bool, error)
}

type TransitionStore interface {
	Append(ctx context.Context, t models.CheckoutTransition) error
	ByOrder(ctx context.Context, orderID gocql.UUID) ([]models.CheckoutTransition, error)
}

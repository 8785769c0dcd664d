// Package cache pose un cache de rendu Redis devant le catalogue et le
// panier, et publie les changements de panier sur un canal pub/sub.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"

	"trendnest_backend/internal/models"
)

const (
	ProductCacheTTL = 5 * time.Minute
	CartCacheTTL    = 2 * time.Minute
)

type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// =============================================
// PRODUITS
// =============================================

func productKey(id gocql.UUID) string {
	return "product:" + id.String()
}

func (c *Cache) GetProduct(ctx context.Context, id gocql.UUID) (*models.Product, bool) {
	raw, err := c.rdb.Get(ctx, productKey(id)).Result()
	if err != nil {
		return nil, false
	}
	var p models.Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *Cache) SetProduct(ctx context.Context, p *models.Product) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, productKey(p.ID), raw, ProductCacheTTL).Err(); err != nil {
		log.Println("⚠️ Mise en cache produit échouée:", err)
	}
}

func (c *Cache) InvalidateProduct(ctx context.Context, id gocql.UUID) {
	c.rdb.Del(ctx, productKey(id))
}

// =============================================
// PANIER
// =============================================

func cartKey(userID gocql.UUID) string {
	return "cart:render:" + userID.String()
}

// CartChannel est le canal pub/sub des changements de panier d'un utilisateur.
func CartChannel(userID gocql.UUID) string {
	return "cart:" + userID.String()
}

func (c *Cache) GetCart(ctx context.Context, userID gocql.UUID) (*models.Cart, bool) {
	raw, err := c.rdb.Get(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, false
	}
	var cart models.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, false
	}
	return &cart, true
}

func (c *Cache) SetCart(ctx context.Context, cart *models.Cart) {
	raw, err := json.Marshal(cart)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cartKey(cart.UserID), raw, CartCacheTTL).Err(); err != nil {
		log.Println("⚠️ Mise en cache panier échouée:", err)
	}
}

// CartChanged invalide le rendu en cache et notifie les abonnés temps réel.
// Implémente cart.Broadcaster.
func (c *Cache) CartChanged(ctx context.Context, userID gocql.UUID) {
	c.rdb.Del(ctx, cartKey(userID))
	if err := c.rdb.Publish(ctx, CartChannel(userID), "changed").Err(); err != nil {
		log.Println("⚠️ Publication du changement de panier échouée:", err)
	}
}

// SubscribeCart ouvre un abonnement pub/sub sur le panier d'un utilisateur.
func (c *Cache) SubscribeCart(ctx context.Context, userID gocql.UUID) *redis.PubSub {
	return c.rdb.Subscribe(ctx, CartChannel(userID))
}

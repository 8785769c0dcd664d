package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"trendnest_backend/internal/auth"
	"trendnest_backend/internal/cache"
	"trendnest_backend/internal/cart"
	"trendnest_backend/internal/store"
)

type CartHandler struct {
	cart  *cart.Service
	cache *cache.Cache
}

func NewCartHandler(svc *cart.Service, cch *cache.Cache) *CartHandler {
	return &CartHandler{cart: svc, cache: cch}
}

func (h *CartHandler) Get(c *gin.Context) {
	p, _ := auth.FromContext(c)

	if h.cache != nil {
		if cached, ok := h.cache.GetCart(c.Request.Context(), p.UserID); ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	result, err := h.cart.Get(c.Request.Context(), p.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du panier"})
		return
	}

	if h.cache != nil {
		h.cache.SetCart(c.Request.Context(), result)
	}
	c.JSON(http.StatusOK, result)
}

func (h *CartHandler) Add(c *gin.Context) {
	p, _ := auth.FromContext(c)

	var input struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}
	productID, err := gocql.ParseUUID(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant produit invalide"})
		return
	}

	if err := h.cart.AddItem(c.Request.Context(), p.UserID, productID, input.Quantity); err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Produit ajouté au panier"})
}

func (h *CartHandler) Update(c *gin.Context) {
	p, _ := auth.FromContext(c)

	var input struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}
	productID, err := gocql.ParseUUID(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant produit invalide"})
		return
	}

	if err := h.cart.UpdateQuantity(c.Request.Context(), p.UserID, productID, input.Quantity); err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quantité mise à jour"})
}

func (h *CartHandler) Remove(c *gin.Context) {
	p, _ := auth.FromContext(c)

	productID, err := gocql.ParseUUID(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant produit invalide"})
		return
	}

	if err := h.cart.Remove(c.Request.Context(), p.UserID, productID); err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Produit retiré du panier"})
}

func (h *CartHandler) Clear(c *gin.Context) {
	p, _ := auth.FromContext(c)

	if err := h.cart.Clear(c.Request.Context(), p.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du vidage du panier"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé"})
}

func (h *CartHandler) cartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrLineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
	case errors.Is(err, store.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": "Stock insuffisant pour la quantité demandée"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour du panier"})
	}
}

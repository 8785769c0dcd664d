package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"trendnest_backend/internal/auth"
	"trendnest_backend/internal/models"
	"trendnest_backend/internal/store"
)

type WishlistHandler struct {
	wishlists store.WishlistStore
	products  store.ProductStore
}

func NewWishlistHandler(wishlists store.WishlistStore, products store.ProductStore) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists, products: products}
}

func (h *WishlistHandler) Get(c *gin.Context) {
	p, _ := auth.FromContext(c)

	items, err := h.wishlists.Items(c.Request.Context(), p.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture de la wishlist"})
		return
	}

	wishlist := models.Wishlist{UserID: p.UserID, Items: []models.WishlistItem{}}
	for productID, addedAt := range items {
		product, err := h.products.ByID(c.Request.Context(), productID)
		if err != nil {
			// produit retiré du catalogue, on saute la ligne
			continue
		}
		wishlist.Items = append(wishlist.Items, models.WishlistItem{Product: *product, AddedAt: addedAt})
	}

	c.JSON(http.StatusOK, wishlist)
}

func (h *WishlistHandler) Add(c *gin.Context) {
	p, _ := auth.FromContext(c)

	var input struct {
		ProductID string `json:"product_id"`
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

	if _, err := h.products.ByID(c.Request.Context(), productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du produit"})
		return
	}

	already, err := h.wishlists.Contains(c.Request.Context(), p.UserID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour de la wishlist"})
		return
	}
	if already {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce produit est déjà dans votre wishlist"})
		return
	}

	if err := h.wishlists.Add(c.Request.Context(), p.UserID, productID, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour de la wishlist"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Produit ajouté à la wishlist"})
}

// Check indique si un produit est déjà dans la wishlist de l'utilisateur.
func (h *WishlistHandler) Check(c *gin.Context) {
	p, _ := auth.FromContext(c)

	productID, err := gocql.ParseUUID(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant produit invalide"})
		return
	}

	inWishlist, err := h.wishlists.Contains(c.Request.Context(), p.UserID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture de la wishlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"in_wishlist": inWishlist})
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	p, _ := auth.FromContext(c)

	productID, err := gocql.ParseUUID(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant produit invalide"})
		return
	}

	if err := h.wishlists.Remove(c.Request.Context(), p.UserID, productID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour de la wishlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Produit retiré de la wishlist"})
}

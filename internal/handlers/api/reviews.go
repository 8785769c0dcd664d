package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"trendnest_backend/internal/auth"
	"trendnest_backend/internal/cache"
	"trendnest_backend/internal/models"
	"trendnest_backend/internal/store"
)

// ReviewHandler gère les avis produits. La note moyenne du produit est
// recalculée à chaque nouvel avis.
type ReviewHandler struct {
	reviews  store.ReviewStore
	products store.ProductStore
	cache    *cache.Cache
}

func NewReviewHandler(reviews store.ReviewStore, products store.ProductStore, cch *cache.Cache) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, products: products, cache: cch}
}

func (h *ReviewHandler) List(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant produit invalide"})
		return
	}

	reviews, err := h.reviews.ByProduct(c.Request.Context(), productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture des avis"})
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "total": len(reviews)})
}

func (h *ReviewHandler) Create(c *gin.Context) {
	p, _ := auth.FromContext(c)

	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant produit invalide"})
		return
	}

	var input struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}
	if input.Rating < 1 || input.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La note doit être comprise entre 1 et 5"})
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

	exists, err := h.reviews.Exists(c.Request.Context(), productID, p.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la vérification de l'avis"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Vous avez déjà laissé un avis sur ce produit"})
		return
	}

	review := &models.Review{
		ID:        gocql.TimeUUID(),
		ProductID: productID,
		UserID:    p.UserID,
		Username:  p.Username,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now(),
	}
	if err := h.reviews.Create(c.Request.Context(), review); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création de l'avis"})
		return
	}

	// recalcul de la note moyenne
	all, err := h.reviews.ByProduct(c.Request.Context(), productID)
	if err == nil && len(all) > 0 {
		sum := 0
		for _, r := range all {
			sum += r.Rating
		}
		average := float64(sum) / float64(len(all))
		_ = h.products.UpdateRating(c.Request.Context(), productID, average, len(all))
		// la fiche en cache porte l'ancienne note
		if h.cache != nil {
			h.cache.InvalidateProduct(c.Request.Context(), productID)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Avis enregistré", "review": review})
}

package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"trendnest_backend/internal/catalog"
)

type CategoryHandler struct {
	catalog *catalog.Service
}

func NewCategoryHandler(cat *catalog.Service) *CategoryHandler {
	return &CategoryHandler{catalog: cat}
}

func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture des catégories"})
		return
	}
	sort.Strings(categories)
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

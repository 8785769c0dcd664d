package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trendnest_backend/internal/auth"
	"trendnest_backend/internal/catalog"
)

// La surface formulaires pagine toujours par 10, sans paramètre de taille.
const webPageSize = 10

type ProductHandler struct {
	catalog  *catalog.Service
	sessions *auth.SessionResolver
}

func NewProductHandler(cat *catalog.Service, sessions *auth.SessionResolver) *ProductHandler {
	return &ProductHandler{catalog: cat, sessions: sessions}
}

// Home liste la première page du catalogue.
func (h *ProductHandler) Home(c *gin.Context) {
	page, err := h.catalog.List(c.Request.Context(), catalog.Query{Page: 1, Limit: webPageSize})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du catalogue"})
		return
	}

	view := gin.H{"page": "home", "products": page.Products, "flashes": h.sessions.Flashes(c)}
	if p, ok := auth.FromContext(c); ok {
		view["username"] = p.Username
	}
	c.JSON(http.StatusOK, view)
}

// Products liste le catalogue filtré, paginé par 10.
func (h *ProductHandler) Products(c *gin.Context) {
	q := catalog.Query{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		SortBy:   c.DefaultQuery("sort_by", "name"),
		Order:    c.DefaultQuery("order", "asc"),
		Limit:    webPageSize,
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))

	if raw := c.Query("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			q.MinPrice = &v
		}
	}
	if raw := c.Query("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			q.MaxPrice = &v
		}
	}

	result, err := h.catalog.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du catalogue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":        "products",
		"products":    result.Products,
		"total":       result.Total,
		"total_pages": result.TotalPages,
		"current":     result.Page,
		"flashes":     h.sessions.Flashes(c),
	})
}

package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trendnest_backend/internal/auth"
	"trendnest_backend/internal/catalog"
	"trendnest_backend/internal/models"
	"trendnest_backend/internal/services"
)

// AdminHandler : gestion du catalogue, réservée au rôle admin.
type AdminHandler struct {
	catalog  *catalog.Service
	images   *services.Images
	sessions *auth.SessionResolver
}

func NewAdminHandler(cat *catalog.Service, images *services.Images, sessions *auth.SessionResolver) *AdminHandler {
	return &AdminHandler{catalog: cat, images: images, sessions: sessions}
}

// Products liste tout le catalogue sans pagination, vue d'administration.
func (h *AdminHandler) Products(c *gin.Context) {
	page, err := h.catalog.List(c.Request.Context(), catalog.Query{Page: 1, Limit: 100})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du catalogue"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":     "admin_products",
		"products": page.Products,
		"total":    page.Total,
		"flashes":  h.sessions.Flashes(c),
	})
}

func (h *AdminHandler) AddForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "admin_products_add", "flashes": h.sessions.Flashes(c)})
}

// Add crée un produit depuis le formulaire, avec image en multipart.
func (h *AdminHandler) Add(c *gin.Context) {
	price, _ := strconv.ParseFloat(c.PostForm("price"), 64)
	stock, _ := strconv.Atoi(c.PostForm("stock"))

	imageURL := c.PostForm("image_url")
	if file, err := c.FormFile("image"); err == nil && h.images != nil {
		uploaded, err := h.images.UploadProductImage(c.Request.Context(), file)
		if err != nil {
			h.sessions.Flash(c, "Échec de l'upload de l'image")
			c.Redirect(http.StatusSeeOther, "/admin/products/add")
			return
		}
		imageURL = uploaded
	}

	p := &models.Product{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       price,
		Category:    c.PostForm("category"),
		Stock:       stock,
		ImageURL:    imageURL,
	}
	if err := h.catalog.Add(c.Request.Context(), p); err != nil {
		switch {
		case errors.Is(err, catalog.ErrMissingName),
			errors.Is(err, catalog.ErrInvalidPrice),
			errors.Is(err, catalog.ErrInvalidStock):
			h.sessions.Flash(c, err.Error())
		default:
			h.sessions.Flash(c, "Erreur lors de la création du produit")
		}
		c.Redirect(http.StatusSeeOther, "/admin/products/add")
		return
	}

	h.sessions.Flash(c, "Produit « "+p.Name+" » ajouté au catalogue")
	c.Redirect(http.StatusSeeOther, "/admin/products")
}

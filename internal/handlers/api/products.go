package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"trendnest_backend/internal/cache"
	"trendnest_backend/internal/catalog"
	"trendnest_backend/internal/models"
	"trendnest_backend/internal/services"
	"trendnest_backend/internal/store"
)

// Searcher abstrait le moteur de recherche plein texte.
type Searcher interface {
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
}

// ProductHandler sert le catalogue : listing filtré, fiche produit,
// création (admin), recherche plein texte.
type ProductHandler struct {
	catalog *catalog.Service
	search  Searcher
	cache   *cache.Cache
	images  *services.Images
}

func NewProductHandler(cat *catalog.Service, search Searcher, cch *cache.Cache, images *services.Images) *ProductHandler {
	return &ProductHandler{catalog: cat, search: search, cache: cch, images: images}
}

// List rend une page filtrée. La taille de page est bornée à [1,100].
func (h *ProductHandler) List(c *gin.Context) {
	q := catalog.Query{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		SortBy:   c.DefaultQuery("sortBy", "name"),
		Order:    c.DefaultQuery("order", "asc"),
	}

	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	q.Limit = catalog.ClampLimit(limit)

	if raw := c.Query("minPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			q.MinPrice = &v
		}
	}
	if raw := c.Query("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			q.MaxPrice = &v
		}
	}

	page, err := h.catalog.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du catalogue"})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant produit invalide"})
		return
	}

	if h.cache != nil {
		if p, ok := h.cache.GetProduct(c.Request.Context(), id); ok {
			c.JSON(http.StatusOK, p)
			return
		}
	}

	p, err := h.catalog.ByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du produit"})
		return
	}

	if h.cache != nil {
		h.cache.SetProduct(c.Request.Context(), p)
	}
	c.JSON(http.StatusOK, p)
}

// Create ajoute un produit (admin). L'image est optionnelle, en multipart.
func (h *ProductHandler) Create(c *gin.Context) {
	var input struct {
		Name        string  `form:"name" json:"name"`
		Description string  `form:"description" json:"description"`
		Price       float64 `form:"price" json:"price"`
		Category    string  `form:"category" json:"category"`
		Stock       int     `form:"stock" json:"stock"`
		ImageURL    string  `form:"image_url" json:"image_url"`
	}
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	imageURL := input.ImageURL
	if file, err := c.FormFile("image"); err == nil && h.images != nil {
		uploaded, err := h.images.UploadProductImage(c.Request.Context(), file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec de l'upload de l'image"})
			return
		}
		imageURL = uploaded
	}

	p := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Stock:       input.Stock,
		ImageURL:    imageURL,
	}
	if err := h.catalog.Add(c.Request.Context(), p); err != nil {
		switch {
		case errors.Is(err, catalog.ErrMissingName),
			errors.Is(err, catalog.ErrInvalidPrice),
			errors.Is(err, catalog.ErrInvalidStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du produit"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Produit créé", "product": p})
}

// Search interroge Elasticsearch (nom, description, catégorie). Si le moteur
// est indisponible, on se replie sur le filtre catalogue en mémoire.
func (h *ProductHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le paramètre q est requis"})
		return
	}

	products, err := h.search.SearchProducts(c.Request.Context(), query)
	if err != nil {
		log.Println("⚠️ Elasticsearch indisponible, repli sur le filtre catalogue:", err)
		page, ferr := h.catalog.List(c.Request.Context(), catalog.Query{Search: query, Page: 1, Limit: 100})
		if ferr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Recherche indisponible"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": page.Products, "total": page.Total})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

// ImageURL rend une URL pré-signée à durée limitée pour un objet MinIO.
func (h *ProductHandler) ImageURL(c *gin.Context) {
	object := c.Query("object")
	if object == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le paramètre object est requis"})
		return
	}

	url, err := h.images.SignedURL(c.Request.Context(), object, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Génération de l'URL échouée"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

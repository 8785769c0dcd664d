package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"trendnest_backend/internal/auth"
	"trendnest_backend/internal/cart"
	"trendnest_backend/internal/store"
)

type CartHandler struct {
	cart     *cart.Service
	sessions *auth.SessionResolver
}

func NewCartHandler(svc *cart.Service, sessions *auth.SessionResolver) *CartHandler {
	return &CartHandler{cart: svc, sessions: sessions}
}

func (h *CartHandler) View(c *gin.Context) {
	p, _ := auth.FromContext(c)

	result, err := h.cart.Get(c.Request.Context(), p.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":    "cart",
		"items":   result.Items,
		"total":   result.Total,
		"flashes": h.sessions.Flashes(c),
	})
}

// Add ajoute un produit depuis le formulaire puis revient au panier.
func (h *CartHandler) Add(c *gin.Context) {
	p, _ := auth.FromContext(c)

	productID, err := gocql.ParseUUID(c.PostForm("product_id"))
	if err != nil {
		h.sessions.Flash(c, "Produit invalide")
		c.Redirect(http.StatusSeeOther, "/products")
		return
	}
	qty, _ := strconv.Atoi(c.DefaultPostForm("quantity", "1"))

	if err := h.cart.AddItem(c.Request.Context(), p.UserID, productID, qty); err != nil {
		h.flashCartError(c, err)
		c.Redirect(http.StatusSeeOther, "/products")
		return
	}

	h.sessions.Flash(c, "Produit ajouté au panier")
	c.Redirect(http.StatusSeeOther, "/cart")
}

func (h *CartHandler) Update(c *gin.Context) {
	p, _ := auth.FromContext(c)

	productID, err := gocql.ParseUUID(c.PostForm("product_id"))
	if err != nil {
		h.sessions.Flash(c, "Produit invalide")
		c.Redirect(http.StatusSeeOther, "/cart")
		return
	}
	qty, _ := strconv.Atoi(c.PostForm("quantity"))

	if err := h.cart.UpdateQuantity(c.Request.Context(), p.UserID, productID, qty); err != nil {
		h.flashCartError(c, err)
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

func (h *CartHandler) Clear(c *gin.Context) {
	p, _ := auth.FromContext(c)

	if err := h.cart.Clear(c.Request.Context(), p.UserID); err != nil {
		h.sessions.Flash(c, "Erreur lors du vidage du panier")
	} else {
		h.sessions.Flash(c, "Panier vidé")
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

func (h *CartHandler) flashCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrLineNotFound):
		h.sessions.Flash(c, err.Error())
	case errors.Is(err, store.ErrNotFound):
		h.sessions.Flash(c, "Produit introuvable")
	case errors.Is(err, store.ErrInsufficientStock):
		h.sessions.Flash(c, "Stock insuffisant pour la quantité demandée")
	default:
		h.sessions.Flash(c, "Erreur lors de la mise à jour du panier")
	}
}

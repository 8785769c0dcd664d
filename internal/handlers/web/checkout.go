package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"trendnest_backend/internal/auth"
	"trendnest_backend/internal/cart"
	"trendnest_backend/internal/checkout"
	"trendnest_backend/internal/models"
	"trendnest_backend/internal/store"
)

type CheckoutHandler struct {
	cart      *cart.Service
	sequencer *checkout.Sequencer
	orders    store.OrderStore
	sessions  *auth.SessionResolver
}

func NewCheckoutHandler(svc *cart.Service, seq *checkout.Sequencer, orders store.OrderStore, sessions *auth.SessionResolver) *CheckoutHandler {
	return &CheckoutHandler{cart: svc, sequencer: seq, orders: orders, sessions: sessions}
}

// View présente le récapitulatif avant paiement.
func (h *CheckoutHandler) View(c *gin.Context) {
	p, _ := auth.FromContext(c)

	result, err := h.cart.Get(c.Request.Context(), p.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":    "checkout",
		"items":   result.Items,
		"total":   result.Total,
		"methods": []models.PaymentMethod{models.MethodCreditCard, models.MethodPaypal, models.MethodBankTransfer},
		"flashes": h.sessions.Flashes(c),
	})
}

// Submit exécute la séquence de checkout depuis le formulaire.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	p, _ := auth.FromContext(c)

	address := c.PostForm("shipping_address")
	method := models.PaymentMethod(c.PostForm("payment_method"))

	result, err := h.sequencer.Checkout(c.Request.Context(), p.UserID, address, method)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, checkout.ErrMissingAddress),
			errors.Is(err, checkout.ErrInvalidMethod),
			errors.Is(err, checkout.ErrPaymentAmount):
			h.sessions.Flash(c, err.Error())
		case errors.Is(err, store.ErrInsufficientStock), errors.Is(err, store.ErrStockConflict):
			h.sessions.Flash(c, "Stock insuffisant, le paiement a été annulé")
		default:
			log.Println("❌ Échec de la séquence de checkout:", err)
			h.sessions.Flash(c, "Le checkout a échoué, veuillez réessayer")
		}
		c.Redirect(http.StatusSeeOther, "/checkout")
		return
	}

	if !result.Approved {
		// paiement refusé : le panier est conservé pour une nouvelle tentative
		h.sessions.Flash(c, "Paiement refusé : "+result.Reason)
		c.Redirect(http.StatusSeeOther, "/payments/"+result.Payment.ID.String()+"/complete")
		return
	}

	c.Redirect(http.StatusSeeOther, "/order_confirmation/"+result.Order.ID.String())
}

// Confirmation affiche la commande finalisée.
func (h *CheckoutHandler) Confirmation(c *gin.Context) {
	p, _ := auth.FromContext(c)

	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant commande invalide"})
		return
	}

	order, err := h.orders.ByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture de la commande"})
		return
	}
	if order.UserID != p.UserID && !p.Admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cette commande ne vous appartient pas"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":    "order_confirmation",
		"order":   order,
		"flashes": h.sessions.Flashes(c),
	})
}

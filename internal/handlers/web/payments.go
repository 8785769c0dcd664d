package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"trendnest_backend/internal/auth"
	"trendnest_backend/internal/checkout"
	"trendnest_backend/internal/models"
	"trendnest_backend/internal/store"
)

type PaymentHandler struct {
	payments  store.PaymentStore
	sequencer *checkout.Sequencer
	sessions  *auth.SessionResolver
}

func NewPaymentHandler(payments store.PaymentStore, seq *checkout.Sequencer, sessions *auth.SessionResolver) *PaymentHandler {
	return &PaymentHandler{payments: payments, sequencer: seq, sessions: sessions}
}

// CompleteForm présente l'écran de reprise d'un paiement.
func (h *PaymentHandler) CompleteForm(c *gin.Context) {
	payment, ok := h.ownedPayment(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":    "payment_complete",
		"payment": payment,
		"flashes": h.sessions.Flashes(c),
	})
}

// Complete force le paiement en Completed puis vide le panier.
func (h *PaymentHandler) Complete(c *gin.Context) {
	payment, ok := h.ownedPayment(c)
	if !ok {
		return
	}

	completed, err := h.sequencer.CompletePayment(c.Request.Context(), payment.ID)
	if err != nil {
		if errors.Is(err, store.ErrInvalidTransition) {
			h.sessions.Flash(c, "Ce paiement ne peut plus être complété")
		} else {
			h.sessions.Flash(c, "Échec de la complétion du paiement")
		}
		c.Redirect(http.StatusSeeOther, "/checkout")
		return
	}

	h.sessions.Flash(c, "Paiement complété avec succès")
	c.Redirect(http.StatusSeeOther, "/order_confirmation/"+completed.OrderID.String())
}

func (h *PaymentHandler) ownedPayment(c *gin.Context) (*models.Payment, bool) {
	p, _ := auth.FromContext(c)

	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant paiement invalide"})
		return nil, false
	}

	payment, err := h.payments.ByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Paiement introuvable"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du paiement"})
		return nil, false
	}
	if payment.UserID != p.UserID && !p.Admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Ce paiement ne vous appartient pas"})
		return nil, false
	}
	return payment, true
}

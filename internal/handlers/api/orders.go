package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"trendnest_backend/internal/auth"
	"trendnest_backend/internal/checkout"
	"trendnest_backend/internal/config"
	"trendnest_backend/internal/models"
	"trendnest_backend/internal/services"
	"trendnest_backend/internal/store"
	"trendnest_backend/internal/utils"
)

// OrderHandler couvre l'historique de commandes, le checkout JSON, le journal
// de séquence, le QR de suivi et la facture PDF.
type OrderHandler struct {
	orders    store.OrderStore
	sequencer *checkout.Sequencer
	images    *services.Images
	cfg       *config.Config
}

func NewOrderHandler(orders store.OrderStore, seq *checkout.Sequencer, images *services.Images, cfg *config.Config) *OrderHandler {
	return &OrderHandler{orders: orders, sequencer: seq, images: images, cfg: cfg}
}

func (h *OrderHandler) List(c *gin.Context) {
	p, _ := auth.FromContext(c)

	orders, err := h.orders.ByUser(c.Request.Context(), p.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture des commandes"})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

func (h *OrderHandler) Get(c *gin.Context) {
	order, ok := h.ownedOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, order)
}

// Create exécute la séquence de checkout complète.
func (h *OrderHandler) Create(c *gin.Context) {
	p, _ := auth.FromContext(c)

	var input struct {
		ShippingAddress string `json:"shipping_address"`
		PaymentMethod   string `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	result, err := h.sequencer.Checkout(c.Request.Context(), p.UserID, input.ShippingAddress, models.PaymentMethod(input.PaymentMethod))
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, checkout.ErrMissingAddress),
			errors.Is(err, checkout.ErrInvalidMethod),
			errors.Is(err, checkout.ErrPaymentAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrInsufficientStock), errors.Is(err, store.ErrStockConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Stock insuffisant, le paiement a été annulé"})
		default:
			log.Println("❌ Échec de la séquence de checkout:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Le checkout a échoué"})
		}
		return
	}

	status := http.StatusCreated
	if !result.Approved {
		// commande créée mais paiement refusé : le panier est conservé
		status = http.StatusPaymentRequired
	}
	c.JSON(status, result)
}

// Transitions rend le journal de la séquence d'une commande.
func (h *OrderHandler) Transitions(c *gin.Context) {
	order, ok := h.ownedOrder(c)
	if !ok {
		return
	}

	transitions, err := h.sequencer.Transitions(c.Request.Context(), order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du journal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": order.ID, "transitions": transitions})
}

// QR rend le QR de suivi de la commande en PNG.
func (h *OrderHandler) QR(c *gin.Context) {
	order, ok := h.ownedOrder(c)
	if !ok {
		return
	}

	png, err := utils.OrderQR(h.cfg.BaseURL, order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Génération du QR échouée"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Invoice imprime la facture en PDF via Chrome headless et l'archive dans MinIO.
func (h *OrderHandler) Invoice(c *gin.Context) {
	order, ok := h.ownedOrder(c)
	if !ok {
		return
	}

	qr, err := utils.OrderQRBase64(h.cfg.BaseURL, order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Génération du QR échouée"})
		return
	}

	pdf, err := utils.RenderInvoicePDF(h.cfg.Frontend, order, qr)
	if err != nil {
		log.Println("❌ Rendu PDF de la facture échoué:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Génération de la facture échouée"})
		return
	}

	if h.images != nil {
		if _, err := h.images.UploadInvoice(c.Request.Context(), order.ID.String(), pdf); err != nil {
			log.Println("⚠️ Archivage de la facture dans MinIO échoué:", err)
		}
	}

	c.Header("Content-Disposition", "attachment; filename=facture_"+order.ID.String()+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ownedOrder charge la commande et vérifie que l'appelant en est le
// propriétaire (ou administrateur).
func (h *OrderHandler) ownedOrder(c *gin.Context) (*models.Order, bool) {
	p, _ := auth.FromContext(c)

	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant commande invalide"})
		return nil, false
	}

	order, err := h.orders.ByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture de la commande"})
		return nil, false
	}

	if order.UserID != p.UserID && !p.Admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cette commande ne vous appartient pas"})
		return nil, false
	}
	return order, true
}

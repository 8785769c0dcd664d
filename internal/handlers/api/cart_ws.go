package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"trendnest_backend/internal/auth"
	"trendnest_backend/internal/cache"
	"trendnest_backend/internal/cart"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// CartWS gère la synchronisation temps réel du panier : chaque changement
// publié sur le canal Redis de l'utilisateur pousse l'état à jour au client.
type CartWS struct {
	cart  *cart.Service
	cache *cache.Cache
}

func NewCartWS(svc *cart.Service, cch *cache.Cache) *CartWS {
	return &CartWS{cart: svc, cache: cch}
}

func (h *CartWS) Handle(c *gin.Context) {
	p, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	pubsub := h.cache.SubscribeCart(ctx, p.UserID)
	defer pubsub.Close()

	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Synchronisation panier activée",
	})

	for {
		select {
		case msg, open := <-ch:
			if !open {
				return
			}
			if msg.Payload != "changed" {
				continue
			}

			current, err := h.cart.Get(ctx, p.UserID)
			if err != nil {
				log.Printf("❌ Lecture du panier pour le WebSocket: %v", err)
				continue
			}

			response := map[string]interface{}{
				"type":  "cart_updated",
				"items": current.Items,
				"total": current.Total,
				"count": len(current.Items),
			}
			if err := conn.WriteJSON(response); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

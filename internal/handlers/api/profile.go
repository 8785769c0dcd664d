package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trendnest_backend/internal/accounts"
	"trendnest_backend/internal/auth"
	"trendnest_backend/internal/store"
)

type ProfileHandler struct {
	accounts *accounts.Service
}

func NewProfileHandler(accounts *accounts.Service) *ProfileHandler {
	return &ProfileHandler{accounts: accounts}
}

func (h *ProfileHandler) Profile(c *gin.Context) {
	p, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentification requise"})
		return
	}

	user, err := h.accounts.ByID(c.Request.Context(), p.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du profil"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

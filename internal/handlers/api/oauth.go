package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/markbates/goth/gothic"
	"golang.org/x/oauth2"

	"trendnest_backend/internal/accounts"
	"trendnest_backend/internal/config"
	"trendnest_backend/internal/store"
	"trendnest_backend/internal/utils"
)

// OAuthHandler gère la connexion Google. Un compte est créé au premier
// passage, avec un mot de passe aléatoire inutilisable.
type OAuthHandler struct {
	accounts  *accounts.Service
	jwtCfg    config.JWTConfig
	spaConfig *oauth2.Config
}

func NewOAuthHandler(accounts *accounts.Service, jwtCfg config.JWTConfig, spaConfig *oauth2.Config) *OAuthHandler {
	return &OAuthHandler{accounts: accounts, jwtCfg: jwtCfg, spaConfig: spaConfig}
}

func (h *OAuthHandler) BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

func (h *OAuthHandler) CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.ByEmail(c.Request.Context(), gothUser.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la connexion"})
			return
		}
		username := gothUser.Name
		if username == "" {
			username = gothUser.Email
		}
		user, err = h.accounts.Register(c.Request.Context(), username, gothUser.Email, uuid.NewString())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du compte"})
			return
		}
	}

	token, err := utils.GenerateJWT(user, h.jwtCfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération du token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider": provider,
		"token":    token,
		"user":     user,
	})
}

// AuthURL rend l'URL d'autorisation Google pour les clients SPA qui gèrent
// eux-mêmes la redirection.
func (h *OAuthHandler) AuthURL(c *gin.Context) {
	state := uuid.NewString()
	c.JSON(http.StatusOK, gin.H{
		"url":   h.spaConfig.AuthCodeURL(state, oauth2.AccessTypeOnline),
		"state": state,
	})
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trendnest_backend/internal/accounts"
	"trendnest_backend/internal/config"
	"trendnest_backend/internal/utils"
)

// AuthHandler expose register/login en JSON, avec un bearer token en retour.
type AuthHandler struct {
	accounts *accounts.Service
	jwtCfg   config.JWTConfig
}

func NewAuthHandler(accounts *accounts.Service, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{accounts: accounts, jwtCfg: jwtCfg}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "email": input.Email})
		case errors.Is(err, accounts.ErrMissingFields), errors.Is(err, accounts.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du compte"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Compte créé avec succès",
		"user":    user,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la connexion"})
		return
	}

	token, err := utils.GenerateJWT(user, h.jwtCfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération du token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Connexion réussie",
		"token":   token,
		"user":    user,
	})
}

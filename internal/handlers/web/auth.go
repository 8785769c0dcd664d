// Package web est la surface formulaires : entrées en POST form-encodé,
// navigation par redirections, messages flash portés par la session.
// Les vues GET rendent leur view-model en JSON, le rendu HTML est laissé au
// frontend.
package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trendnest_backend/internal/accounts"
	"trendnest_backend/internal/auth"
)

type AuthHandler struct {
	accounts *accounts.Service
	sessions *auth.SessionResolver
}

func NewAuthHandler(accounts *accounts.Service, sessions *auth.SessionResolver) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions}
}

func (h *AuthHandler) RegisterForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "register", "flashes": h.sessions.Flashes(c)})
}

func (h *AuthHandler) Register(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	if _, err := h.accounts.Register(c.Request.Context(), username, email, password); err != nil {
		switch {
		case errors.Is(err, accounts.ErrEmailTaken),
			errors.Is(err, accounts.ErrMissingFields),
			errors.Is(err, accounts.ErrInvalidEmail):
			h.sessions.Flash(c, err.Error())
		default:
			h.sessions.Flash(c, "Erreur lors de la création du compte")
		}
		c.Redirect(http.StatusSeeOther, "/register")
		return
	}

	h.sessions.Flash(c, "Compte créé, vous pouvez vous connecter")
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "login", "flashes": h.sessions.Flashes(c)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := h.accounts.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			h.sessions.Flash(c, "Email ou mot de passe incorrect")
		} else {
			h.sessions.Flash(c, "Erreur lors de la connexion")
		}
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	if err := h.sessions.Establish(c, auth.FromUser(user)); err != nil {
		h.sessions.Flash(c, "Erreur lors de l'ouverture de session")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	h.sessions.Flash(c, "Bienvenue "+user.Username+" !")
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Destroy(c)
	c.Redirect(http.StatusSeeOther, "/")
}

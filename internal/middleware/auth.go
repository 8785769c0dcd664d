package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trendnest_backend/internal/auth"
)

// Authenticated résout le Principal via le mécanisme fourni (session ou
// token) et le pose dans le contexte pour les handlers en aval.
func Authenticated(resolver auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := resolver.Resolve(c)
		if err != nil {
			if errors.Is(err, auth.ErrSessionExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expirée, veuillez vous reconnecter"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentification requise"})
			}
			c.Abort()
			return
		}
		auth.SetContext(c, p)
		c.Next()
	}
}

// RequireAdmin vérifie que le Principal résolu a le rôle administrateur.
func RequireAdmin(c *gin.Context) {
	p, ok := auth.FromContext(c)
	if !ok || !p.Admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	c.Next()
}

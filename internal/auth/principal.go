// Package auth unifie les deux mécanismes d'accès (cookie de session signé,
// token bearer) derrière un seul concept d'identité : le Principal.
package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"trendnest_backend/internal/models"
)

var (
	ErrUnauthenticated = errors.New("authentification requise")
	ErrSessionExpired  = errors.New("session expirée")
)

// Principal est l'identité résolue d'une requête, quel que soit le mécanisme.
type Principal struct {
	UserID   gocql.UUID `json:"user_id"`
	Username string     `json:"username"`
	Admin    bool       `json:"admin"`
}

// Resolver extrait le Principal d'une requête entrante.
type Resolver interface {
	Resolve(c *gin.Context) (*Principal, error)
}

const principalKey = "principal"

// FromContext récupère le Principal posé par le middleware d'authentification.
func FromContext(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok
}

// SetContext pose le Principal pour les handlers en aval.
func SetContext(c *gin.Context, p *Principal) {
	c.Set(principalKey, p)
}

// FromUser construit un Principal depuis un utilisateur persisté.
func FromUser(u *models.User) *Principal {
	return &Principal{UserID: u.ID, Username: u.Username, Admin: u.IsAdmin()}
}

package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"trendnest_backend/internal/config"
	"trendnest_backend/internal/store"
	"trendnest_backend/internal/utils"
)

// TokenResolver vérifie un bearer token HS256 dont le sujet est l'email, puis
// recharge l'utilisateur : un compte supprimé invalide ses tokens en cours.
type TokenResolver struct {
	cfg   config.JWTConfig
	users store.UserStore
}

func NewTokenResolver(cfg config.JWTConfig, users store.UserStore) *TokenResolver {
	return &TokenResolver{cfg: cfg, users: users}
}

func (r *TokenResolver) Resolve(c *gin.Context) (*Principal, error) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, ErrUnauthenticated
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	email, err := utils.ParseJWT(tokenString, r.cfg)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := r.users.ByEmail(c.Request.Context(), email)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	return FromUser(user), nil
}

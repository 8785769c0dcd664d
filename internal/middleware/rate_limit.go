package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	// Limites par fenêtre glissante d'une minute
	APIMaxRequests    = 100
	CartMaxRequests   = 30
	SearchMaxRequests = 60

	rateWindow = 1 * time.Minute
)

// Pas de verrouillage sur /login : un mot de passe erroné renvoie toujours la
// même réponse, quel que soit le nombre d'essais. Seules les limites
// volumétriques par IP s'appliquent.

// APIRateLimit limite le trafic général par IP.
func APIRateLimit(rdb *redis.Client) gin.HandlerFunc {
	return limitByIP(rdb, "api", APIMaxRequests)
}

// CartRateLimit borne les écritures panier par IP.
func CartRateLimit(rdb *redis.Client) gin.HandlerFunc {
	return limitByIP(rdb, "cart", CartMaxRequests)
}

// SearchRateLimit borne les recherches catalogue par IP.
func SearchRateLimit(rdb *redis.Client) gin.HandlerFunc {
	return limitByIP(rdb, "search", SearchMaxRequests)
}

func limitByIP(rdb *redis.Client, scope string, max int) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.ClientIP())

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// Redis indisponible : on laisse passer plutôt que de bloquer tout le trafic
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, rateWindow)
		}

		if count > int64(max) {
			ttl := rdb.TTL(ctx, key).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Trop de requêtes, réessayez plus tard",
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", int64(max)-count))
		c.Next()
	}
}

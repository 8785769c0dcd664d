package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendnest_backend/internal/config"
	"trendnest_backend/internal/models"
	"trendnest_backend/internal/store"
	"trendnest_backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// carryCookies rejoue les Set-Cookie d'une réponse sur une nouvelle requête.
func carryCookies(w *httptest.ResponseRecorder, req *http.Request) {
	for _, cookie := range w.Result().Cookies() {
		req.AddCookie(cookie)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	resolver := NewSessionResolver(config.SessionConfig{Secret: "test-secret", IdleTimeout: 90 * time.Minute})
	userID := gocql.TimeUUID()

	c, w := testContext(httptest.NewRequest(http.MethodPost, "/login", nil))
	err := resolver.Establish(c, &Principal{UserID: userID, Username: "alice", Admin: true})
	require.NoError(t, err)

	next := httptest.NewRequest(http.MethodGet, "/cart", nil)
	carryCookies(w, next)
	c2, _ := testContext(next)

	p, err := resolver.Resolve(c2)
	require.NoError(t, err)
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, "alice", p.Username)
	assert.True(t, p.Admin)
}

func TestSessionWithoutCookie(t *testing.T) {
	resolver := NewSessionResolver(config.SessionConfig{Secret: "test-secret", IdleTimeout: time.Hour})

	c, _ := testContext(httptest.NewRequest(http.MethodGet, "/cart", nil))
	_, err := resolver.Resolve(c)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSessionIdleExpiry(t *testing.T) {
	// fenêtre négative : toute session est déjà expirée au premier Resolve
	resolver := NewSessionResolver(config.SessionConfig{Secret: "test-secret", IdleTimeout: -time.Second})

	c, w := testContext(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, resolver.Establish(c, &Principal{UserID: gocql.TimeUUID(), Username: "bob"}))

	next := httptest.NewRequest(http.MethodGet, "/cart", nil)
	carryCookies(w, next)
	c2, _ := testContext(next)

	_, err := resolver.Resolve(c2)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestSessionDestroy(t *testing.T) {
	resolver := NewSessionResolver(config.SessionConfig{Secret: "test-secret", IdleTimeout: time.Hour})

	c, w := testContext(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, resolver.Establish(c, &Principal{UserID: gocql.TimeUUID(), Username: "carol"}))

	logout := httptest.NewRequest(http.MethodGet, "/logout", nil)
	carryCookies(w, logout)
	c2, w2 := testContext(logout)
	resolver.Destroy(c2)

	// le cookie d'invalidation remplace la session
	next := httptest.NewRequest(http.MethodGet, "/cart", nil)
	carryCookies(w2, next)
	c3, _ := testContext(next)
	_, err := resolver.Resolve(c3)
	assert.Error(t, err)
}

func TestSessionFlashes(t *testing.T) {
	resolver := NewSessionResolver(config.SessionConfig{Secret: "test-secret", IdleTimeout: time.Hour})

	c, w := testContext(httptest.NewRequest(http.MethodPost, "/cart/add", nil))
	resolver.Flash(c, "Produit ajouté au panier")

	next := httptest.NewRequest(http.MethodGet, "/cart", nil)
	carryCookies(w, next)
	c2, w2 := testContext(next)
	assert.Equal(t, []string{"Produit ajouté au panier"}, resolver.Flashes(c2))

	// consommé : plus rien à la lecture suivante
	after := httptest.NewRequest(http.MethodGet, "/cart", nil)
	carryCookies(w2, after)
	c3, _ := testContext(after)
	assert.Empty(t, resolver.Flashes(c3))
}

type stubUsers struct {
	user *models.User
}

func (s *stubUsers) Create(_ context.Context, _ *models.User) error { return nil }

func (s *stubUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, store.ErrNotFound
}

func (s *stubUsers) ByID(_ context.Context, _ gocql.UUID) (*models.User, error) {
	return nil, store.ErrNotFound
}

func (s *stubUsers) EmailTaken(_ context.Context, _ string) (bool, error) { return false, nil }

func TestTokenResolver(t *testing.T) {
	cfg := config.JWTConfig{Secret: "jwt-secret", Expiry: time.Hour}
	user := &models.User{ID: gocql.TimeUUID(), Username: "dave", Email: "dave@trendnest.shop", Role: "admin"}
	resolver := NewTokenResolver(cfg, &stubUsers{user: user})

	token, err := utils.GenerateJWT(user, cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c, _ := testContext(req)

	p, err := resolver.Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, user.ID, p.UserID)
	assert.Equal(t, "dave", p.Username)
	assert.True(t, p.Admin)
}

func TestTokenResolverRejects(t *testing.T) {
	cfg := config.JWTConfig{Secret: "jwt-secret", Expiry: time.Hour}
	user := &models.User{ID: gocql.TimeUUID(), Email: "dave@trendnest.shop"}
	resolver := NewTokenResolver(cfg, &stubUsers{user: user})

	// pas d'entête
	c, _ := testContext(httptest.NewRequest(http.MethodGet, "/api/user/profile", nil))
	_, err := resolver.Resolve(c)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// token signé avec un autre secret
	token, err := utils.GenerateJWT(user, config.JWTConfig{Secret: "autre-secret", Expiry: time.Hour})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c2, _ := testContext(req)
	_, err = resolver.Resolve(c2)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// utilisateur supprimé depuis l'émission du token
	token, err = utils.GenerateJWT(&models.User{Email: "parti@trendnest.shop"}, cfg)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c3, _ := testContext(req)
	_, err = resolver.Resolve(c3)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestFromUser(t *testing.T) {
	admin := &models.User{ID: gocql.TimeUUID(), Username: "root", Role: "admin"}
	customer := &models.User{ID: gocql.TimeUUID(), Username: "client", Role: "customer"}

	assert.True(t, FromUser(admin).Admin)
	assert.False(t, FromUser(customer).Admin)
}

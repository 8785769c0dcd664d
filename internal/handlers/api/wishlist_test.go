package api

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

	"trendnest_backend/internal/auth"
	"trendnest_backend/internal/models"
	"trendnest_backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type wishKey struct {
	user    gocql.UUID
	product gocql.UUID
}

type mockWishlists struct {
	items map[wishKey]time.Time
}

func newMockWishlists() *mockWishlists { return &mockWishlists{items: make(map[wishKey]time.Time)} }

func (m *mockWishlists) Items(_ context.Context, userID gocql.UUID) (map[gocql.UUID]time.Time, error) {
	out := make(map[gocql.UUID]time.Time)
	for k, at := range m.items {
		if k.user == userID {
			out[k.product] = at
		}
	}
	return out, nil
}

func (m *mockWishlists) Add(_ context.Context, userID, productID gocql.UUID, at time.Time) error {
	m.items[wishKey{userID, productID}] = at
	return nil
}

func (m *mockWishlists) Remove(_ context.Context, userID, productID gocql.UUID) error {
	delete(m.items, wishKey{userID, productID})
	return nil
}

func (m *mockWishlists) Contains(_ context.Context, userID, productID gocql.UUID) (bool, error) {
	_, ok := m.items[wishKey{userID, productID}]
	return ok, nil
}

type stubProducts struct {
	products map[gocql.UUID]*models.Product
}

func (s *stubProducts) Create(_ context.Context, p *models.Product) error {
	s.products[p.ID] = p
	return nil
}

func (s *stubProducts) ByID(_ context.Context, id gocql.UUID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (s *stubProducts) All(_ context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubProducts) Categories(_ context.Context) ([]string, error) { return nil, nil }

func (s *stubProducts) DecrementStock(_ context.Context, id gocql.UUID, qty int) error {
	p, ok := s.products[id]
	if !ok {
		return store.ErrNotFound
	}
	if p.Stock < qty {
		return store.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

func (s *stubProducts) RestoreStock(_ context.Context, id gocql.UUID, qty int) error {
	p, ok := s.products[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Stock += qty
	return nil
}

func (s *stubProducts) UpdateRating(_ context.Context, _ gocql.UUID, _ float64, _ int) error {
	return nil
}

func authedContext(t *testing.T, userID gocql.UUID, req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	auth.SetContext(c, &auth.Principal{UserID: userID, Username: "alice"})
	return c, w
}

func TestWishlistCheck(t *testing.T) {
	userID := gocql.TimeUUID()
	productID := gocql.TimeUUID()
	wishlists := newMockWishlists()
	require.NoError(t, wishlists.Add(context.Background(), userID, productID, time.Now()))

	h := NewWishlistHandler(wishlists, &stubProducts{products: map[gocql.UUID]*models.Product{}})

	c, w := authedContext(t, userID, httptest.NewRequest(http.MethodGet, "/api/wishlist/check/"+productID.String(), nil))
	c.Params = gin.Params{{Key: "productId", Value: productID.String()}}
	h.Check(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"in_wishlist": true}`, w.Body.String())

	// produit absent de la wishlist
	other := gocql.TimeUUID()
	c2, w2 := authedContext(t, userID, httptest.NewRequest(http.MethodGet, "/api/wishlist/check/"+other.String(), nil))
	c2.Params = gin.Params{{Key: "productId", Value: other.String()}}
	h.Check(c2)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.JSONEq(t, `{"in_wishlist": false}`, w2.Body.String())

	// identifiant invalide
	c3, w3 := authedContext(t, userID, httptest.NewRequest(http.MethodGet, "/api/wishlist/check/pas-un-uuid", nil))
	c3.Params = gin.Params{{Key: "productId", Value: "pas-un-uuid"}}
	h.Check(c3)
	assert.Equal(t, http.StatusBadRequest, w3.Code)
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendnest_backend/internal/catalog"
	"trendnest_backend/internal/models"
)

type stubSearch struct {
	products []models.Product
	err      error
}

func (s *stubSearch) SearchProducts(_ context.Context, _ string) ([]models.Product, error) {
	return s.products, s.err
}

func searchContext(query string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/search?q="+query, nil)
	return c, w
}

func TestSearchElastic(t *testing.T) {
	search := &stubSearch{products: []models.Product{{ID: gocql.TimeUUID(), Name: "Lampe"}}}
	h := NewProductHandler(nil, search, nil, nil)

	c, w := searchContext("lampe")
	h.Search(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Products []models.Product `json:"products"`
		Total    int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, "Lampe", body.Products[0].Name)
}

func TestSearchFallsBackToCatalog(t *testing.T) {
	products := &stubProducts{products: map[gocql.UUID]*models.Product{}}
	cat := catalog.NewService(products, nil)
	require.NoError(t, cat.Add(context.Background(), &models.Product{
		Name:        "Suspension",
		Description: "Abat-jour en rotin naturel",
		Price:       89,
		Stock:       4,
	}))

	search := &stubSearch{err: errors.New("connexion refusée")}
	h := NewProductHandler(cat, search, nil, nil)

	c, w := searchContext("rotin")
	h.Search(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Products []models.Product `json:"products"`
		Total    int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, "Suspension", body.Products[0].Name)
}

func TestSearchRequiresQuery(t *testing.T) {
	h := NewProductHandler(nil, &stubSearch{}, nil, nil)

	c, w := searchContext("")
	h.Search(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

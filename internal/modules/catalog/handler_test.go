package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *chi.Mux {
	r := chi.NewRouter()
	NewHandler(NewService(NewStaticRepository(StaticProducts())), MatchAll).RegisterRoutes(r)
	return r
}

func get(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type productJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MinPrice    string `json:"minPrice"`
	Purchasable bool   `json:"purchasable"`
	Plans       []struct {
		Plan  string `json:"plan"`
		Price string `json:"price"`
	} `json:"plans"`
}

func TestListProducts_FilterAndSort(t *testing.T) {
	r := newTestRouter()
	rec := get(t, r, "/api/v1/catalog/products?category=VPN&category=Cloud&match=any&sort=name&dir=desc")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []productJSON
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 4)
	assert.Equal(t, "Surfshark VPN", got[0].Name)
	assert.Equal(t, "Google Drive (Upgrade)", got[3].Name)
	assert.Equal(t, "34.99", got[3].MinPrice)
	assert.True(t, got[3].Purchasable)
}

func TestListProducts_DefaultMatchModeIsAll(t *testing.T) {
	rec := get(t, newTestRouter(), "/api/v1/catalog/products?category=VPN&category=Cloud")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListProducts_BadParams(t *testing.T) {
	r := newTestRouter()
	for _, target := range []string{
		"/api/v1/catalog/products?sort=cheapest",
		"/api/v1/catalog/products?match=some",
		"/api/v1/catalog/products?dir=up",
		"/api/v1/catalog/products?lifetime=maybe",
	} {
		rec := get(t, r, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestGetProduct(t *testing.T) {
	r := newTestRouter()

	rec := get(t, r, "/api/v1/catalog/products/p3")
	require.Equal(t, http.StatusOK, rec.Code)
	var p productJSON
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, "CapCut Pro", p.Name)
	require.Len(t, p.Plans, 3)
	assert.Equal(t, "6-Month", p.Plans[0].Plan)
	assert.Equal(t, "11.99", p.Plans[0].Price)

	rec = get(t, r, "/api/v1/catalog/products/p999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCopyProduct(t *testing.T) {
	rec := get(t, newTestRouter(), "/api/v1/catalog/products/p1/copy")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Canva Pro\n\nLifetime: $9.99"))
}

func TestListCategories(t *testing.T) {
	rec := get(t, newTestRouter(), "/api/v1/catalog/categories")
	require.Equal(t, http.StatusOK, rec.Code)
	var cats []string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cats))
	assert.Equal(t, []string{"AI", "Cloud", "Design", "Education", "Music", "Productivity", "Security", "Streaming", "Utilities", "VPN", "Video", "Writing"}, cats)
}

func TestExportCSV_UsesFilteredResult(t *testing.T) {
	rec := get(t, newTestRouter(), "/api/v1/catalog/export.csv?q=vpn")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 4)
}

func TestExportXLSX(t *testing.T) {
	rec := get(t, newTestRouter(), "/api/v1/catalog/export.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, rec.Body.Len())
}

package mall

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcfg "github.com/HsiaoHungKai/myDonut/internal/infra/config"
	shared "github.com/HsiaoHungKai/myDonut/internal/platform/di/shared"
)

func TestNewContainer_RequiresInfra(t *testing.T) {
	_, err := NewContainer(context.Background(), nil)
	assert.Error(t, err)
}

func TestRegister_MountsCustomerRoutes(t *testing.T) {
	inf, err := shared.NewInfraWithConfig(context.Background(), &appcfg.Config{DBDriver: "memory"})
	require.NoError(t, err)
	cont, err := NewContainer(context.Background(), inf)
	require.NoError(t, err)

	r := chi.NewRouter()
	Register(r, cont)

	// no identity header
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mall/me/cart", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/mall/me/cart", nil)
	req.Header.Set("X-Customer-Id", "1")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code, "customer 1 is not registered")
}

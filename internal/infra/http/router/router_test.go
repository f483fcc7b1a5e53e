package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/rog-store/internal/auth"
	"go.uber.org/zap"
)

type fakeTokens map[string]*auth.Claims

func (f fakeTokens) Parse(token string) (*auth.Claims, error) {
	if c, ok := f[token]; ok {
		return c, nil
	}
	return nil, auth.ErrInvalidToken
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	h := New(Handlers{}, Options{
		Tokens: fakeTokens{"cliente": {CustomerID: "cust-1"}},
		Logger: zap.NewNop(),
	})

	paths := []string{"/admin/orders", "/admin/vouchers", "/admin/automations", "/admin/crm/pipelines"}
	for _, p := range paths {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, p)

		r := httptest.NewRequest(http.MethodGet, p, nil)
		r.Header.Set("Authorization", "Bearer cliente")
		w = httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusForbidden, w.Code, p)
	}
}

func TestCustomerRoutesRequireLogin(t *testing.T) {
	h := New(Handlers{}, Options{Tokens: fakeTokens{}, Logger: zap.NewNop()})

	for _, p := range []string{"/me", "/orders", "/me/favorites", "/me/tickets"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, p)
	}
}

func TestUnknownRoute(t *testing.T) {
	h := New(Handlers{}, Options{Tokens: fakeTokens{}, Logger: zap.NewNop()})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nao-existe", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

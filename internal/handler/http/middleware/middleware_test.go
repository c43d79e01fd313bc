package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bistrohq/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/bistrohq/timeclock-backend-go/internal/pkg/jwt"
)

func newProtectedRouter(jwtService jwt.Service) chi.Router {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
		r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

		r.Get("/records", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminOnly)
			r.Get("/admin", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		})
	})
	return r
}

func doGet(router chi.Router, path string, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequiredWithMintedToken(t *testing.T) {
	jwtService := jwt.NewJWTService("middleware-test-secret", "15m")
	router := newProtectedRouter(jwtService)

	token, _, err := jwtService.GenerateAccessToken("admin-1", "Site Manager", false)
	require.NoError(t, err)

	rec := doGet(router, "/records", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doGet(router, "/records", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequiredRejectsForeignToken(t *testing.T) {
	jwtService := jwt.NewJWTService("middleware-test-secret", "15m")
	router := newProtectedRouter(jwtService)

	foreign := jwt.NewJWTService("some-other-secret", "15m")
	token, _, err := foreign.GenerateAccessToken("admin-1", "Site Manager", true)
	require.NoError(t, err)

	rec := doGet(router, "/records", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminOnlyRequiresAdminClaim(t *testing.T) {
	jwtService := jwt.NewJWTService("middleware-test-secret", "15m")
	router := newProtectedRouter(jwtService)

	adminToken, _, err := jwtService.GenerateAccessToken("admin-1", "Site Manager", true)
	require.NoError(t, err)
	staffToken, _, err := jwtService.GenerateAccessToken("staff-1", "Line Cook", false)
	require.NoError(t, err)

	rec := doGet(router, "/admin", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doGet(router, "/admin", staffToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func csrfRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CSRFMiddlewareWithExempt([]string{"/api/v1/auth/"}))
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.GET("/api/v1/notes", ok)
	r.POST("/api/v1/notes", ok)
	r.POST("/api/v1/auth/login", ok)
	return r
}

func TestCSRF(t *testing.T) {
	token, err := GenerateCSRFToken()
	assert.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		setup  func(*http.Request)
		want   int
	}{
		{"safe method", http.MethodGet, "/api/v1/notes", nil, http.StatusNoContent},
		{"exempt path", http.MethodPost, "/api/v1/auth/login", nil, http.StatusNoContent},
		{"missing cookie", http.MethodPost, "/api/v1/notes", nil, http.StatusForbidden},
		{"bearer only", http.MethodPost, "/api/v1/notes", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer abc")
		}, http.StatusNoContent},
		{"bearer with session cookie", http.MethodPost, "/api/v1/notes", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer abc")
			r.AddCookie(&http.Cookie{Name: "access_token", Value: "abc"})
		}, http.StatusForbidden},
		{"mismatch", http.MethodPost, "/api/v1/notes", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
			r.Header.Set(CSRFHeaderName, "other")
		}, http.StatusForbidden},
		{"match", http.MethodPost, "/api/v1/notes", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
			r.Header.Set(CSRFHeaderName, token)
		}, http.StatusNoContent},
	}

	r := csrfRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.setup != nil {
				tt.setup(req)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

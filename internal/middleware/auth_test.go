package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/response"
)

type stubValidator struct {
	userID int64
	role   string
	err    error
}

func (s stubValidator) ValidateToken(ctx context.Context, token string) (int64, string, error) {
	return s.userID, s.role, s.err
}

func newAuthRouter(v TokenValidator, adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := r.Group("", AuthMiddleware(v))
	if adminOnly {
		chain.Use(AdminOnly())
	}
	chain.GET("/probe", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "", gin.H{
			"user_id": UserIDFrom(c.Request.Context()),
			"role":    RoleFrom(c.Request.Context()),
		})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		validator  stubValidator
		wantStatus int
	}{
		{"missing header", "", stubValidator{}, http.StatusUnauthorized},
		{"not bearer", "Basic abc", stubValidator{}, http.StatusUnauthorized},
		{"empty token", "Bearer ", stubValidator{}, http.StatusUnauthorized},
		{"rejected token", "Bearer bad", stubValidator{err: errors.New("nope")}, http.StatusUnauthorized},
		{"valid token", "Bearer good", stubValidator{userID: 7, role: "user"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(tt.validator, false)
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.header != "" {
				req.Header.Set(HeaderAuthorization, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	userReq := httptest.NewRequest(http.MethodGet, "/probe", nil)
	userReq.Header.Set(HeaderAuthorization, "Bearer tok")

	r := newAuthRouter(stubValidator{userID: 1, role: "user"}, true)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, userReq)
	if w.Code != http.StatusForbidden {
		t.Errorf("user role status = %d, want %d", w.Code, http.StatusForbidden)
	}

	adminReq := httptest.NewRequest(http.MethodGet, "/probe", nil)
	adminReq.Header.Set(HeaderAuthorization, "Bearer tok")

	r = newAuthRouter(stubValidator{userID: 2, role: "admin"}, true)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, adminReq)
	if w.Code != http.StatusOK {
		t.Errorf("admin role status = %d, want %d", w.Code, http.StatusOK)
	}
}

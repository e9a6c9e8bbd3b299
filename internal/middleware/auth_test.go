package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aura-hq/staffmanager/internal/config"
	"github.com/aura-hq/staffmanager/internal/model"
	"github.com/aura-hq/staffmanager/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func testAuthService() *service.AuthService {
	cfg := &config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: time.Hour,
	}
	// Token parsing never touches Redis, so nil is fine here.
	return service.NewAuthService(cfg, nil)
}

// signToken builds a token directly rather than via GenerateToken, so
// no session registry is needed.
func signToken(t *testing.T, secret string, role model.Role, expiry time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "test-jti",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		UserID: 42,
		Email:  "user@example.com",
		Name:   "Test User",
		Role:   role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newAuthTestRouter(authService *service.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{RequireAuth(authService)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/protected", chain...)
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthMissingToken(t *testing.T) {
	r := newAuthTestRouter(testAuthService())

	if w := doRequest(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", w.Code)
	}
}

func TestRequireAuthBadSignature(t *testing.T) {
	r := newAuthTestRouter(testAuthService())

	token := signToken(t, "wrong-secret", model.RoleEmployee, time.Hour)
	if w := doRequest(r, token); w.Code != http.StatusUnauthorized {
		t.Errorf("forged token: status = %d, want 401", w.Code)
	}
}

func TestRequireAuthExpiredToken(t *testing.T) {
	r := newAuthTestRouter(testAuthService())

	token := signToken(t, "test-secret", model.RoleEmployee, -time.Minute)
	if w := doRequest(r, token); w.Code != http.StatusUnauthorized {
		t.Errorf("expired token: status = %d, want 401", w.Code)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	r := newAuthTestRouter(testAuthService())

	token := signToken(t, "test-secret", model.RoleEmployee, time.Hour)
	if w := doRequest(r, token); w.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200: %s", w.Code, w.Body)
	}
}

func TestRequireCapability(t *testing.T) {
	svc := testAuthService()

	cases := []struct {
		name string
		role model.Role
		cap  model.Capability
		want int
	}{
		{"employee denied review", model.RoleEmployee, model.CapLeaveReview, http.StatusForbidden},
		{"employee denied salaries", model.RoleEmployee, model.CapSalariesManage, http.StatusForbidden},
		{"employee allowed own leave", model.RoleEmployee, model.CapLeaveRequestOwn, http.StatusOK},
		{"admin allowed review", model.RoleAdmin, model.CapLeaveReview, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newAuthTestRouter(svc, RequireCapability(tc.cap))
			token := signToken(t, "test-secret", tc.role, time.Hour)
			if w := doRequest(r, token); w.Code != tc.want {
				t.Errorf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

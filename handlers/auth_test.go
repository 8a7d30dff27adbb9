package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"drought-watch-api/config"
	"drought-watch-api/services"
	"drought-watch-api/store"

	"github.com/gin-gonic/gin"
)

func newAuthTestRouter() (*gin.Engine, *services.AuthService) {
	gin.SetMode(gin.TestMode)
	authService := services.NewAuthService(config.JWTConfig{Secret: "test-secret", ExpiryHours: 1})
	handler := NewAuthHandler(store.NewMemoryUserStore(), authService)

	router := gin.New()
	router.POST("/api/auth/register", handler.Register)
	router.POST("/api/auth/login", handler.Login)
	router.POST("/api/auth/logout", handler.Logout)
	return router, authService
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	router, authService := newAuthTestRouter()

	w := postJSON(t, router, "/api/auth/register", gin.H{
		"name":     "Test User",
		"email":    "user@droughtwatch.org",
		"password": "longenough123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201: %s", w.Code, w.Body.String())
	}
	reg := decode(t, w)
	if reg["token"] == "" {
		t.Error("register should return a token")
	}
	user := reg["user"].(map[string]interface{})
	if user["role"] != "viewer" {
		t.Errorf("self-registered role = %v, want viewer", user["role"])
	}
	if _, ok := user["password"]; ok {
		t.Error("password hash must not be serialized")
	}

	// Same email again
	w = postJSON(t, router, "/api/auth/register", gin.H{
		"name":     "Other",
		"email":    "user@droughtwatch.org",
		"password": "longenough123",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", w.Code)
	}

	// Login round-trip
	w = postJSON(t, router, "/api/auth/login", gin.H{
		"email":    "user@droughtwatch.org",
		"password": "longenough123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200: %s", w.Code, w.Body.String())
	}
	login := decode(t, w)
	claims, err := authService.ValidateToken(login["token"].(string))
	if err != nil {
		t.Fatalf("login token invalid: %v", err)
	}
	if claims.Email != "user@droughtwatch.org" {
		t.Errorf("claims.Email = %q", claims.Email)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _ := newAuthTestRouter()

	postJSON(t, router, "/api/auth/register", gin.H{
		"name":     "Test User",
		"email":    "user@droughtwatch.org",
		"password": "longenough123",
	})

	w := postJSON(t, router, "/api/auth/login", gin.H{
		"email":    "user@droughtwatch.org",
		"password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", w.Code)
	}

	w = postJSON(t, router, "/api/auth/login", gin.H{
		"email":    "nobody@droughtwatch.org",
		"password": "whatever123",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unknown email status = %d, want 401", w.Code)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	router, _ := newAuthTestRouter()

	w := postJSON(t, router, "/api/auth/register", gin.H{
		"name":     "Test User",
		"email":    "user@droughtwatch.org",
		"password": "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("short password status = %d, want 400", w.Code)
	}
}

func TestLogout(t *testing.T) {
	router, _ := newAuthTestRouter()

	w := postJSON(t, router, "/api/auth/logout", nil)
	if w.Code != http.StatusOK {
		t.Errorf("logout status = %d, want 200", w.Code)
	}
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chitfundhq/chitfund/internal/config"
	"github.com/chitfundhq/chitfund/internal/db"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setupFrontDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return conn
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", ExpiryHours: 1}
}

func TestRegisterAndLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	conn := setupFrontDB(t, "front_auth")

	handler := NewAuthHandler(conn, testJWTConfig())
	router := gin.New()
	router.POST("/v0/front/register", handler.Register)
	router.POST("/v0/front/login", handler.Login)

	body := strings.NewReader(`{"username":"ravi","email":"ravi@example.com","password":"secret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/v0/front/register", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 on register, got %d: %s", w.Code, w.Body.String())
	}

	// Duplicate username conflicts.
	body = strings.NewReader(`{"username":"ravi","password":"other"}`)
	req = httptest.NewRequest(http.MethodPost, "/v0/front/register", body)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate register, got %d", w.Code)
	}

	body = strings.NewReader(`{"username":"ravi","password":"secret123"}`)
	req = httptest.NewRequest(http.MethodPost, "/v0/front/login", body)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on login, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode login response: %v", errDecode)
	}
	if strings.TrimSpace(resp.Token) == "" {
		t.Fatalf("expected a token in login response")
	}

	body = strings.NewReader(`{"username":"ravi","password":"wrong"}`)
	req = httptest.NewRequest(http.MethodPost, "/v0/front/login", body)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on bad password, got %d", w.Code)
	}
}

package demo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewMiddleware(t *testing.T) {
	m := NewMiddleware(true)
	if !m.IsEnabled() {
		t.Error("Expected middleware to be enabled")
	}

	m = NewMiddleware(false)
	if m.IsEnabled() {
		t.Error("Expected middleware to be disabled")
	}
}

func TestMiddleware_AllowsGETRequests(t *testing.T) {
	m := NewMiddleware(true)
	router := gin.New()
	router.Use(m.Handler())
	router.GET("/api/entries", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestMiddleware_BlocksPOSTRequests(t *testing.T) {
	m := NewMiddleware(true)
	router := gin.New()
	router.Use(m.Handler())
	router.POST("/api/entries", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/entries", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response["demo_mode"] != true {
		t.Error("Expected demo_mode flag in response")
	}
}

func TestMiddleware_BlocksDELETERequests(t *testing.T) {
	m := NewMiddleware(true)
	router := gin.New()
	router.Use(m.Handler())
	router.DELETE("/api/entries/1", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/entries/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}
}

func TestMiddleware_AllowsOPTIONSRequests(t *testing.T) {
	m := NewMiddleware(true)
	router := gin.New()
	router.Use(m.Handler())
	router.OPTIONS("/api/entries", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/entries", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestMiddleware_AllowsLoginEndpoints(t *testing.T) {
	m := NewMiddleware(true)
	router := gin.New()
	router.Use(m.Handler())
	router.POST("/api/auth/login", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.POST("/api/auth/logout", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	for _, path := range []string{"/api/auth/login", "/api/auth/logout"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200 for %s, got %d", path, w.Code)
		}
	}
}

func TestMiddleware_DisabledAllowsAllRequests(t *testing.T) {
	m := NewMiddleware(false)
	router := gin.New()
	router.Use(m.Handler())
	router.POST("/api/entries", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/entries", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 when disabled, got %d", w.Code)
	}
}

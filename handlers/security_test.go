package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gigtrack/db"
)

func TestWeakPasswordRejected(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux)

	// Test Case: Create user with 1-char password
	t.Run("Create user with weak password", func(t *testing.T) {
		payload := `{"name": "Weak", "email": "weakuser@example.com", "password": "1"}`
		req := httptest.NewRequest("POST", "/api/v1/signup", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "172.16.0.1:12345"
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 Bad Request, got %d", w.Code)
		}

		// Verify NOT in DB
		var count int
		db.DB.QueryRow("SELECT COUNT(*) FROM users WHERE email = 'weakuser@example.com'").Scan(&count)
		if count != 0 {
			t.Errorf("Expected user NOT to be created in DB, found %d", count)
		}
	})

	// Test Case: Create user with strong password
	t.Run("Create user with strong password", func(t *testing.T) {
		payload := `{"name": "Strong", "email": "stronguser@example.com", "password": "correcthorsebatterystaple"}`
		req := httptest.NewRequest("POST", "/api/v1/signup", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "172.16.0.1:12345"
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Errorf("Expected status 201 Created, got %d", w.Code)
		}

		// Verify in DB
		var count int
		db.DB.QueryRow("SELECT COUNT(*) FROM users WHERE email = 'stronguser@example.com'").Scan(&count)
		if count != 1 {
			t.Errorf("Expected user to be created in DB, found %d", count)
		}
	})
}

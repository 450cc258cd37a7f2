package auth

import (
	"errors"
	"net/http/httptest"
	"os"
	"testing"

	"gigtrack/config"
	"gigtrack/db"
	"gigtrack/models"
	"gigtrack/store"
)

func TestMain(m *testing.M) {
	dbPath := "./test_auth.db"
	db.InitDB(dbPath)
	config.AppConfig.SessionKey = "test-secret-key-12345678901234567890123456789012"
	InitStore()

	code := m.Run()

	db.DB.Close()
	os.Remove(dbPath)

	os.Exit(code)
}

func TestSignupLoginRoundTrip(t *testing.T) {
	user, err := Signup("Benz Siangco", "benz@example.com", "secret123")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("Signup returned no user id")
	}

	logged, err := Login("benz@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login after signup failed: %v", err)
	}
	if logged.Email != user.Email || logged.ID != user.ID {
		t.Errorf("Login returned a different identity: %+v vs %+v", logged, user)
	}
	if logged.PasswordHash != "" {
		t.Error("Login leaked the password hash to the caller")
	}
}

func TestSignupSeedsStarterData(t *testing.T) {
	user, err := Signup("Fresh", "fresh@example.com", "secret123")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	clients, _ := store.Clients(user.ID)
	if len(clients) != 3 {
		t.Errorf("Expected 3 starter clients, got %d", len(clients))
	}
	projects, _ := store.Projects(user.ID)
	if len(projects) != 4 {
		t.Errorf("Expected 4 starter projects, got %d", len(projects))
	}
}

func TestSignupDuplicateEmailIsCaseInsensitive(t *testing.T) {
	if _, err := Signup("One", "dup@example.com", "secret123"); err != nil {
		t.Fatalf("First signup failed: %v", err)
	}

	_, err := Signup("Two", "DUP@Example.Com", "secret123")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("Expected ErrDuplicateEmail, got %v", err)
	}
}

func TestSignupWeakPassword(t *testing.T) {
	_, err := Signup("Weak", "weak@example.com", "12345")
	if !errors.Is(err, ErrWeakPassword) {
		t.Errorf("Expected ErrWeakPassword, got %v", err)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	if _, err := Signup("Uni", "uniform@example.com", "secret123"); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	_, wrongPassword := Login("uniform@example.com", "not-the-password")
	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Errorf("Wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}

	_, unknownEmail := Login("nobody@example.com", "secret123")
	if !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Errorf("Unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}

	// Same error either way, nothing reveals which field was wrong
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Error("Login errors differ between unknown email and wrong password")
	}
}

func TestSessionManagement(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)

	user := models.User{ID: 42, Name: "Benz", Email: "benz@session.test"}
	SetSession(w, r, user)

	// Since SetSession modifies the response (cookies), we need to pass them back in a new request
	cookies := w.Result().Cookies()
	r2 := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		r2.AddCookie(c)
	}

	got := CurrentUser(r2)
	if got.ID != user.ID || got.Name != user.Name || got.Email != user.Email {
		t.Errorf("Expected session identity %+v, got %+v", user, got)
	}

	// Logout clears it
	w2 := httptest.NewRecorder()
	ClearSession(w2, r2)

	r3 := httptest.NewRequest("GET", "/", nil)
	if CurrentUser(r3).ID != 0 {
		t.Error("Expected no identity on a fresh request")
	}
}

func TestClearSessionIsIdempotent(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)

	ClearSession(w, r)
	ClearSession(w, r) // never logged in, cleared twice: still fine
}

func TestAPITokenPersistence(t *testing.T) {
	userID := 100

	token := CreateAPIToken(userID)
	if token == "" {
		t.Fatal("Failed to create API token")
	}

	sess, ok := GetAPISession(token)
	if !ok {
		t.Error("Failed to retrieve API session by token")
	}
	if sess.UserID != userID {
		t.Errorf("Expected userID %d, got %d", userID, sess.UserID)
	}

	_, ok = GetAPISession("invalid-token")
	if ok {
		t.Error("GetAPISession succeeded for invalid token")
	}
}

func TestGenerateRandomToken(t *testing.T) {
	t1 := generateRandomToken(32)
	t2 := generateRandomToken(32)

	if t1 == t2 {
		t.Error("generateRandomToken produced identical tokens")
	}
}

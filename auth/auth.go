package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gigtrack/config"
	"gigtrack/db"
	"gigtrack/models"
	"gigtrack/store"

	"github.com/gorilla/sessions"
)

var (
	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrWeakPassword       = errors.New("password must be at least 6 characters long")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

var Store *sessions.CookieStore

func InitStore() {
	// Derive two 32-byte keys from the session key to ensure secure encryption
	// Auth key for signing (HMAC)
	authKey := sha256.Sum256([]byte(config.AppConfig.SessionKey + "auth"))
	// Encryption key for content encryption (AES)
	encKey := sha256.Sum256([]byte(config.AppConfig.SessionKey + "encryption"))

	Store = sessions.NewCookieStore(authKey[:], encKey[:])

	// MaxAge 0 makes this a browser-session cookie: the login lives only as
	// long as the browser, like the original tab-scoped session.
	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		Secure:   config.AppConfig.ListenPort != 8080, // Default to true unless dev port
		SameSite: http.SameSiteLaxMode,
	}
}

const SessionName = "gigtrack-session"

// CurrentUser returns the authenticated identity from the cookie session,
// or a zero User (ID 0) when nobody is logged in.
func CurrentUser(r *http.Request) models.User {
	session, _ := Store.Get(r, SessionName)
	id, ok := session.Values["userID"].(int)
	if !ok || id == 0 {
		return models.User{}
	}
	name, _ := session.Values["name"].(string)
	email, _ := session.Values["email"].(string)
	return models.User{ID: id, Name: name, Email: email}
}

func SetSession(w http.ResponseWriter, r *http.Request, user models.User) {
	session, _ := Store.Get(r, SessionName)
	session.Values["userID"] = user.ID
	session.Values["name"] = user.Name
	session.Values["email"] = user.Email
	session.Save(r, w)
}

// ClearSession logs the user out. Safe to call with no active session.
func ClearSession(w http.ResponseWriter, r *http.Request) {
	session, _ := Store.Get(r, SessionName)
	session.Options.MaxAge = -1
	session.Save(r, w)
}

// ValidatePassword enforces the signup password policy.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrWeakPassword
	}
	return nil
}

// Signup registers a new account and seeds it with the starter clients and
// projects. The email must be unique case-insensitively.
func Signup(name, email, password string) (models.User, error) {
	if err := ValidatePassword(password); err != nil {
		return models.User{}, err
	}

	var count int
	err := db.DB.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&count)
	if err != nil {
		return models.User{}, fmt.Errorf("checking email: %w", err)
	}
	if count > 0 {
		return models.User{}, ErrDuplicateEmail
	}

	hash, err := db.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hashing password: %w", err)
	}

	result, err := db.DB.Exec("INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)", name, email, hash)
	if err != nil {
		// Unique constraint race between the check and the insert
		if strings.Contains(err.Error(), "UNIQUE") {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("creating user: %w", err)
	}

	id, _ := result.LastInsertId()
	user := models.User{ID: int(id), Name: name, Email: email}

	if err := store.Seed(user.ID); err != nil {
		return models.User{}, fmt.Errorf("seeding starter data: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and returns the identity. Unknown email and
// wrong password yield the same ErrInvalidCredentials, and both cost one
// bcrypt comparison so neither can be told apart by timing.
func Login(email, password string) (models.User, error) {
	var user models.User
	err := db.DB.QueryRow("SELECT id, name, email, password_hash FROM users WHERE email = ?", email).
		Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash)

	targetHash := user.PasswordHash
	if err != nil {
		targetHash = db.DummyHash
	}
	match := db.CheckPasswordHash(password, targetHash)

	if err != nil || !match {
		return models.User{}, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}

// Token-based auth for the JSON API (persistent)
type APISession struct {
	UserID int
}

func CreateAPIToken(userID int) string {
	token := generateRandomToken(32)

	_, err := db.DB.Exec("INSERT INTO api_sessions (token, user_id) VALUES (?, ?)", token, userID)
	if err != nil {
		fmt.Printf("Error creating API token in DB: %v\n", err)
		return ""
	}

	return token
}

func GetAPISession(token string) (APISession, bool) {
	var sess APISession
	err := db.DB.QueryRow("SELECT user_id FROM api_sessions WHERE token = ?", token).Scan(&sess.UserID)
	if err != nil {
		return APISession{}, false
	}
	return sess, true
}

func generateRandomToken(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// If we can't generate random numbers, the system is in a critical state.
		// Panic is appropriate here as we cannot securely continue.
		panic(fmt.Sprintf("critical security error: failed to generate random token: %v", err))
	}
	return base64.URLEncoding.EncodeToString(b)
}

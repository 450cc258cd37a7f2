package main

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"gigtrack/auth"
	"gigtrack/config"
	"gigtrack/db"
	"gigtrack/handlers"
	"gigtrack/i18n"

	"github.com/gorilla/csrf"
)

func main() {
	if err := config.LoadConfig("config.json"); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	if err := i18n.LoadTranslations("i18n"); err != nil {
		log.Fatalf("Error loading translations: %v", err)
	}

	db.InitDB("./gigtrack.db")
	defer db.DB.Close()

	auth.InitStore()

	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Register application handlers
	handlers.RegisterHandlers(mux)

	addr := fmt.Sprintf("%s:%d", config.AppConfig.ListenIP, config.AppConfig.ListenPort)
	log.Printf("Server starting on %s (%s)", addr, config.AppConfig.AppName)

	// CSRF Protection
	// We need a 32-byte key. Using session key for now, assuming it's suitable.
	// In production, this should be a separate key.
	csrfMiddleware := csrf.Protect(
		[]byte(config.AppConfig.SessionKey),
		csrf.Secure(false), // Set to true in production with HTTPS
		csrf.Path("/"),
	)
	csrfProtected := csrfMiddleware(mux)

	// The JSON API authenticates with X-API-Token, not cookies, so CSRF
	// tokens don't apply there.
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/v1/") {
			mux.ServeHTTP(w, r)
			return
		}
		csrfProtected.ServeHTTP(w, r)
	})

	if err := http.ListenAndServe(addr, handlers.SecurityHeadersMiddleware(handlers.CORSMiddleware(root))); err != nil {
		log.Fatal(err)
	}
}

package db

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

var DB *sql.DB

const bcryptCost = 14

// DummyHash is compared against when a login targets an unknown email, so
// both branches spend the same time inside bcrypt.
var DummyHash string

func init() {
	hash, err := bcrypt.GenerateFromPassword([]byte("gigtrack-dummy-password"), bcryptCost)
	if err != nil {
		panic(err)
	}
	DummyHash = string(hash)
}

func InitDB(dataSourceName string) {
	var err error
	DB, err = sql.Open("sqlite3", dataSourceName)
	if err != nil {
		log.Fatal(err)
	}

	createTables := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL COLLATE NOCASE,
		password_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS clients (
		id TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		contact TEXT NOT NULL DEFAULT '',
		platform TEXT NOT NULL DEFAULT 'Other',
		PRIMARY KEY (user_id, id),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		client_id TEXT NOT NULL,
		type TEXT NOT NULL,
		form TEXT NOT NULL,
		status TEXT NOT NULL,
		budget REAL NOT NULL DEFAULT 0 CHECK (budget >= 0),
		due_date TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		output_url TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (user_id, id),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS api_sessions (
		token TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);
	`

	_, err = DB.Exec(createTables)
	if err != nil {
		log.Fatalf("Error creating tables: %v", err)
	}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

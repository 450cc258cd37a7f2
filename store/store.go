// Package store owns all reads and writes of clients and projects. Every
// operation is scoped to one user id; handlers never touch those tables
// directly, so row scoping cannot be forgotten in one spot.
package store

import (
	"errors"
	"fmt"

	"gigtrack/db"
	"gigtrack/models"

	"github.com/google/uuid"
)

// ErrUnknownClient is returned when a project is saved against a client id
// that does not exist for this user.
var ErrUnknownClient = errors.New("project references an unknown client")

func Clients(userID int) ([]models.Client, error) {
	rows, err := db.DB.Query("SELECT id, name, contact, platform FROM clients WHERE user_id = ? ORDER BY rowid", userID)
	if err != nil {
		return nil, fmt.Errorf("loading clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Contact, &c.Platform); err != nil {
			continue
		}
		clients = append(clients, c)
	}
	return clients, nil
}

func Projects(userID int) ([]models.Project, error) {
	rows, err := db.DB.Query(`SELECT id, name, client_id, type, form, status, budget, due_date, description, output_url, notes
		FROM projects WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.ClientID, &p.Type, &p.Form, &p.Status,
			&p.Budget, &p.DueDate, &p.Description, &p.OutputURL, &p.Notes); err != nil {
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// SaveClient upserts by id: an existing id is replaced in place, a new or
// empty id appends. Returns the stored record (with its assigned id).
func SaveClient(userID int, c models.Client) (models.Client, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := db.DB.Exec(`INSERT INTO clients (id, user_id, name, contact, platform) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, id) DO UPDATE SET name = excluded.name, contact = excluded.contact, platform = excluded.platform`,
		c.ID, userID, c.Name, c.Contact, c.Platform)
	if err != nil {
		return models.Client{}, fmt.Errorf("saving client: %w", err)
	}
	return c, nil
}

// DeleteClient removes the client and every project referencing it in one
// transaction, so readers never observe a half-cascaded state. Deleting an
// unknown id is a no-op.
func DeleteClient(userID int, id string) error {
	tx, err := db.DB.Begin()
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM projects WHERE user_id = ? AND client_id = ?", userID, id); err != nil {
		return fmt.Errorf("deleting client projects: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM clients WHERE user_id = ? AND id = ?", userID, id); err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	return tx.Commit()
}

// SaveProject upserts by id. The referenced client must exist for this user
// at save time; it is not re-validated afterwards, so a later client delete
// cascades rather than blocking.
func SaveProject(userID int, p models.Project) (models.Project, error) {
	var count int
	if err := db.DB.QueryRow("SELECT COUNT(*) FROM clients WHERE user_id = ? AND id = ?", userID, p.ClientID).Scan(&count); err != nil {
		return models.Project{}, fmt.Errorf("saving project: %w", err)
	}
	if count == 0 {
		return models.Project{}, ErrUnknownClient
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := db.DB.Exec(`INSERT INTO projects (id, user_id, name, client_id, type, form, status, budget, due_date, description, output_url, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, id) DO UPDATE SET name = excluded.name, client_id = excluded.client_id,
			type = excluded.type, form = excluded.form, status = excluded.status, budget = excluded.budget,
			due_date = excluded.due_date, description = excluded.description,
			output_url = excluded.output_url, notes = excluded.notes`,
		p.ID, userID, p.Name, p.ClientID, p.Type, p.Form, p.Status, p.Budget, p.DueDate, p.Description, p.OutputURL, p.Notes)
	if err != nil {
		return models.Project{}, fmt.Errorf("saving project: %w", err)
	}
	return p, nil
}

func DeleteProject(userID int, id string) error {
	_, err := db.DB.Exec("DELETE FROM projects WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// Project fetches a single project by id, for invoice rendering.
func Project(userID int, id string) (models.Project, bool) {
	var p models.Project
	err := db.DB.QueryRow(`SELECT id, name, client_id, type, form, status, budget, due_date, description, output_url, notes
		FROM projects WHERE user_id = ? AND id = ?`, userID, id).
		Scan(&p.ID, &p.Name, &p.ClientID, &p.Type, &p.Form, &p.Status,
			&p.Budget, &p.DueDate, &p.Description, &p.OutputURL, &p.Notes)
	if err != nil {
		return models.Project{}, false
	}
	return p, true
}

// Client fetches a single client by id.
func Client(userID int, id string) (models.Client, bool) {
	var c models.Client
	err := db.DB.QueryRow("SELECT id, name, contact, platform FROM clients WHERE user_id = ? AND id = ?", userID, id).
		Scan(&c.ID, &c.Name, &c.Contact, &c.Platform)
	if err != nil {
		return models.Client{}, false
	}
	return c, true
}

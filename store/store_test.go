package store

import (
	"errors"
	"os"
	"testing"

	"gigtrack/db"
	"gigtrack/models"
)

func TestMain(m *testing.M) {
	dbPath := "./test_store.db"
	db.InitDB(dbPath)

	code := m.Run()

	db.DB.Close()
	os.Remove(dbPath)

	os.Exit(code)
}

func newUser(t *testing.T, email string) int {
	t.Helper()
	res, err := db.DB.Exec("INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)", "Test", email, "x")
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	id, _ := res.LastInsertId()
	return int(id)
}

func TestSaveClientUpsert(t *testing.T) {
	userID := newUser(t, "upsert@example.com")

	saved, err := SaveClient(userID, models.Client{Name: "Acme", Contact: "acme@acme.test", Platform: models.PlatformUpwork})
	if err != nil {
		t.Fatalf("SaveClient failed: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("SaveClient did not assign an id")
	}

	clients, err := Clients(userID)
	if err != nil {
		t.Fatalf("Clients failed: %v", err)
	}
	if len(clients) != 1 {
		t.Fatalf("Expected 1 client, got %d", len(clients))
	}

	// Same id: replaces in place, collection length unchanged
	saved.Name = "Acme Renamed"
	if _, err := SaveClient(userID, saved); err != nil {
		t.Fatalf("SaveClient update failed: %v", err)
	}
	clients, _ = Clients(userID)
	if len(clients) != 1 {
		t.Errorf("Update changed collection length to %d", len(clients))
	}
	if clients[0].Name != "Acme Renamed" {
		t.Errorf("Expected updated name, got %q", clients[0].Name)
	}

	// New id: appends
	if _, err := SaveClient(userID, models.Client{Name: "Beta", Platform: models.PlatformOther}); err != nil {
		t.Fatalf("SaveClient append failed: %v", err)
	}
	clients, _ = Clients(userID)
	if len(clients) != 2 {
		t.Errorf("Expected 2 clients after append, got %d", len(clients))
	}
}

func TestSaveProjectUpsert(t *testing.T) {
	userID := newUser(t, "project-upsert@example.com")
	client, _ := SaveClient(userID, models.Client{Name: "Acme", Platform: models.PlatformUpwork})

	p := models.Project{
		Name: "Site Redesign", ClientID: client.ID,
		Type: models.TypeGraphicDesign, Form: models.FormLongForm, Status: models.StatusNotStarted,
		Budget: 500, DueDate: "2026-10-01",
	}
	saved, err := SaveProject(userID, p)
	if err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}

	projects, _ := Projects(userID)
	if len(projects) != 1 {
		t.Fatalf("Expected 1 project, got %d", len(projects))
	}

	saved.Status = models.StatusCompleted
	if _, err := SaveProject(userID, saved); err != nil {
		t.Fatalf("SaveProject update failed: %v", err)
	}
	projects, _ = Projects(userID)
	if len(projects) != 1 {
		t.Errorf("Update changed collection length to %d", len(projects))
	}
	if projects[0].Status != models.StatusCompleted {
		t.Errorf("Expected updated status, got %q", projects[0].Status)
	}

	if _, err := SaveProject(userID, p); err != nil {
		t.Fatalf("SaveProject append failed: %v", err)
	}
	projects, _ = Projects(userID)
	if len(projects) != 2 {
		t.Errorf("Expected 2 projects after append, got %d", len(projects))
	}
}

func TestSaveProjectUnknownClient(t *testing.T) {
	userID := newUser(t, "unknown-client@example.com")

	_, err := SaveProject(userID, models.Project{Name: "Orphan", ClientID: "nope"})
	if !errors.Is(err, ErrUnknownClient) {
		t.Errorf("Expected ErrUnknownClient, got %v", err)
	}
}

func TestDeleteClientCascades(t *testing.T) {
	userID := newUser(t, "cascade@example.com")

	keep, _ := SaveClient(userID, models.Client{Name: "Keep", Platform: models.PlatformOther})
	doomed, _ := SaveClient(userID, models.Client{Name: "Doomed", Platform: models.PlatformOther})

	SaveProject(userID, models.Project{Name: "A", ClientID: doomed.ID, Type: models.TypeVideoEditing, Form: models.FormShortForm, Status: models.StatusInProgress})
	SaveProject(userID, models.Project{Name: "B", ClientID: doomed.ID, Type: models.TypeVideoEditing, Form: models.FormShortForm, Status: models.StatusCompleted})
	SaveProject(userID, models.Project{Name: "C", ClientID: keep.ID, Type: models.TypeGraphicDesign, Form: models.FormLongForm, Status: models.StatusOnHold})

	if err := DeleteClient(userID, doomed.ID); err != nil {
		t.Fatalf("DeleteClient failed: %v", err)
	}

	projects, _ := Projects(userID)
	for _, p := range projects {
		if p.ClientID == doomed.ID {
			t.Errorf("Project %q still references the deleted client", p.Name)
		}
	}
	if len(projects) != 1 {
		t.Errorf("Expected only the kept client's project, got %d projects", len(projects))
	}

	clients, _ := Clients(userID)
	if len(clients) != 1 || clients[0].ID != keep.ID {
		t.Errorf("Expected only the kept client to remain, got %v", clients)
	}
}

func TestDeleteUnknownIsNoOp(t *testing.T) {
	userID := newUser(t, "noop@example.com")

	if err := DeleteClient(userID, "missing"); err != nil {
		t.Errorf("DeleteClient of unknown id should be a no-op, got %v", err)
	}
	if err := DeleteProject(userID, "missing"); err != nil {
		t.Errorf("DeleteProject of unknown id should be a no-op, got %v", err)
	}
}

func TestUserScoping(t *testing.T) {
	alice := newUser(t, "alice@example.com")
	bob := newUser(t, "bob@example.com")

	SaveClient(alice, models.Client{Name: "Alice Client", Platform: models.PlatformOther})

	clients, _ := Clients(bob)
	if len(clients) != 0 {
		t.Errorf("Bob can see Alice's clients: %v", clients)
	}
}

func TestSeed(t *testing.T) {
	userID := newUser(t, "seed@example.com")

	if err := Seed(userID); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	clients, _ := Clients(userID)
	if len(clients) != 3 {
		t.Errorf("Expected 3 starter clients, got %d", len(clients))
	}
	projects, _ := Projects(userID)
	if len(projects) != 4 {
		t.Errorf("Expected 4 starter projects, got %d", len(projects))
	}
	for _, p := range projects {
		if p.DueDate == "" {
			t.Errorf("Starter project %q has no due date", p.Name)
		}
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	userID := newUser(t, "order@example.com")

	names := []string{"First", "Second", "Third"}
	for _, n := range names {
		SaveClient(userID, models.Client{Name: n, Platform: models.PlatformOther})
	}

	clients, _ := Clients(userID)
	for i, c := range clients {
		if c.Name != names[i] {
			t.Errorf("Position %d: expected %q, got %q", i, names[i], c.Name)
		}
	}

	// Updating the first record must not move it to the end
	first := clients[0]
	first.Contact = "updated"
	SaveClient(userID, first)
	clients, _ = Clients(userID)
	if clients[0].Name != "First" {
		t.Errorf("Update moved the record; first is now %q", clients[0].Name)
	}
}

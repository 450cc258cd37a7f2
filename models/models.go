package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Client struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	Platform string `json:"platform"`
}

type Project struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ClientID    string  `json:"client_id"`
	Type        string  `json:"type"`
	Form        string  `json:"form"`
	Status      string  `json:"status"`
	Budget      float64 `json:"budget"`
	DueDate     string  `json:"due_date"` // YYYY-MM-DD
	Description string  `json:"description"`
	OutputURL   string  `json:"output_url,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// Enumerated field values. Stored as display strings so the database stays
// readable and templates never need a mapping table.
const (
	PlatformUpwork       = "Upwork"
	PlatformOnlineJobsPH = "OnlineJobs.ph"
	PlatformFacebook     = "Facebook"
	PlatformDiscord      = "Discord"
	PlatformOther        = "Other"

	TypeGraphicDesign = "Graphic Design"
	TypeVideoEditing  = "Video Editing"

	FormLongForm  = "Long Form"
	FormShortForm = "Short Form"

	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusRevisions  = "Revisions"
	StatusCompleted  = "Completed"
	StatusOnHold     = "On Hold"
	StatusCancelled  = "Cancelled"
)

var Platforms = []string{PlatformUpwork, PlatformOnlineJobsPH, PlatformFacebook, PlatformDiscord, PlatformOther}

var ProjectTypes = []string{TypeGraphicDesign, TypeVideoEditing}

var ContentForms = []string{FormLongForm, FormShortForm}

var ProjectStatuses = []string{StatusNotStarted, StatusInProgress, StatusRevisions, StatusCompleted, StatusOnHold, StatusCancelled}

package store

import (
	"time"

	"gigtrack/models"
)

// Starter records installed for every new account so the dashboard is not
// empty on first login.
func starterClients() []models.Client {
	return []models.Client{
		{ID: "c1", Name: "Innovate Corp", Contact: "contact@innovate.com", Platform: models.PlatformUpwork},
		{ID: "c2", Name: "Social Buzz", Contact: "Social Buzz FB Page", Platform: models.PlatformFacebook},
		{ID: "c3", Name: "Gamers Guild", Contact: "gamerguild#1234", Platform: models.PlatformDiscord},
	}
}

func starterProjects(now time.Time) []models.Project {
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format("2006-01-02")
	}
	return []models.Project{
		{
			ID: "p1", Name: "Q3 Brand Campaign Graphics", ClientID: "c1",
			Type: models.TypeGraphicDesign, Form: models.FormShortForm, Status: models.StatusInProgress,
			Budget: 2500, DueDate: day(10),
			Description: "Create a set of social media graphics for the upcoming Q3 brand awareness campaign.",
			Notes:       "Client wants a modern and vibrant feel. Focus on blue and yellow brand colors.",
		},
		{
			ID: "p2", Name: "Podcast Episode Edit #25", ClientID: "c2",
			Type: models.TypeVideoEditing, Form: models.FormLongForm, Status: models.StatusCompleted,
			Budget: 800, DueDate: day(-5),
			Description: "Full video and audio edit for the 45-minute podcast episode #25, including intro/outro and color grading.",
			OutputURL:   "https://example.com/podcast-edit-25",
		},
		{
			ID: "p3", Name: "YouTube Shorts Compilation", ClientID: "c3",
			Type: models.TypeVideoEditing, Form: models.FormShortForm, Status: models.StatusRevisions,
			Budget: 1200, DueDate: day(3),
			Description: "Compile 10 short-form videos from recent live stream highlights for YouTube Shorts and TikTok.",
		},
		{
			ID: "p4", Name: "New Logo Concept", ClientID: "c1",
			Type: models.TypeGraphicDesign, Form: models.FormShortForm, Status: models.StatusNotStarted,
			Budget: 1500, DueDate: day(20),
			Description: "Develop three initial logo concepts for the new \"Innovate Labs\" sub-brand.",
		},
	}
}

// Seed installs the starter clients and projects for a fresh account.
func Seed(userID int) error {
	for _, c := range starterClients() {
		if _, err := SaveClient(userID, c); err != nil {
			return err
		}
	}
	for _, p := range starterProjects(time.Now()) {
		if _, err := SaveProject(userID, p); err != nil {
			return err
		}
	}
	return nil
}

// Package views computes read-only projections over the client and project
// collections. Everything here is a pure function of its inputs and is
// recomputed on every request; there is no cached state to invalidate.
package views

import (
	"sort"
	"time"

	"gigtrack/models"
)

type Summary struct {
	TotalClients   int     `json:"total_clients"`
	ActiveProjects int     `json:"active_projects"`
	TotalEarnings  float64 `json:"total_earnings"`
}

// Summarize returns the dashboard headline numbers. Active means In Progress
// or Revisions; earnings count only Completed projects.
func Summarize(clients []models.Client, projects []models.Project) Summary {
	s := Summary{TotalClients: len(clients)}
	for _, p := range projects {
		switch p.Status {
		case models.StatusInProgress, models.StatusRevisions:
			s.ActiveProjects++
		case models.StatusCompleted:
			s.TotalEarnings += p.Budget
		}
	}
	return s
}

// Wildcard matches any value in a Filter predicate.
const Wildcard = "All"

func matches(filter, value string) bool {
	return filter == "" || filter == Wildcard || filter == value
}

// Filter returns the projects satisfying every active predicate, in their
// original order. "All" or empty means no constraint on that field.
func Filter(projects []models.Project, status, typ, clientID string) []models.Project {
	var out []models.Project
	for _, p := range projects {
		if matches(status, p.Status) && matches(typ, p.Type) && matches(clientID, p.ClientID) {
			out = append(out, p)
		}
	}
	return out
}

type ClientEarnings struct {
	ClientID string  `json:"client_id"`
	Name     string  `json:"name"`
	Total    float64 `json:"total"`
}

// EarningsByClient groups Completed projects by client, sums budgets, and
// sorts descending by total. Clients that were deleted since the project was
// completed show up as "Unknown". Ties keep first-seen grouping order.
func EarningsByClient(clients []models.Client, projects []models.Project) []ClientEarnings {
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}

	totals := make(map[string]float64)
	var order []string
	for _, p := range projects {
		if p.Status != models.StatusCompleted {
			continue
		}
		if _, ok := totals[p.ClientID]; !ok {
			order = append(order, p.ClientID)
		}
		totals[p.ClientID] += p.Budget
	}

	out := make([]ClientEarnings, 0, len(order))
	for _, id := range order {
		name, ok := names[id]
		if !ok {
			name = "Unknown"
		}
		out = append(out, ClientEarnings{ClientID: id, Name: name, Total: totals[id]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

// ByDueDate buckets projects by their YYYY-MM-DD due date. Projects without
// a due date are left out. A day with nothing due simply has no key.
func ByDueDate(projects []models.Project) map[string][]models.Project {
	buckets := make(map[string][]models.Project)
	for _, p := range projects {
		if p.DueDate == "" {
			continue
		}
		buckets[p.DueDate] = append(buckets[p.DueDate], p)
	}
	return buckets
}

// DueCounts returns the per-day project count, for the compact calendar's
// has-anything-due markers.
func DueCounts(projects []models.Project) map[string]int {
	counts := make(map[string]int)
	for _, p := range projects {
		if p.DueDate != "" {
			counts[p.DueDate]++
		}
	}
	return counts
}

// CalendarDay is one cell of a month grid. Day 0 is a leading blank before
// the first weekday of the month.
type CalendarDay struct {
	Day      int
	Date     string // YYYY-MM-DD, empty for blanks
	Projects []models.Project
}

// MonthGrid lays out one month as calendar cells: leading blanks up to the
// weekday of the 1st (Sunday-first), then one cell per day carrying the
// projects due that day.
func MonthGrid(year int, month time.Month, projects []models.Project) []CalendarDay {
	buckets := ByDueDate(projects)

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	grid := make([]CalendarDay, 0, int(first.Weekday())+daysInMonth)
	for i := 0; i < int(first.Weekday()); i++ {
		grid = append(grid, CalendarDay{})
	}
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		grid = append(grid, CalendarDay{Day: day, Date: date, Projects: buckets[date]})
	}
	return grid
}

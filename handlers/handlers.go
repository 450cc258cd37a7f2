package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"gigtrack/auth"
	"gigtrack/config"
	"gigtrack/i18n"
	"gigtrack/invoice"
	"gigtrack/models"
	"gigtrack/store"
	"gigtrack/suggest"
	"gigtrack/views"

	"github.com/dchest/captcha"
	"github.com/gorilla/csrf"
)

func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/", IndexHandler)
	mux.HandleFunc("/login", LoginHandler)
	mux.HandleFunc("/signup", SignupHandler)
	mux.HandleFunc("/logout", LogoutHandler)
	mux.HandleFunc("/dashboard", DashboardHandler)
	mux.HandleFunc("/projects", ProjectsHandler)
	mux.HandleFunc("/projects/save", SaveProjectHandler)
	mux.HandleFunc("/projects/delete", DeleteProjectHandler)
	mux.HandleFunc("/projects/suggest", SuggestDescriptionHandler)
	mux.HandleFunc("/clients", ClientsHandler)
	mux.HandleFunc("/clients/save", SaveClientHandler)
	mux.HandleFunc("/clients/delete", DeleteClientHandler)
	mux.HandleFunc("/calendar", CalendarHandler)
	mux.HandleFunc("/invoice", InvoiceHandler)

	// Captcha images for the signup form
	mux.Handle("/captcha/", captcha.Server(captcha.StdWidth, captcha.StdHeight))

	// JSON API endpoints (mobile/extension use)
	mux.HandleFunc("/api/v1/login", APILoginHandler)
	mux.HandleFunc("/api/v1/signup", APISignupHandler)
	mux.HandleFunc("/api/v1/clients", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			APIListClientsHandler(w, r)
		case http.MethodPost:
			APISaveClientHandler(w, r)
		case http.MethodDelete:
			APIDeleteClientHandler(w, r)
		default:
			sendJSONResponse(w, http.StatusMethodNotAllowed, APIResponse{Status: "error", Message: "Method not allowed"})
		}
	})
	mux.HandleFunc("/api/v1/projects", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			APIListProjectsHandler(w, r)
		case http.MethodPost:
			APISaveProjectHandler(w, r)
		case http.MethodDelete:
			APIDeleteProjectHandler(w, r)
		default:
			sendJSONResponse(w, http.StatusMethodNotAllowed, APIResponse{Status: "error", Message: "Method not allowed"})
		}
	})
	mux.HandleFunc("/api/v1/summary", APISummaryHandler)
	mux.HandleFunc("/api/v1/earnings", APIEarningsHandler)
	mux.HandleFunc("/api/v1/calendar", APICalendarHandler)
	mux.HandleFunc("/api/v1/invoice", APIInvoiceHandler)
	mux.HandleFunc("/api/v1/projects/suggest", APISuggestHandler)
}

func IndexHandler(w http.ResponseWriter, r *http.Request) {
	if auth.CurrentUser(r).ID != 0 {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "index.html", map[string]any{"AppName": config.AppConfig.AppName})
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		lang := i18n.DetectLanguage(r)
		ip := getClientIP(r)
		if !loginLimiter.Allow(ip) {
			w.Header().Set("HX-Retarget", "#error-message")
			w.Write([]byte(i18n.T(lang, "TooManyAttempts")))
			return
		}

		email := r.FormValue("email")
		password := r.FormValue("password")

		user, err := auth.Login(email, password)
		if err != nil {
			loginLimiter.RecordFailure(ip)
			w.Header().Set("HX-Trigger", "loginError")
			// HTMX doesn't process HX-Trigger on 401/403 by default.
			// We return 200 OK for HTMX requests to ensure the trigger works.
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Retarget", "#error-message")
				w.Write([]byte(i18n.T(lang, "InvalidCredentials")))
			} else {
				w.WriteHeader(http.StatusUnauthorized)
			}
			return
		}

		loginLimiter.Reset(ip)
		auth.SetSession(w, r, user)
		w.Header().Set("HX-Redirect", "/dashboard")
		return
	}
	renderTemplate(w, r, "login.html", nil)
}

func SignupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		lang := i18n.DetectLanguage(r)
		ip := getClientIP(r)
		if !signupLimiter.Allow(ip) {
			w.Header().Set("HX-Retarget", "#error-message")
			w.Write([]byte(i18n.T(lang, "TooManyAttempts")))
			return
		}

		if !captcha.VerifyString(r.FormValue("captcha_id"), r.FormValue("captcha_solution")) {
			w.Header().Set("HX-Retarget", "#error-message")
			w.Write([]byte(i18n.T(lang, "CaptchaFailed")))
			return
		}

		name := r.FormValue("name")
		email := r.FormValue("email")
		password := r.FormValue("password")

		user, err := auth.Signup(name, email, password)
		if err != nil {
			w.Header().Set("HX-Retarget", "#error-message")
			switch {
			case errors.Is(err, auth.ErrDuplicateEmail):
				w.Write([]byte(i18n.T(lang, "EmailAlreadyExists")))
			case errors.Is(err, auth.ErrWeakPassword):
				w.Write([]byte(i18n.T(lang, "PasswordTooShort")))
			default:
				log.Printf("Error during signup: %v", err)
				w.Write([]byte(i18n.T(lang, "InternalServerError")))
			}
			return
		}

		// Rate signup creation per IP as well
		signupLimiter.RecordFailure(ip)

		auth.SetSession(w, r, user)
		w.Header().Set("HX-Redirect", "/dashboard")
		return
	}
	renderTemplate(w, r, "signup.html", map[string]any{"CaptchaID": captcha.New()})
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)
	if user.ID == 0 {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	clients, err := store.Clients(user.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	projects, err := store.Projects(user.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Deadlines within the next 7 days, today included.
	today := time.Now().Format("2006-01-02")
	horizon := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	dueSoon := 0
	for date, n := range views.DueCounts(projects) {
		if date >= today && date <= horizon {
			dueSoon += n
		}
	}

	renderTemplate(w, r, "dashboard.html", map[string]any{
		"User":     user,
		"Summary":  views.Summarize(clients, projects),
		"Earnings": views.EarningsByClient(clients, projects),
		"DueSoon":  dueSoon,
		"Projects": projects,
		"Clients":  clients,
	})
}

func ProjectsHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)
	if user.ID == 0 {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	clients, err := store.Clients(user.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	projects, err := store.Projects(user.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	status := r.URL.Query().Get("status")
	typ := r.URL.Query().Get("type")
	clientID := r.URL.Query().Get("client")

	clientNames := make(map[string]string, len(clients))
	for _, c := range clients {
		clientNames[c.ID] = c.Name
	}

	renderTemplate(w, r, "projects.html", map[string]any{
		"User":         user,
		"Projects":     views.Filter(projects, status, typ, clientID),
		"Clients":      clients,
		"ClientNames":  clientNames,
		"StatusFilter": status,
		"TypeFilter":   typ,
		"ClientFilter": clientID,
		"Statuses":     models.ProjectStatuses,
		"Types":        models.ProjectTypes,
		"Forms":        models.ContentForms,
	})
}

func projectFromForm(r *http.Request) (models.Project, error) {
	budget := 0.0
	if v := r.FormValue("budget"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			return models.Project{}, errors.New("invalid budget")
		}
		budget = parsed
	}
	return models.Project{
		ID:          r.FormValue("id"),
		Name:        r.FormValue("name"),
		ClientID:    r.FormValue("client_id"),
		Type:        r.FormValue("type"),
		Form:        r.FormValue("form"),
		Status:      r.FormValue("status"),
		Budget:      budget,
		DueDate:     r.FormValue("due_date"),
		Description: r.FormValue("description"),
		OutputURL:   r.FormValue("output_url"),
		Notes:       r.FormValue("notes"),
	}, nil
}

func SaveProjectHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)
	if user.ID == 0 || r.Method != http.MethodPost {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	lang := i18n.DetectLanguage(r)

	project, err := projectFromForm(r)
	if err != nil {
		w.Header().Set("HX-Retarget", "#project-error")
		w.Write([]byte(i18n.T(lang, "InvalidRequestBody")))
		return
	}

	if _, err := store.SaveProject(user.ID, project); err != nil {
		if errors.Is(err, store.ErrUnknownClient) {
			w.Header().Set("HX-Retarget", "#project-error")
			w.Write([]byte(i18n.T(lang, "UnknownClient")))
			return
		}
		log.Printf("Error saving project: %v", err)
		http.Error(w, i18n.T(lang, "NotSaved"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("HX-Redirect", "/projects")
}

func DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)
	if user.ID == 0 || r.Method != http.MethodPost {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := store.DeleteProject(user.ID, r.FormValue("id")); err != nil {
		lang := i18n.DetectLanguage(r)
		log.Printf("Error deleting project: %v", err)
		http.Error(w, i18n.T(lang, "NotSaved"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("HX-Trigger", "projectChanged")
	w.WriteHeader(http.StatusOK)
}

func SuggestDescriptionHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)
	if user.ID == 0 || r.Method != http.MethodPost {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	lang := i18n.DetectLanguage(r)

	text, err := suggest.Description(r.FormValue("keywords"))
	if err != nil {
		w.Header().Set("HX-Retarget", "#suggest-error")
		if errors.Is(err, suggest.ErrNotConfigured) {
			w.Write([]byte(i18n.T(lang, "SuggestionsDisabled")))
		} else {
			log.Printf("Error generating description: %v", err)
			w.Write([]byte(i18n.T(lang, "SuggestionUnavailable")))
		}
		return
	}

	w.Write([]byte(text))
}

func ClientsHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)
	if user.ID == 0 {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	clients, err := store.Clients(user.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	renderTemplate(w, r, "clients.html", map[string]any{
		"User":      user,
		"Clients":   clients,
		"Platforms": models.Platforms,
	})
}

func SaveClientHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)
	if user.ID == 0 || r.Method != http.MethodPost {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	client := models.Client{
		ID:       r.FormValue("id"),
		Name:     r.FormValue("name"),
		Contact:  r.FormValue("contact"),
		Platform: r.FormValue("platform"),
	}

	if _, err := store.SaveClient(user.ID, client); err != nil {
		lang := i18n.DetectLanguage(r)
		log.Printf("Error saving client: %v", err)
		http.Error(w, i18n.T(lang, "NotSaved"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("HX-Redirect", "/clients")
}

func DeleteClientHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)
	if user.ID == 0 || r.Method != http.MethodPost {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Deletes the client and every project referencing it, atomically.
	if err := store.DeleteClient(user.ID, r.FormValue("id")); err != nil {
		lang := i18n.DetectLanguage(r)
		log.Printf("Error deleting client: %v", err)
		http.Error(w, i18n.T(lang, "NotSaved"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("HX-Trigger", "clientChanged")
	w.WriteHeader(http.StatusOK)
}

func CalendarHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)
	if user.ID == 0 {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	projects, err := store.Projects(user.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	now := time.Now()
	year, month := now.Year(), now.Month()
	if m := r.URL.Query().Get("month"); m != "" {
		if parsed, err := time.Parse("2006-01", m); err == nil {
			year, month = parsed.Year(), parsed.Month()
		}
	}

	prev := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	next := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)

	renderTemplate(w, r, "calendar.html", map[string]any{
		"User":      user,
		"Grid":      views.MonthGrid(year, month, projects),
		"Month":     month.String(),
		"Year":      year,
		"PrevMonth": prev.Format("2006-01"),
		"NextMonth": next.Format("2006-01"),
		"Today":     now.Format("2006-01-02"),
	})
}

func InvoiceHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)
	if user.ID == 0 {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	lang := i18n.DetectLanguage(r)

	project, ok := store.Project(user.ID, r.URL.Query().Get("project"))
	if !ok {
		http.Error(w, i18n.T(lang, "ProjectNotFound"), http.StatusNotFound)
		return
	}

	// A deleted client degrades to a placeholder rather than failing the render
	client, ok := store.Client(user.ID, project.ClientID)
	if !ok {
		client = models.Client{Name: i18n.T(lang, "UnknownClientLabel")}
	}

	html, err := invoice.Render(project, client, config.AppConfig.AppName)
	if err != nil {
		log.Printf("Error rendering invoice: %v", err)
		http.Error(w, i18n.T(lang, "InternalServerError"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	lang := i18n.DetectLanguage(r)

	funcMap := template.FuncMap{
		"T": func(key string) string {
			return i18n.T(lang, key)
		},
	}

	tmpl, err := template.New(name).Funcs(funcMap).ParseFiles("templates/layout.html", "templates/"+name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Prepare CSRF field
	csrfField := csrf.TemplateField(r)

	// If data is a map, ensure AppName and Lang are there
	if m, ok := data.(map[string]any); ok {
		if _, exists := m["AppName"]; !exists {
			m["AppName"] = config.AppConfig.AppName
		}
		m["Lang"] = lang
		m["csrfField"] = csrfField
	} else if data == nil {
		data = map[string]any{
			"AppName":   config.AppConfig.AppName,
			"Lang":      lang,
			"csrfField": csrfField,
		}
	}

	tmpl.ExecuteTemplate(w, "layout", data)
}

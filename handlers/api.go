package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"gigtrack/auth"
	"gigtrack/config"
	"gigtrack/i18n"
	"gigtrack/invoice"
	"gigtrack/models"
	"gigtrack/store"
	"gigtrack/suggest"
	"gigtrack/views"
)

type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func sendJSONResponse(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func getAPISession(r *http.Request) (auth.APISession, bool) {
	token := r.Header.Get("X-API-Token")
	if token == "" {
		return auth.APISession{}, false
	}
	return auth.GetAPISession(token)
}

func APILoginHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	if r.Method != http.MethodPost {
		sendJSONResponse(w, http.StatusMethodNotAllowed, APIResponse{Status: "error", Message: i18n.T(lang, "MethodNotAllowed")})
		return
	}

	ip := getClientIP(r)
	if !loginLimiter.Allow(ip) {
		sendJSONResponse(w, http.StatusTooManyRequests, APIResponse{Status: "error", Message: i18n.T(lang, "TooManyAttempts")})
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidRequestBody")})
		return
	}

	user, err := auth.Login(input.Email, input.Password)
	if err != nil {
		loginLimiter.RecordFailure(ip)
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidCredentials")})
		return
	}

	loginLimiter.Reset(ip)

	token := auth.CreateAPIToken(user.ID)

	sendJSONResponse(w, http.StatusOK, APIResponse{
		Status: "success",
		Data: map[string]any{
			"token":   token,
			"user_id": user.ID,
			"name":    user.Name,
			"email":   user.Email,
		},
	})
}

func APISignupHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	if r.Method != http.MethodPost {
		sendJSONResponse(w, http.StatusMethodNotAllowed, APIResponse{Status: "error", Message: i18n.T(lang, "MethodNotAllowed")})
		return
	}

	ip := getClientIP(r)
	if !signupLimiter.Allow(ip) {
		sendJSONResponse(w, http.StatusTooManyRequests, APIResponse{Status: "error", Message: i18n.T(lang, "TooManyAttempts")})
		return
	}

	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidRequestBody")})
		return
	}

	user, err := auth.Signup(input.Name, input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword):
			sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "PasswordTooShort")})
		case errors.Is(err, auth.ErrDuplicateEmail):
			sendJSONResponse(w, http.StatusConflict, APIResponse{Status: "error", Message: i18n.T(lang, "EmailAlreadyExists")})
		default:
			log.Printf("Error during signup (API): %v", err)
			sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
		}
		return
	}

	// Record signup attempt to limit rate of creation per IP
	signupLimiter.RecordFailure(ip)

	token := auth.CreateAPIToken(user.ID)

	sendJSONResponse(w, http.StatusCreated, APIResponse{
		Status: "success",
		Data: map[string]any{
			"token":   token,
			"user_id": user.ID,
			"name":    user.Name,
			"email":   user.Email,
		},
	})
}

func APIListClientsHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	session, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	clients, err := store.Clients(session.UserID)
	if err != nil {
		log.Printf("Error listing clients (API): %v", err)
		sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
		return
	}

	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: clients})
}

func APISaveClientHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	session, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	var input models.Client
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidRequestBody")})
		return
	}

	saved, err := store.SaveClient(session.UserID, input)
	if err != nil {
		log.Printf("Error saving client (API): %v", err)
		sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "NotSaved")})
		return
	}

	sendJSONResponse(w, http.StatusCreated, APIResponse{Status: "success", Data: saved})
}

func APIDeleteClientHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	session, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	var input struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidRequestBody")})
		return
	}

	if err := store.DeleteClient(session.UserID, input.ID); err != nil {
		log.Printf("Error deleting client (API): %v", err)
		sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "NotSaved")})
		return
	}

	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Message: i18n.T(lang, "ClientDeleted")})
}

func APIListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	session, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	projects, err := store.Projects(session.UserID)
	if err != nil {
		log.Printf("Error listing projects (API): %v", err)
		sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
		return
	}

	q := r.URL.Query()
	filtered := views.Filter(projects, q.Get("status"), q.Get("type"), q.Get("client"))

	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: filtered})
}

func APISaveProjectHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	session, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	var input models.Project
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Budget < 0 {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidRequestBody")})
		return
	}

	saved, err := store.SaveProject(session.UserID, input)
	if err != nil {
		if errors.Is(err, store.ErrUnknownClient) {
			sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "UnknownClient")})
			return
		}
		log.Printf("Error saving project (API): %v", err)
		sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "NotSaved")})
		return
	}

	sendJSONResponse(w, http.StatusCreated, APIResponse{Status: "success", Data: saved})
}

func APIDeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	session, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	var input struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidRequestBody")})
		return
	}

	if err := store.DeleteProject(session.UserID, input.ID); err != nil {
		log.Printf("Error deleting project (API): %v", err)
		sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "NotSaved")})
		return
	}

	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Message: i18n.T(lang, "ProjectDeleted")})
}

func APISummaryHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	session, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	clients, err := store.Clients(session.UserID)
	if err == nil {
		var projects []models.Project
		projects, err = store.Projects(session.UserID)
		if err == nil {
			sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: views.Summarize(clients, projects)})
			return
		}
	}
	log.Printf("Error computing summary (API): %v", err)
	sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
}

func APIEarningsHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	session, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	clients, err := store.Clients(session.UserID)
	if err == nil {
		var projects []models.Project
		projects, err = store.Projects(session.UserID)
		if err == nil {
			sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: views.EarningsByClient(clients, projects)})
			return
		}
	}
	log.Printf("Error computing earnings (API): %v", err)
	sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
}

func APICalendarHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	session, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	projects, err := store.Projects(session.UserID)
	if err != nil {
		log.Printf("Error loading projects for calendar (API): %v", err)
		sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
		return
	}

	if m := r.URL.Query().Get("month"); m != "" {
		parsed, err := time.Parse("2006-01", m)
		if err != nil {
			sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidRequestBody")})
			return
		}
		sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: views.MonthGrid(parsed.Year(), parsed.Month(), projects)})
		return
	}

	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: views.ByDueDate(projects)})
}

func APIInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	session, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	var input struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidRequestBody")})
		return
	}

	project, ok := store.Project(session.UserID, input.ProjectID)
	if !ok {
		sendJSONResponse(w, http.StatusNotFound, APIResponse{Status: "error", Message: i18n.T(lang, "ProjectNotFound")})
		return
	}

	client, ok := store.Client(session.UserID, project.ClientID)
	if !ok {
		client = models.Client{Name: i18n.T(lang, "UnknownClientLabel")}
	}

	html, err := invoice.Render(project, client, config.AppConfig.AppName)
	if err != nil {
		log.Printf("Error rendering invoice (API): %v", err)
		sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
		return
	}

	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: map[string]string{"html": html}})
}

func APISuggestHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	if r.Method != http.MethodPost {
		sendJSONResponse(w, http.StatusMethodNotAllowed, APIResponse{Status: "error", Message: i18n.T(lang, "MethodNotAllowed")})
		return
	}
	_, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	var input struct {
		Keywords string `json:"keywords"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidRequestBody")})
		return
	}

	text, err := suggest.Description(input.Keywords)
	if err != nil {
		if errors.Is(err, suggest.ErrNotConfigured) {
			sendJSONResponse(w, http.StatusServiceUnavailable, APIResponse{Status: "error", Message: i18n.T(lang, "SuggestionsDisabled")})
			return
		}
		log.Printf("Error generating description (API): %v", err)
		sendJSONResponse(w, http.StatusBadGateway, APIResponse{Status: "error", Message: i18n.T(lang, "SuggestionUnavailable")})
		return
	}

	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: map[string]string{"description": text}})
}

package handlers

import (
	"net/http"

	"github.com/isdelr/emote-panel-be/internal/auth"
	"github.com/isdelr/emote-panel-be/internal/models"
	"github.com/isdelr/emote-panel-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles login, logout and session lookups.
type AuthHandler struct {
	settings services.SettingsServiceProvider
	events   services.EventServiceProvider
	sessions *auth.Sessions
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(settings services.SettingsServiceProvider, events services.EventServiceProvider, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{settings: settings, events: events, sessions: sessions}
}

type sessionResponse struct {
	View        auth.View          `json:"view"`
	Maintenance bool               `json:"maintenance"`
	GetKeyURL   string             `json:"getKeyUrl"`
	SocialLinks models.SocialLinks `json:"socialLinks"`
	Token       string             `json:"token,omitempty"`
}

type loginError struct {
	Error        string `json:"error"`
	ClearAfterMs int    `json:"clearAfterMs"`
	Maintenance  bool   `json:"maintenance,omitempty"`
}

// Session reports which view the caller may see plus the public settings
// the login screen needs.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	settings := h.settings.GetSettings(r.Context())
	writeJSON(w, http.StatusOK, newSessionResponse(auth.ViewOf(r.Context()), settings, ""))
}

// UserLogin handles the access key form.
func (h *AuthHandler) UserLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Key string `json:"key"`
	}
	if err := decodeBody(r, &payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	settings := h.settings.GetSettings(r.Context())
	if !auth.UserLoginAllowed(settings) {
		writeJSON(w, http.StatusServiceUnavailable, loginError{Error: "Under maintenance", Maintenance: true})
		return
	}
	if !auth.AuthenticateUser(payload.Key, settings) {
		writeJSON(w, http.StatusUnauthorized, loginError{Error: "Invalid Access Key", ClearAfterMs: loginErrorClearAfterMs})
		return
	}
	h.issue(w, auth.ViewUser, settings)
}

// AdminLogin handles the admin email and password form. It stays reachable
// during maintenance.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	settings := h.settings.GetSettings(r.Context())
	if !auth.AuthenticateAdmin(payload.Email, payload.Password, settings) {
		log.Warn().Str("email", payload.Email).Msg("Rejected admin login")
		h.record("auth.admin.fail", "warn", "Rejected admin login for "+payload.Email)
		writeJSON(w, http.StatusUnauthorized, loginError{Error: "Invalid Credentials", ClearAfterMs: loginErrorClearAfterMs})
		return
	}
	h.record("auth.admin", "info", "Admin signed in as "+payload.Email)
	h.issue(w, auth.ViewAdmin, settings)
}

// Logout ends the session and returns the caller to the login view.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if claims := auth.ClaimsFrom(r.Context()); claims != nil {
		h.sessions.Revoke(claims.SessionID)
	}
	h.sessions.ClearCookie(w)
	settings := h.settings.GetSettings(r.Context())
	writeJSON(w, http.StatusOK, newSessionResponse(auth.ViewLogin, settings, ""))
}

func (h *AuthHandler) issue(w http.ResponseWriter, view auth.View, settings models.AppSettings) {
	token, _, err := h.sessions.Issue(view)
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue session token")
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	h.sessions.SetCookie(w, token)
	writeJSON(w, http.StatusOK, newSessionResponse(view, settings, token))
}

func (h *AuthHandler) record(eventType, level, message string) {
	if h.events == nil {
		return
	}
	if err := h.events.CreateEvent(eventType, level, message); err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}

func newSessionResponse(view auth.View, settings models.AppSettings, token string) sessionResponse {
	public := services.PublicSettings(settings)
	return sessionResponse{
		View:        view,
		Maintenance: public.MaintenanceMode,
		GetKeyURL:   public.GetKeyURL,
		SocialLinks: public.SocialLinks,
		Token:       token,
	}
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/openchat-labs/chat-backend/internal/api/middleware"
	"github.com/openchat-labs/chat-backend/internal/api/response"
	"github.com/openchat-labs/chat-backend/internal/config"
	"github.com/openchat-labs/chat-backend/internal/service"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// AuthHandler handles login, Google sign-in, logout and profile
type AuthHandler struct {
	auth      *service.AuthService
	google    *service.GoogleAuthenticator
	session   config.SessionConfig
	clientURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService, google *service.GoogleAuthenticator, session config.SessionConfig, clientURL string) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		google:    google,
		session:   session,
		clientURL: clientURL,
	}
}

func (h *AuthHandler) sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.session.CookieSecure,
		SameSite: h.session.SameSite(),
	}
}

// Login looks up a user by email and opens a session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.Message(w, http.StatusBadRequest, "Valid email is required")
		return
	}

	user, session, err := h.auth.LoginWithEmail(r.Context(), input.Email)
	if err == service.ErrUserNotFound {
		response.Message(w, http.StatusBadRequest, "User not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Login failed")
		response.Message(w, http.StatusInternalServerError, "Server error")
		return
	}

	http.SetCookie(w, h.sessionCookie(session.Token, int(h.session.TTL.Seconds())))
	response.JSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// GoogleLogin redirects the browser to the Google consent screen
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.google.Enabled() {
		response.Message(w, http.StatusInternalServerError, "Google sign-in is not configured")
		return
	}

	url, err := h.google.AuthURL()
	if err != nil {
		log.Error().Err(err).Msg("Failed to build Google auth URL")
		response.Message(w, http.StatusInternalServerError, "Server error")
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// GoogleCallback completes the sign-in and redirects back to the client
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")

	user, err := h.google.Exchange(r.Context(), state, code)
	if err != nil {
		log.Error().Err(err).Msg("Google callback failed")
		http.Redirect(w, r, h.clientURL+"/login", http.StatusFound)
		return
	}

	session, err := h.auth.StartSession(r.Context(), user)
	if err != nil {
		log.Error().Err(err).Msg("Failed to start session")
		http.Redirect(w, r, h.clientURL+"/login", http.StatusFound)
		return
	}

	http.SetCookie(w, h.sessionCookie(session.Token, int(h.session.TTL.Seconds())))
	http.Redirect(w, r, h.clientURL+"/auth/callback", http.StatusFound)
}

// Logout destroys the session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.session.CookieName); err == nil {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			log.Error().Err(err).Msg("Session destruction failed")
			response.Message(w, http.StatusInternalServerError, "Error logging out")
			return
		}
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	response.Message(w, http.StatusOK, "Logged out successfully")
}

// Profile returns the current user document
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Message(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.auth.Profile(r.Context(), userID)
	if err == service.ErrUserNotFound {
		response.Message(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Profile lookup failed")
		response.Message(w, http.StatusInternalServerError, "Server error")
		return
	}

	response.JSON(w, http.StatusOK, user)
}

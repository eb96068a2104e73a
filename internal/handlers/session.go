package handlers

import (
	"net/http"
	"time"

	"github.com/nkiryanov/luhncheck/internal/handlers/render"
	"github.com/nkiryanov/luhncheck/internal/models"
)

const refreshCookie = "refreshtoken"

type sessionResponse struct {
	Login     string    `json:"login"`
	Access    string    `json:"access_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Access token goes to Authorization header and body, refresh token to the HttpOnly cookie
func renderSession(w http.ResponseWriter, s models.Session) {
	w.Header().Set("Authorization", "Bearer "+s.Access.Value)
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    s.Refresh.Value,
		Path:     "/api/user",
		Expires:  s.Refresh.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	render.JSON(w, sessionResponse{
		Login:     s.Login,
		Access:    s.Access.Value,
		ExpiresAt: s.Access.ExpiresAt,
	})
}

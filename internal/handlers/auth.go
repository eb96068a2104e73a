package handlers

import (
	"errors"
	"net/http"

	"github.com/nkiryanov/luhncheck/internal/apperrors"
	"github.com/nkiryanov/luhncheck/internal/handlers/render"
	"github.com/nkiryanov/luhncheck/internal/logger"
)

type credentials struct {
	Login    string `json:"login" validate:"required,min=2,max=50,nonul"`
	Password string `json:"password" validate:"required,min=8,max=256"`
}

func handleRegister(auth authService, logger logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[credentials](w, r)
		if err != nil {
			return
		}

		s, err := auth.Register(r.Context(), data.Login, data.Password)
		switch {
		case errors.Is(err, apperrors.ErrLoginTaken):
			render.ServiceError(w, "Login is taken", http.StatusConflict)
		case err != nil:
			logger.Error("register failed", "login", data.Login, "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		default:
			renderSession(w, s)
		}
	}
}

func handleLogin(auth authService, logger logger.Logger) http.HandlerFunc {
	// Rules of registration are not repeated: a wrong login is just a wrong one
	type loginRequest struct {
		Login    string `json:"login" validate:"required,nonul"`
		Password string `json:"password" validate:"required"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[loginRequest](w, r)
		if err != nil {
			return
		}

		s, err := auth.Login(r.Context(), data.Login, data.Password)
		switch {
		case errors.Is(err, apperrors.ErrBadCredentials):
			render.ServiceError(w, "Wrong login or password", http.StatusUnauthorized)
		case err != nil:
			logger.Error("login failed", "login", data.Login, "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		default:
			renderSession(w, s)
		}
	}
}

func handleRefresh(auth authService, logger logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(refreshCookie)
		if err != nil || cookie.Value == "" {
			render.ServiceError(w, "Refresh token is missing", http.StatusUnauthorized)
			return
		}

		s, err := auth.Refresh(r.Context(), cookie.Value)
		switch {
		case errors.Is(err, apperrors.ErrRefreshTokenExpired):
			render.ServiceError(w, "Refresh token is expired", http.StatusUnauthorized)
		case errors.Is(err, apperrors.ErrRefreshTokenNotFound),
			errors.Is(err, apperrors.ErrRefreshTokenIsUsed),
			errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "Refresh token is not valid", http.StatusUnauthorized)
		case err != nil:
			logger.Error("refresh failed", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		default:
			renderSession(w, s)
		}
	}
}

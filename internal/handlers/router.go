package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nkiryanov/luhncheck/internal/handlers/middleware"
	"github.com/nkiryanov/luhncheck/internal/handlers/render"
	"github.com/nkiryanov/luhncheck/internal/logger"
	"github.com/nkiryanov/luhncheck/internal/models"
)

func NewRouter(
	authService authService,
	checkService checkService,
	logger logger.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", handleRegister(authService, logger))
		r.Post("/login", handleLogin(authService, logger))
		r.Post("/refresh", handleRefresh(authService, logger))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(authService))

		r.Route("/api/checks", func(r chi.Router) {
			r.Post("/", handleCreateCheck(checkService, logger))
			r.Get("/", handleListChecks(checkService, logger))
			r.Post("/batch", handleCreateBatch(checkService, logger))
			r.Get("/stats", handleStats(checkService, logger))
		})
	})

	// Check digit does not touch user data, so no auth
	r.Post("/api/checkdigit", handleCheckDigit(checkService))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.ServiceError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		render.ServiceError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}

type authService interface {
	// Has to return apperrors.ErrLoginTaken if login is registered already
	Register(ctx context.Context, login string, password string) (models.Session, error)

	// Has to return apperrors.ErrBadCredentials on unknown login or wrong password
	Login(ctx context.Context, login string, password string) (models.Session, error)

	// Has to return apperrors.ErrRefreshTokenExpired, ErrRefreshTokenNotFound or ErrRefreshTokenIsUsed
	// if the token can't be exchanged
	Refresh(ctx context.Context, refresh string) (models.Session, error)

	Authenticate(access string) (models.User, error)
}

type checkService interface {
	Check(ctx context.Context, number string, user *models.User) (models.Check, error)

	// Has to return apperrors.ErrBatchEmpty or apperrors.ErrBatchTooLarge if batch size is out of limits
	CheckBatch(ctx context.Context, numbers []string, user *models.User) ([]models.Check, error)

	List(ctx context.Context, user *models.User) ([]models.Check, error)
	Stats(ctx context.Context, user *models.User) (models.CheckStats, error)

	// Has to return apperrors.ErrPayloadInvalid if payload is not a digits sequence
	CheckDigit(payload string) (digit int, number string, err error)
}

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/luhncheck/internal/apperrors"
	"github.com/nkiryanov/luhncheck/internal/handlers/render"
	"github.com/nkiryanov/luhncheck/internal/handlers/middleware"
	"github.com/nkiryanov/luhncheck/internal/logger"
	"github.com/nkiryanov/luhncheck/internal/models"
)

type checkResponse struct {
	ID        uuid.UUID `json:"id"`
	Number    string    `json:"number"`
	Valid     bool      `json:"valid"`
	Digits    int       `json:"digits"`
	Reason    string    `json:"reason"`
	CheckedAt time.Time `json:"checked_at"`
}

func newCheckResponse(c models.Check) checkResponse {
	return checkResponse{
		ID:        c.ID,
		Number:    c.Number,
		Valid:     c.Valid,
		Digits:    c.Digits,
		Reason:    c.Reason,
		CheckedAt: c.CheckedAt,
	}
}

func newCheckListResponse(checks []models.Check) []checkResponse {
	resp := make([]checkResponse, 0, len(checks))
	for _, c := range checks {
		resp = append(resp, newCheckResponse(c))
	}
	return resp
}

func handleCreateCheck(checks checkService, logger logger.Logger) http.HandlerFunc {
	type CheckRequest struct {
		// Malformed number is checked and stored as not valid.
		// Only the length is capped, and NUL is refused as Postgres text can't hold it.
		Number string `json:"number" validate:"max=256,nonul"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		data, err := render.BindAndValidate[CheckRequest](w, r)
		if err != nil {
			return
		}

		c, err := checks.Check(r.Context(), data.Number, &user)
		if err != nil {
			logger.Error("check failed", "user", user.ID, "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, newCheckResponse(c))
	}
}

func handleCreateBatch(checks checkService, logger logger.Logger) http.HandlerFunc {
	type BatchRequest struct {
		Numbers []string `json:"numbers" validate:"required,min=1,dive,max=256,nonul"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		data, err := render.BindAndValidate[BatchRequest](w, r)
		if err != nil {
			return
		}

		result, err := checks.CheckBatch(r.Context(), data.Numbers, &user)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrBatchTooLarge):
				render.ServiceError(w, "Too many numbers in batch", http.StatusRequestEntityTooLarge)
			case errors.Is(err, apperrors.ErrBatchEmpty):
				render.ServiceError(w, "Batch is empty", http.StatusBadRequest)
			default:
				logger.Error("batch check failed", "user", user.ID, "size", len(data.Numbers), "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, newCheckListResponse(result))
	}
}

func handleListChecks(checks checkService, logger logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		list, err := checks.List(r.Context(), &user)
		if err != nil {
			logger.Error("list checks failed", "user", user.ID, "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if len(list) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		render.JSON(w, newCheckListResponse(list))
	}
}

func handleStats(checks checkService, logger logger.Logger) http.HandlerFunc {
	type StatsResponse struct {
		Total      int64           `json:"total"`
		Valid      int64           `json:"valid"`
		Invalid    int64           `json:"invalid"`
		ValidShare decimal.Decimal `json:"valid_share"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		stats, err := checks.Stats(r.Context(), &user)
		if err != nil {
			logger.Error("stats failed", "user", user.ID, "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, StatsResponse{
			Total:      stats.Total,
			Valid:      stats.Valid,
			Invalid:    stats.Invalid,
			ValidShare: stats.ValidShare,
		})
	}
}

func handleCheckDigit(checks checkService) http.HandlerFunc {
	type CheckDigitRequest struct {
		Payload string `json:"payload" validate:"required,max=256,luhnpayload"`
	}
	type CheckDigitResponse struct {
		Payload    string `json:"payload"`
		CheckDigit int    `json:"check_digit"`
		Number     string `json:"number"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[CheckDigitRequest](w, r)
		if err != nil {
			return
		}

		digit, number, err := checks.CheckDigit(data.Payload)
		if err != nil {
			render.ServiceError(w, "Payload must contain digits and spaces only", http.StatusBadRequest)
			return
		}

		render.JSON(w, CheckDigitResponse{
			Payload:    data.Payload,
			CheckDigit: digit,
			Number:     number,
		})
	}
}

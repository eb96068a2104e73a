package check

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/luhncheck/internal/apperrors"
	"github.com/nkiryanov/luhncheck/internal/luhn"
	"github.com/nkiryanov/luhncheck/internal/models"
	"github.com/nkiryanov/luhncheck/internal/repository/postgres"
	"github.com/nkiryanov/luhncheck/internal/testutil"
)

func TestNewStats(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		valid   int64
		invalid int64
		share   string
	}{
		{"no checks", 0, 0, 0, "0"},
		{"all valid", 4, 4, 0, "1"},
		{"none valid", 3, 0, 3, "0"},
		{"half", 2, 1, 1, "0.5"},
		{"rounded", 3, 2, 1, "0.6667"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewStats(tt.total, tt.valid)

			require.Equal(t, tt.total, got.Total)
			require.Equal(t, tt.valid, got.Valid)
			require.Equal(t, tt.invalid, got.Invalid)
			require.Equal(t, tt.share, got.ValidShare.String())
		})
	}
}

func TestCheckService_CheckDigit(t *testing.T) {
	s := NewService(Config{}, nil)

	t.Run("ok", func(t *testing.T) {
		digit, number, err := s.CheckDigit("7992739871")

		require.NoError(t, err)
		require.Equal(t, 3, digit)
		require.Equal(t, "79927398713", number)
	})

	t.Run("keeps separators", func(t *testing.T) {
		_, number, err := s.CheckDigit("055 444 28")

		require.NoError(t, err)
		require.Equal(t, "055 444 285", number)
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, _, err := s.CheckDigit("12a")

		require.ErrorIs(t, err, apperrors.ErrPayloadInvalid)
		require.ErrorIs(t, err, luhn.ErrInvalidSymbol)
	})
}

func TestCheckService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgres(t)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	withTx := func(t *testing.T, fn func(s *CheckService, user *models.User)) {
		testutil.InTx(t, pg.Pool, func(tx pgx.Tx) {
			user := &models.User{ID: testutil.User(t, tx, "checker"), Login: "checker"}

			s := NewService(Config{BatchLimit: 3}, postgres.NewStorage(tx))
			s.now = func() time.Time { return now }

			fn(s, user)
		})
	}

	t.Run("defaults", func(t *testing.T) {
		s := NewService(Config{}, nil)

		require.Equal(t, DefaultBatchLimit, s.BatchLimit())
	})

	t.Run("Check", func(t *testing.T) {
		tests := []struct {
			number     string
			valid      bool
			reason     luhn.Reason
			digits     int
			normalized string
		}{
			{"4539 3195 0343 6467", true, luhn.ReasonOK, 16, "4539319503436467"},
			{"8273 1232 7352 0569", false, luhn.ReasonChecksum, 16, "8273123273520569"},
			{"0", false, luhn.ReasonTooFewDigits, 1, "0"},
			{"1 2 3 a", false, luhn.ReasonInvalidSymbol, 0, "123a"},
		}

		for _, tt := range tests {
			t.Run(tt.number, func(t *testing.T) {
				withTx(t, func(s *CheckService, user *models.User) {
					got, err := s.Check(t.Context(), tt.number, user)

					require.NoError(t, err, "not valid number is not an error")
					require.Equal(t, tt.number, got.Number)
					require.Equal(t, tt.normalized, got.Normalized)
					require.Equal(t, tt.valid, got.Valid)
					require.Equal(t, string(tt.reason), got.Reason)
					require.Equal(t, tt.digits, got.Digits)
					require.Equal(t, user.ID, got.UserID)
					require.WithinDuration(t, now, got.CheckedAt, 0)
				})
			})
		}
	})

	t.Run("CheckBatch", func(t *testing.T) {
		t.Run("ok", func(t *testing.T) {
			withTx(t, func(s *CheckService, user *models.User) {
				got, err := s.CheckBatch(t.Context(), []string{"059", "0", "59"}, user)

				require.NoError(t, err)
				require.Len(t, got, 3)
				require.Equal(t, []bool{true, false, true}, []bool{got[0].Valid, got[1].Valid, got[2].Valid}, "results must keep numbers order")

				stats, err := s.Stats(t.Context(), user)
				require.NoError(t, err)
				require.Equal(t, int64(3), stats.Total)
			})
		})

		t.Run("too large", func(t *testing.T) {
			withTx(t, func(s *CheckService, user *models.User) {
				_, err := s.CheckBatch(t.Context(), []string{"059", "0", "59", "00"}, user)

				require.ErrorIs(t, err, apperrors.ErrBatchTooLarge)
			})
		})

		t.Run("empty", func(t *testing.T) {
			withTx(t, func(s *CheckService, user *models.User) {
				_, err := s.CheckBatch(t.Context(), nil, user)

				require.ErrorIs(t, err, apperrors.ErrBatchEmpty)
			})
		})
	})

	t.Run("List and Stats", func(t *testing.T) {
		withTx(t, func(s *CheckService, user *models.User) {
			for _, number := range []string{"059", "123", "59"} {
				_, err := s.Check(t.Context(), number, user)
				require.NoError(t, err)
			}

			checks, err := s.List(t.Context(), user)
			require.NoError(t, err)
			require.Len(t, checks, 3)

			stats, err := s.Stats(t.Context(), user)
			require.NoError(t, err)
			require.Equal(t, int64(3), stats.Total)
			require.Equal(t, int64(2), stats.Valid)
			require.Equal(t, int64(1), stats.Invalid)
			require.Equal(t, "0.6667", stats.ValidShare.String())
		})
	})
}

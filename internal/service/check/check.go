package check

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/luhncheck/internal/apperrors"
	"github.com/nkiryanov/luhncheck/internal/luhn"
	"github.com/nkiryanov/luhncheck/internal/models"
	"github.com/nkiryanov/luhncheck/internal/repository"
)

const (
	DefaultBatchLimit = 100

	// Places ValidShare is rounded to
	sharePlaces = 4
)

type Config struct {
	// Max numbers in one batch; DefaultBatchLimit if not set
	BatchLimit int
}

type CheckService struct {
	storage    repository.Storage
	batchLimit int

	// Overridable in tests
	now func() time.Time
}

func NewService(cfg Config, storage repository.Storage) *CheckService {
	if cfg.BatchLimit <= 0 {
		cfg.BatchLimit = DefaultBatchLimit
	}

	return &CheckService{
		storage:    storage,
		batchLimit: cfg.BatchLimit,
		now:        time.Now,
	}
}

func (s *CheckService) BatchLimit() int {
	return s.batchLimit
}

// Check validates the number and stores the result
// Not valid number is not an error: it is stored with its rejection reason
func (s *CheckService) Check(ctx context.Context, number string, user *models.User) (models.Check, error) {
	c, err := s.storage.Check().CreateCheck(ctx, s.inspect(number, user.ID))
	if err != nil {
		return c, fmt.Errorf("can't save check. Err: %w", err)
	}
	return c, nil
}

// CheckBatch validates all numbers and stores results in one transaction
// Results are in the same order as numbers
func (s *CheckService) CheckBatch(ctx context.Context, numbers []string, user *models.User) ([]models.Check, error) {
	switch {
	case len(numbers) == 0:
		return nil, apperrors.ErrBatchEmpty
	case len(numbers) > s.batchLimit:
		return nil, fmt.Errorf("%w: got %d, limit %d", apperrors.ErrBatchTooLarge, len(numbers), s.batchLimit)
	}

	checks := make([]models.Check, 0, len(numbers))
	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		for _, number := range numbers {
			c, err := st.Check().CreateCheck(ctx, s.inspect(number, user.ID))
			if err != nil {
				return err
			}
			checks = append(checks, c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("can't save checks batch. Err: %w", err)
	}

	return checks, nil
}

// List user checks, newest first
func (s *CheckService) List(ctx context.Context, user *models.User) ([]models.Check, error) {
	return s.storage.Check().ListChecks(ctx, user.ID)
}

func (s *CheckService) Stats(ctx context.Context, user *models.User) (models.CheckStats, error) {
	total, valid, err := s.storage.Check().CountChecks(ctx, user.ID)
	if err != nil {
		return models.CheckStats{}, err
	}

	return NewStats(total, valid), nil
}

// CheckDigit returns the payload completed with its check digit
func (s *CheckService) CheckDigit(payload string) (digit int, number string, err error) {
	digit, err = luhn.CheckDigit(payload)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %w", apperrors.ErrPayloadInvalid, err)
	}

	return digit, fmt.Sprintf("%s%d", payload, digit), nil
}

func NewStats(total int64, valid int64) models.CheckStats {
	stats := models.CheckStats{
		Total:      total,
		Valid:      valid,
		Invalid:    total - valid,
		ValidShare: decimal.Zero,
	}

	if total > 0 {
		stats.ValidShare = decimal.NewFromInt(valid).
			DivRound(decimal.NewFromInt(total), sharePlaces)
	}

	return stats
}

func (s *CheckService) inspect(number string, userID uuid.UUID) models.Check {
	report := luhn.Inspect(number)

	return models.Check{
		ID:         uuid.New(),
		UserID:     userID,
		Number:     number,
		Normalized: luhn.Normalize(number),
		Valid:      report.Valid,
		Digits:     report.Digits,
		Reason:     string(report.Reason),
		CheckedAt:  s.now().UTC(),
	}
}

package service

import (
	"context"
	"errors"
	"time"

	"hotelavail/internal/domain"
	"hotelavail/internal/models"

	"github.com/rs/zerolog"
)

var errNoForm = errors.New("no form in progress")

// StateService keeps each bot user's half-filled availability form.
type StateService struct {
	stateRepo domain.StateRepository
	logger    *zerolog.Logger
}

func NewStateService(stateRepo domain.StateRepository, logger *zerolog.Logger) *StateService {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &StateService{
		stateRepo: stateRepo,
		logger:    logger,
	}
}

// GetUserState returns nil without error when the user has no form.
func (s *StateService) GetUserState(ctx context.Context, userID int64) (*models.UserState, error) {
	state, err := s.stateRepo.GetState(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get user state")
		return nil, err
	}
	return state, nil
}

// SetUserState replaces the form. data is copied.
func (s *StateService) SetUserState(ctx context.Context, userID int64, step string, data map[string]string) error {
	fields := make(map[string]string, len(data))
	for k, v := range data {
		fields[k] = v
	}
	return s.stateRepo.SetState(ctx, &models.UserState{
		UserID:      userID,
		CurrentStep: step,
		TempData:    fields,
	})
}

// AdvanceForm stores one answered field and moves the form to step. The
// passed state is not modified.
func (s *StateService) AdvanceForm(ctx context.Context, state *models.UserState, step, key, value string) error {
	if state == nil {
		return errNoForm
	}
	next := state.Clone()
	next.CurrentStep = step
	next.TempData[key] = value

	s.logger.Debug().
		Int64("user_id", next.UserID).
		Str("step", step).
		Str("field", key).
		Msg("form advanced")
	return s.stateRepo.SetState(ctx, next)
}

func (s *StateService) ClearUserState(ctx context.Context, userID int64) error {
	return s.stateRepo.ClearState(ctx, userID)
}

func (s *StateService) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return s.stateRepo.CheckRateLimit(ctx, userID, limit, window)
}

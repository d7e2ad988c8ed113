package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"hotelavail/internal/domain"
	"hotelavail/internal/metrics"
	"hotelavail/internal/models"

	"github.com/rs/zerolog"
)

const defaultRetryAfter = time.Minute

// FailoverStateRepository serves bot forms from primary (Redis) and switches
// to fallback (memory) when a call fails. While switched, primary is tried
// again once retryAfter has passed since the last failure. Forms written to
// the fallback are not copied back.
type FailoverStateRepository struct {
	primary    domain.StateRepository
	fallback   domain.StateRepository
	logger     *zerolog.Logger
	retryAfter time.Duration
	now        func() time.Time

	mu       sync.Mutex
	down     bool
	failedAt time.Time
}

func NewFailoverStateRepository(primary, fallback domain.StateRepository, logger *zerolog.Logger) *FailoverStateRepository {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &FailoverStateRepository{
		primary:    primary,
		fallback:   fallback,
		logger:     logger,
		retryAfter: defaultRetryAfter,
		now:        time.Now,
	}
}

// IsDown reports whether calls are currently served by the fallback.
func (r *FailoverStateRepository) IsDown() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.down
}

func (r *FailoverStateRepository) usePrimary() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.down || r.now().Sub(r.failedAt) > r.retryAfter
}

func (r *FailoverStateRepository) setDown(down bool, op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case down && !r.down:
		r.logger.Error().Err(err).Str("op", op).Msg("Redis state store failed, keeping forms in memory")
	case !down && r.down:
		r.logger.Info().Msg("Redis state store recovered")
	}
	if down {
		r.failedAt = r.now()
	}
	r.down = down
	metrics.SetStateFallback(down)
}

// call runs fn against primary when it is usable and against fallback
// otherwise. A cancelled caller context is returned as is and does not
// count as a primary failure.
func call[T any](ctx context.Context, r *FailoverStateRepository, op string, fn func(domain.StateRepository) (T, error)) (T, error) {
	if r.usePrimary() {
		v, err := fn(r.primary)
		if err == nil {
			r.setDown(false, op, nil)
			return v, nil
		}
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return v, err
		}
		r.setDown(true, op, err)
	}
	return fn(r.fallback)
}

func (r *FailoverStateRepository) GetState(ctx context.Context, userID int64) (*models.UserState, error) {
	return call(ctx, r, "get_state", func(s domain.StateRepository) (*models.UserState, error) {
		return s.GetState(ctx, userID)
	})
}

func (r *FailoverStateRepository) SetState(ctx context.Context, state *models.UserState) error {
	_, err := call(ctx, r, "set_state", func(s domain.StateRepository) (struct{}, error) {
		return struct{}{}, s.SetState(ctx, state)
	})
	return err
}

func (r *FailoverStateRepository) ClearState(ctx context.Context, userID int64) error {
	_, err := call(ctx, r, "clear_state", func(s domain.StateRepository) (struct{}, error) {
		return struct{}{}, s.ClearState(ctx, userID)
	})
	return err
}

func (r *FailoverStateRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return call(ctx, r, "check_rate_limit", func(s domain.StateRepository) (bool, error) {
		return s.CheckRateLimit(ctx, userID, limit, window)
	})
}

package service

import (
	"context"
	"errors"

	"hotelavail/internal/availability"
	"hotelavail/internal/catalog"
	"hotelavail/internal/metrics"
	"hotelavail/internal/models"

	"github.com/rs/zerolog"
)

const outcomeOK = "ok"

// AvailabilityService runs availability checks against a loaded catalog and
// records each outcome.
type AvailabilityService struct {
	catalog *catalog.Catalog
	logger  *zerolog.Logger
}

func NewAvailabilityService(cat *catalog.Catalog, logger *zerolog.Logger) *AvailabilityService {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &AvailabilityService{catalog: cat, logger: logger}
}

func (s *AvailabilityService) Check(ctx context.Context, q models.Query) (models.Availability, error) {
	result, err := availability.Compute(s.catalog, q)
	s.record(ctx, "check", err).
		Str("hotel_id", q.HotelID).
		Str("start_date", q.StartDate).
		Str("end_date", q.EndDate).
		Str("room_type", q.RoomType).
		Int("total_rooms", result.TotalRooms).
		Int("booked_rooms", result.BookedRooms).
		Int("available_rooms", result.AvailableRooms).
		Msg("availability checked")
	return result, err
}

func (s *AvailabilityService) Report(ctx context.Context, hotelID, startDate, endDate string) ([]models.RoomTypeAvailability, error) {
	rows, err := availability.Report(s.catalog, hotelID, startDate, endDate)
	s.record(ctx, "report", err).
		Str("hotel_id", hotelID).
		Str("start_date", startDate).
		Str("end_date", endDate).
		Int("room_types", len(rows)).
		Msg("availability report built")
	return rows, err
}

func (s *AvailabilityService) Hotels() []models.Hotel {
	return s.catalog.Hotels()
}

func (s *AvailabilityService) Hotel(id string) (models.Hotel, bool) {
	return s.catalog.Hotel(id)
}

// record counts the outcome and returns a log event at a level matching it.
func (s *AvailabilityService) record(ctx context.Context, kind string, err error) *zerolog.Event {
	l := s.logger
	if ctxLogger := zerolog.Ctx(ctx); ctxLogger.GetLevel() != zerolog.Disabled {
		l = ctxLogger
	}

	outcome := outcomeOK
	var event *zerolog.Event
	var verr availability.ValidationError
	switch {
	case err == nil:
		event = l.Info()
	case errors.As(err, &verr):
		outcome = verr.Code()
		event = l.Info().Str("validation_error", verr.Error())
	default:
		outcome = "error"
		event = l.Error().Err(err)
	}

	if kind == "check" {
		metrics.IncCheck(outcome)
	}
	return event.Str("kind", kind).Str("outcome", outcome)
}

package service

import (
	"context"
	"time"

	"marketplace/internal/availability"
	"marketplace/internal/model"

	"github.com/rs/zerolog"
)

// AvailabilitySource fetches the raw inputs of slot generation
type AvailabilitySource interface {
	AvailabilityRules(ctx context.Context, providerID string) ([]model.AvailabilityRule, error)
	AvailabilityExceptions(ctx context.Context, providerID string, date time.Time) ([]model.AvailabilityException, error)
	Appointments(ctx context.Context, providerID string, from, to time.Time) ([]model.Appointment, error)
}

// AvailabilityService derives a provider's slots on a date
type AvailabilityService struct {
	source      AvailabilitySource
	location    *time.Location
	granularity time.Duration
	log         zerolog.Logger
}

// NewAvailabilityService creates a new availability service. Rule clocks are
// read in loc (UTC when nil).
func NewAvailabilityService(source AvailabilitySource, loc *time.Location, granularity time.Duration, log zerolog.Logger) *AvailabilityService {
	if loc == nil {
		loc = time.UTC
	}
	if granularity <= 0 {
		granularity = availability.DefaultGranularity
	}
	return &AvailabilityService{
		source:      source,
		location:    loc,
		granularity: granularity,
		log:         log.With().Str("component", "availability").Logger(),
	}
}

// Slots returns the slots of providerID on date (YYYY-MM-DD). A non-positive
// granularity uses the configured default. Malformed rows are skipped.
func (s *AvailabilityService) Slots(ctx context.Context, providerID, date string, granularity time.Duration) (*model.AvailabilityResponse, error) {
	day, err := availability.ParseDate(date)
	if err != nil {
		return nil, err
	}
	if granularity <= 0 {
		granularity = s.granularity
	}

	ruleRows, err := s.source.AvailabilityRules(ctx, providerID)
	if err != nil {
		return nil, err
	}
	exceptionRows, err := s.source.AvailabilityExceptions(ctx, providerID, day)
	if err != nil {
		return nil, err
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.location)
	appointments, err := s.source.Appointments(ctx, providerID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	slots := availability.Generate(availability.Input{
		ProviderID:  providerID,
		Date:        day,
		Rules:       s.rules(ruleRows),
		Exceptions:  s.exceptions(exceptionRows),
		Bookings:    bookings(appointments),
		Granularity: granularity,
		Location:    s.location,
	})

	return &model.AvailabilityResponse{
		ProviderID:  providerID,
		Date:        day.Format(availability.DateLayout),
		Granularity: int(granularity / time.Minute),
		Slots:       slots,
	}, nil
}

func (s *AvailabilityService) rules(rows []model.AvailabilityRule) []availability.Rule {
	out := make([]availability.Rule, 0, len(rows))
	for _, row := range rows {
		open, err1 := availability.ParseClock(row.OpenTime)
		closing, err2 := availability.ParseClock(row.CloseTime)
		if err1 != nil || err2 != nil || row.Weekday < 0 || row.Weekday > 6 {
			s.log.Warn().Str("provider", row.ProviderID).Int("weekday", row.Weekday).Msg("Skipping malformed availability rule")
			continue
		}
		out = append(out, availability.Rule{
			ProviderID: row.ProviderID,
			Weekday:    time.Weekday(row.Weekday),
			Open:       open,
			Close:      closing,
		})
	}
	return out
}

func (s *AvailabilityService) exceptions(rows []model.AvailabilityException) []availability.Exception {
	out := make([]availability.Exception, 0, len(rows))
	for _, row := range rows {
		kind := availability.ExceptionKind(row.Kind)
		switch kind {
		case availability.ExceptionClosed, availability.ExceptionOverride, availability.ExceptionExtra:
		default:
			s.log.Warn().Str("id", row.ID).Str("kind", row.Kind).Msg("Skipping availability exception of unknown kind")
			continue
		}

		e := availability.Exception{
			ProviderID: row.ProviderID,
			Date:       row.Date,
			Kind:       kind,
			UpdatedAt:  row.UpdatedAt,
		}
		if row.OpenTime != nil && row.CloseTime != nil {
			open, err1 := availability.ParseClock(*row.OpenTime)
			closing, err2 := availability.ParseClock(*row.CloseTime)
			if err1 != nil || err2 != nil {
				s.log.Warn().Str("id", row.ID).Msg("Skipping availability exception with malformed times")
				continue
			}
			e.Open, e.Close = &open, &closing
		}
		out = append(out, e)
	}
	return out
}

func bookings(rows []model.Appointment) []availability.Booking {
	out := make([]availability.Booking, 0, len(rows))
	for _, row := range rows {
		out = append(out, availability.Booking{
			ProviderID: row.ProviderID,
			Start:      row.StartsAt,
			Duration:   time.Duration(row.DurationMinutes) * time.Minute,
			Cancelled:  row.Status == model.AppointmentCancelled,
		})
	}
	return out
}

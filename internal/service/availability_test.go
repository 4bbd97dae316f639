package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace/internal/availability"
	"marketplace/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAvailability struct {
	rules        []model.AvailabilityRule
	exceptions   []model.AvailabilityException
	appointments []model.Appointment
	err          error
	from, to     time.Time
}

func (f *fakeAvailability) AvailabilityRules(context.Context, string) ([]model.AvailabilityRule, error) {
	return f.rules, f.err
}

func (f *fakeAvailability) AvailabilityExceptions(context.Context, string, time.Time) ([]model.AvailabilityException, error) {
	return f.exceptions, nil
}

func (f *fakeAvailability) Appointments(_ context.Context, _ string, from, to time.Time) ([]model.Appointment, error) {
	f.from, f.to = from, to
	return f.appointments, nil
}

func statuses(slots []availability.Slot) map[string]availability.Status {
	out := make(map[string]availability.Status, len(slots))
	for _, s := range slots {
		out[s.Time] = s.Status
	}
	return out
}

func TestAvailabilityService_Slots(t *testing.T) {
	src := &fakeAvailability{
		rules: []model.AvailabilityRule{
			{ProviderID: "p1", Weekday: 1, OpenTime: "08:00", CloseTime: "12:00"},
			{ProviderID: "p1", Weekday: 9, OpenTime: "08:00", CloseTime: "12:00"},
			{ProviderID: "p1", Weekday: 1, OpenTime: "bogus", CloseTime: "12:00"},
		},
		appointments: []model.Appointment{
			{ID: "a1", ProviderID: "p1", StartsAt: time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC), DurationMinutes: 60, Status: model.AppointmentConfirmed},
			{ID: "a2", ProviderID: "p1", StartsAt: time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC), DurationMinutes: 60, Status: model.AppointmentCancelled},
		},
	}
	svc := NewAvailabilityService(src, time.UTC, time.Hour, zerolog.Nop())

	resp, err := svc.Slots(context.Background(), "p1", "2024-05-06", 0)
	require.NoError(t, err)

	assert.Equal(t, "p1", resp.ProviderID)
	assert.Equal(t, "2024-05-06", resp.Date)
	assert.Equal(t, 60, resp.Granularity)
	assert.Equal(t, map[string]availability.Status{
		"08:00": availability.StatusOpen,
		"09:00": availability.StatusBooked,
		"10:00": availability.StatusOpen,
		"11:00": availability.StatusOpen,
	}, statuses(resp.Slots))

	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), src.from)
	assert.Equal(t, time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC), src.to)
}

func TestAvailabilityService_Exceptions(t *testing.T) {
	closedAll := model.AvailabilityException{ID: "e1", ProviderID: "p1", Date: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), Kind: "closed"}
	unknown := model.AvailabilityException{ID: "e2", ProviderID: "p1", Date: closedAll.Date, Kind: "holiday"}
	rules := []model.AvailabilityRule{{ProviderID: "p1", Weekday: 1, OpenTime: "08:00", CloseTime: "12:00"}}

	svc := NewAvailabilityService(&fakeAvailability{rules: rules, exceptions: []model.AvailabilityException{closedAll}}, nil, 0, zerolog.Nop())
	resp, err := svc.Slots(context.Background(), "p1", "2024-05-06", 30*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, 30, resp.Granularity)

	svc = NewAvailabilityService(&fakeAvailability{rules: rules, exceptions: []model.AvailabilityException{unknown}}, nil, 0, zerolog.Nop())
	resp, err = svc.Slots(context.Background(), "p1", "2024-05-06", 0)
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 4)

	open, closing := "13:00", "15:00"
	override := model.AvailabilityException{ID: "e3", ProviderID: "p1", Date: closedAll.Date, Kind: "override", OpenTime: &open, CloseTime: &closing}
	svc = NewAvailabilityService(&fakeAvailability{rules: rules, exceptions: []model.AvailabilityException{override}}, nil, 0, zerolog.Nop())
	resp, err = svc.Slots(context.Background(), "p1", "2024-05-06", 0)
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "13:00", resp.Slots[0].Time)
}

func TestAvailabilityService_Errors(t *testing.T) {
	svc := NewAvailabilityService(&fakeAvailability{}, nil, 0, zerolog.Nop())
	_, err := svc.Slots(context.Background(), "p1", "06/05/2024", 0)
	assert.True(t, errors.Is(err, availability.ErrInvalidDate))

	svc = NewAvailabilityService(&fakeAvailability{err: errors.New("timeout")}, nil, 0, zerolog.Nop())
	_, err = svc.Slots(context.Background(), "p1", "2024-05-06", 0)
	assert.Error(t, err)
}

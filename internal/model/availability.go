package model

import "time"

// AvailabilityRule is a provider's recurring opening window on a weekday
// (0 = Sunday).
type AvailabilityRule struct {
	ProviderID string `json:"providerId" db:"provider_id"`
	Weekday    int    `json:"weekday" db:"weekday"`
	OpenTime   string `json:"openTime" db:"open_time"`
	CloseTime  string `json:"closeTime" db:"close_time"`
}

// AvailabilityException is a dated change to a provider's hours
type AvailabilityException struct {
	ID         string    `json:"id" db:"id"`
	ProviderID string    `json:"providerId" db:"provider_id"`
	Date       time.Time `json:"date" db:"date"`
	Kind       string    `json:"kind" db:"kind"`
	OpenTime   *string   `json:"openTime,omitempty" db:"open_time"`
	CloseTime  *string   `json:"closeTime,omitempty" db:"close_time"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// Appointment statuses
const (
	AppointmentScheduled = "scheduled"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
)

// Appointment is a booking held against a provider
type Appointment struct {
	ID              string    `json:"id" db:"id"`
	ProviderID      string    `json:"providerId" db:"provider_id"`
	StartsAt        time.Time `json:"startsAt" db:"starts_at"`
	DurationMinutes int       `json:"durationMinutes" db:"duration_minutes"`
	Status          string    `json:"status" db:"status"`
}

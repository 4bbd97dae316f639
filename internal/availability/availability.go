// Package availability derives bookable slots for a provider on a date from
// recurring weekly rules, dated exceptions and existing bookings. Slots are
// computed on every call and never stored.
package availability

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultGranularity = 60 * time.Minute
	DateLayout         = "2006-01-02"
	minutesPerDay      = 24 * 60
)

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidClock = errors.New("invalid clock time")
)

// Clock is a time of day in minutes since midnight. 24:00 is allowed as a
// closing time.
type Clock int

// ParseClock parses "HH:MM" (seconds, if present, are ignored).
func ParseClock(raw string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	c := Clock(h*60 + m)
	if h < 0 || m < 0 || m > 59 || c > minutesPerDay {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	return c, nil
}

// MustClock is ParseClock for literals.
func MustClock(raw string) Clock {
	c, err := ParseClock(raw)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// ParseDate parses a calendar date (YYYY-MM-DD) at midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return d, nil
}

// Window is a half-open interval [Open, Close) of a day.
type Window struct {
	Open  Clock `json:"open"`
	Close Clock `json:"close"`
}

func (w Window) valid() bool { return w.Open < w.Close }

// Rule is a provider's standard hours on a weekday. Several rules on the
// same weekday are separate windows.
type Rule struct {
	ProviderID string       `json:"providerId"`
	Weekday    time.Weekday `json:"weekday"`
	Open       Clock        `json:"open"`
	Close      Clock        `json:"close"`
}

// ExceptionKind says how an exception changes the recurring rule.
type ExceptionKind string

const (
	// ExceptionClosed closes the whole day, or only its window when one is set.
	ExceptionClosed ExceptionKind = "closed"
	// ExceptionOverride replaces the day's windows with its own.
	ExceptionOverride ExceptionKind = "override"
	// ExceptionExtra opens an additional window.
	ExceptionExtra ExceptionKind = "extra"
)

// Exception is a one-off change to a provider's hours on a date. Open and
// Close are nil for a whole-day closure.
type Exception struct {
	ProviderID string        `json:"providerId"`
	Date       time.Time     `json:"date"`
	Kind       ExceptionKind `json:"kind"`
	Open       *Clock        `json:"open,omitempty"`
	Close      *Clock        `json:"close,omitempty"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

func (e Exception) window() (Window, bool) {
	if e.Open == nil || e.Close == nil {
		return Window{}, false
	}
	w := Window{Open: *e.Open, Close: *e.Close}
	return w, w.valid()
}

// Booking is an appointment occupying [Start, Start+Duration).
type Booking struct {
	ProviderID string        `json:"providerId"`
	Start      time.Time     `json:"start"`
	Duration   time.Duration `json:"duration"`
	Cancelled  bool          `json:"cancelled"`
}

// Status is the state of a derived slot.
type Status string

const (
	StatusOpen   Status = "open"
	StatusBooked Status = "booked"
	StatusClosed Status = "closed"
)

// Slot is one discrete unit of a provider's day.
type Slot struct {
	Date     string    `json:"date"`
	Time     string    `json:"time"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   Status    `json:"status"`
	IsBooked bool      `json:"isBooked"`
}

// Input is everything slot generation needs. Rules, exceptions and bookings
// for other providers or dates are ignored.
type Input struct {
	ProviderID  string
	Date        time.Time
	Rules       []Rule
	Exceptions  []Exception
	Bookings    []Booking
	Granularity time.Duration
	// Location interprets rule clocks; nil means the location of Date.
	Location *time.Location
}

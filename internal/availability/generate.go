package availability

import (
	"slices"
	"time"
)

// Effective picks the exception that applies when several share a date:
// the one with the latest UpdatedAt, and on equal timestamps the one that
// comes last in the slice.
func Effective(exceptions []Exception) (Exception, bool) {
	if len(exceptions) == 0 {
		return Exception{}, false
	}
	best := exceptions[0]
	for _, e := range exceptions[1:] {
		if !e.UpdatedAt.Before(best.UpdatedAt) {
			best = e
		}
	}
	return best, true
}

// Generate enumerates the slots of in.ProviderID on in.Date.
//
// The recurring rules for the weekday give the open windows. The effective
// exception for the date then closes the day (no slots), closes one window
// (slots inside it are reported closed), replaces the windows, or adds one.
// Slots of Granularity length are laid from each window's opening time and
// must fit inside the window. A slot is booked when any non-cancelled
// booking overlaps it.
func Generate(in Input) []Slot {
	loc := in.Location
	if loc == nil {
		loc = in.Date.Location()
	}
	y, m, d := in.Date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)
	date := day.Format(DateLayout)

	step := int(in.Granularity / time.Minute)
	if step <= 0 {
		step = int(DefaultGranularity / time.Minute)
	}

	windows := make([]Window, 0, len(in.Rules))
	for _, r := range in.Rules {
		if !sameProvider(r.ProviderID, in.ProviderID) || r.Weekday != day.Weekday() {
			continue
		}
		if w := (Window{Open: r.Open, Close: r.Close}); w.valid() {
			windows = append(windows, w)
		}
	}

	var closed *Window
	if ex, ok := Effective(exceptionsOn(in.Exceptions, in.ProviderID, date)); ok {
		w, hasWindow := ex.window()
		switch ex.Kind {
		case ExceptionClosed:
			if !hasWindow {
				return []Slot{}
			}
			closed = &w
		case ExceptionOverride:
			if hasWindow {
				windows = []Window{w}
			}
		case ExceptionExtra:
			if hasWindow {
				windows = append(windows, w)
			}
		}
	}

	starts := make(map[Clock]struct{})
	for _, w := range windows {
		for t := w.Open; t+Clock(step) <= w.Close; t += Clock(step) {
			starts[t] = struct{}{}
		}
	}

	clocks := make([]Clock, 0, len(starts))
	for c := range starts {
		clocks = append(clocks, c)
	}
	slices.Sort(clocks)

	bookings := activeBookings(in.Bookings, in.ProviderID, in.Granularity)

	slots := make([]Slot, 0, len(clocks))
	for _, c := range clocks {
		start := day.Add(time.Duration(c) * time.Minute)
		end := start.Add(time.Duration(step) * time.Minute)

		s := Slot{Date: date, Time: c.String(), Start: start, End: end, Status: StatusOpen}
		switch {
		case closed != nil && c < closed.Close && c+Clock(step) > closed.Open:
			s.Status = StatusClosed
		case overlapsAny(bookings, start, end):
			s.Status = StatusBooked
			s.IsBooked = true
		}
		slots = append(slots, s)
	}
	return slots
}

type interval struct{ start, end time.Time }

func activeBookings(bookings []Booking, providerID string, granularity time.Duration) []interval {
	out := make([]interval, 0, len(bookings))
	for _, b := range bookings {
		if b.Cancelled || !sameProvider(b.ProviderID, providerID) {
			continue
		}
		dur := b.Duration
		if dur <= 0 {
			dur = granularity
			if dur <= 0 {
				dur = DefaultGranularity
			}
		}
		out = append(out, interval{start: b.Start, end: b.Start.Add(dur)})
	}
	return out
}

func overlapsAny(bookings []interval, start, end time.Time) bool {
	for _, b := range bookings {
		if b.start.Before(end) && b.end.After(start) {
			return true
		}
	}
	return false
}

func exceptionsOn(exceptions []Exception, providerID, date string) []Exception {
	var out []Exception
	for _, e := range exceptions {
		if sameProvider(e.ProviderID, providerID) && e.Date.Format(DateLayout) == date {
			out = append(out, e)
		}
	}
	return out
}

// sameProvider treats an empty provider id on an input row as "this provider".
func sameProvider(rowID, providerID string) bool {
	return rowID == "" || providerID == "" || rowID == providerID
}

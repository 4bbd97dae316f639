package availability

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-05-06 is a Monday.
var monday = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

func at(hhmm string) time.Time {
	return monday.Add(time.Duration(MustClock(hhmm)) * time.Minute)
}

func clk(raw string) *Clock {
	c := MustClock(raw)
	return &c
}

func mondayRule() Rule {
	return Rule{ProviderID: "p1", Weekday: time.Monday, Open: MustClock("08:00"), Close: MustClock("12:00")}
}

type slotView struct {
	Time   string
	Status Status
}

func view(slots []Slot) []slotView {
	out := make([]slotView, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotView{Time: s.Time, Status: s.Status})
	}
	return out
}

func TestGenerate_RuleWithBooking(t *testing.T) {
	slots := Generate(Input{
		ProviderID:  "p1",
		Date:        monday,
		Rules:       []Rule{mondayRule()},
		Bookings:    []Booking{{ProviderID: "p1", Start: at("09:00"), Duration: time.Hour}},
		Granularity: time.Hour,
	})

	assert.Equal(t, []slotView{
		{"08:00", StatusOpen},
		{"09:00", StatusBooked},
		{"10:00", StatusOpen},
		{"11:00", StatusOpen},
	}, view(slots))

	require.Len(t, slots, 4)
	assert.True(t, slots[1].IsBooked)
	assert.False(t, slots[0].IsBooked)
	assert.Equal(t, "2024-05-06", slots[0].Date)
	assert.Equal(t, at("08:00"), slots[0].Start)
	assert.Equal(t, at("09:00"), slots[0].End)
}

func TestGenerate_FullDayClosedException(t *testing.T) {
	slots := Generate(Input{
		ProviderID: "p1",
		Date:       monday,
		Rules:      []Rule{mondayRule()},
		Exceptions: []Exception{{ProviderID: "p1", Date: monday, Kind: ExceptionClosed}},
		Bookings:   []Booking{{ProviderID: "p1", Start: at("09:00"), Duration: time.Hour}},
	})

	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestGenerate_NoRuleMeansNoSlots(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)
	slots := Generate(Input{ProviderID: "p1", Date: tuesday, Rules: []Rule{mondayRule()}})
	assert.Empty(t, slots)
}

func TestGenerate_Exceptions(t *testing.T) {
	tests := []struct {
		name      string
		rules     []Rule
		exception Exception
		want      []slotView
	}{
		{
			name:      "Override replaces the rule",
			rules:     []Rule{mondayRule()},
			exception: Exception{Date: monday, Kind: ExceptionOverride, Open: clk("14:00"), Close: clk("16:00")},
			want:      []slotView{{"14:00", StatusOpen}, {"15:00", StatusOpen}},
		},
		{
			name:      "Override opens a day without rules",
			exception: Exception{Date: monday, Kind: ExceptionOverride, Open: clk("10:00"), Close: clk("11:00")},
			want:      []slotView{{"10:00", StatusOpen}},
		},
		{
			name:      "Extra adds a window",
			rules:     []Rule{mondayRule()},
			exception: Exception{Date: monday, Kind: ExceptionExtra, Open: clk("18:00"), Close: clk("19:00")},
			want: []slotView{
				{"08:00", StatusOpen}, {"09:00", StatusOpen}, {"10:00", StatusOpen},
				{"11:00", StatusOpen}, {"18:00", StatusOpen},
			},
		},
		{
			name:      "Extra overlapping the rule does not duplicate slots",
			rules:     []Rule{mondayRule()},
			exception: Exception{Date: monday, Kind: ExceptionExtra, Open: clk("11:00"), Close: clk("13:00")},
			want: []slotView{
				{"08:00", StatusOpen}, {"09:00", StatusOpen}, {"10:00", StatusOpen},
				{"11:00", StatusOpen}, {"12:00", StatusOpen},
			},
		},
		{
			name:      "Partial closure marks slots closed",
			rules:     []Rule{mondayRule()},
			exception: Exception{Date: monday, Kind: ExceptionClosed, Open: clk("09:30"), Close: clk("10:30")},
			want: []slotView{
				{"08:00", StatusOpen}, {"09:00", StatusClosed}, {"10:00", StatusClosed}, {"11:00", StatusOpen},
			},
		},
		{
			name:      "Exception on another date is ignored",
			rules:     []Rule{mondayRule()},
			exception: Exception{Date: monday.AddDate(0, 0, 7), Kind: ExceptionClosed},
			want: []slotView{
				{"08:00", StatusOpen}, {"09:00", StatusOpen}, {"10:00", StatusOpen}, {"11:00", StatusOpen},
			},
		},
		{
			name:      "Exception of another provider is ignored",
			rules:     []Rule{mondayRule()},
			exception: Exception{ProviderID: "p2", Date: monday, Kind: ExceptionClosed},
			want: []slotView{
				{"08:00", StatusOpen}, {"09:00", StatusOpen}, {"10:00", StatusOpen}, {"11:00", StatusOpen},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := Generate(Input{
				ProviderID: "p1",
				Date:       monday,
				Rules:      tt.rules,
				Exceptions: []Exception{tt.exception},
			})
			assert.Equal(t, tt.want, view(slots))
		})
	}
}

func TestEffective_LatestUpdateWins(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	closed := Exception{Date: monday, Kind: ExceptionClosed, UpdatedAt: t0.Add(time.Hour)}
	override := Exception{Date: monday, Kind: ExceptionOverride, Open: clk("10:00"), Close: clk("12:00"), UpdatedAt: t0}

	got, ok := Effective([]Exception{closed, override})
	require.True(t, ok)
	assert.Equal(t, ExceptionClosed, got.Kind)

	got, _ = Effective([]Exception{override, closed})
	assert.Equal(t, ExceptionClosed, got.Kind)

	// equal timestamps: the later element wins
	override.UpdatedAt = closed.UpdatedAt
	got, _ = Effective([]Exception{closed, override})
	assert.Equal(t, ExceptionOverride, got.Kind)

	_, ok = Effective(nil)
	assert.False(t, ok)
}

func TestGenerate_UsesEffectiveException(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	slots := Generate(Input{
		ProviderID: "p1",
		Date:       monday,
		Rules:      []Rule{mondayRule()},
		Exceptions: []Exception{
			{Date: monday, Kind: ExceptionClosed, UpdatedAt: t0},
			{Date: monday, Kind: ExceptionOverride, Open: clk("10:00"), Close: clk("11:00"), UpdatedAt: t0.Add(time.Minute)},
		},
	})
	assert.Equal(t, []slotView{{"10:00", StatusOpen}}, view(slots))
}

func TestGenerate_Bookings(t *testing.T) {
	tests := []struct {
		name     string
		bookings []Booking
		want     []Status
	}{
		{
			name:     "Cancelled bookings are ignored",
			bookings: []Booking{{Start: at("09:00"), Duration: time.Hour, Cancelled: true}},
			want:     []Status{StatusOpen, StatusOpen, StatusOpen, StatusOpen},
		},
		{
			name: "Overlapping bookings mark the slot once",
			bookings: []Booking{
				{Start: at("09:00"), Duration: time.Hour},
				{Start: at("09:15"), Duration: 30 * time.Minute},
			},
			want: []Status{StatusOpen, StatusBooked, StatusOpen, StatusOpen},
		},
		{
			name:     "Booking spanning slots marks each of them",
			bookings: []Booking{{Start: at("09:30"), Duration: 90 * time.Minute}},
			want:     []Status{StatusOpen, StatusBooked, StatusBooked, StatusOpen},
		},
		{
			name:     "Booking ending at a slot start does not overlap it",
			bookings: []Booking{{Start: at("07:00"), Duration: time.Hour}},
			want:     []Status{StatusOpen, StatusOpen, StatusOpen, StatusOpen},
		},
		{
			name:     "Other provider's booking is ignored",
			bookings: []Booking{{ProviderID: "p2", Start: at("08:00"), Duration: time.Hour}},
			want:     []Status{StatusOpen, StatusOpen, StatusOpen, StatusOpen},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := Generate(Input{ProviderID: "p1", Date: monday, Rules: []Rule{mondayRule()}, Bookings: tt.bookings})
			got := make([]Status, 0, len(slots))
			for _, s := range slots {
				got = append(got, s.Status)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerate_Granularity(t *testing.T) {
	rule := Rule{Weekday: time.Monday, Open: MustClock("08:00"), Close: MustClock("09:45")}

	slots := Generate(Input{Date: monday, Rules: []Rule{rule}, Granularity: 30 * time.Minute})
	assert.Equal(t, []slotView{
		{"08:00", StatusOpen}, {"08:30", StatusOpen}, {"09:00", StatusOpen},
	}, view(slots))

	// non-positive granularity falls back to an hour; the 09:00 slot would overrun the window
	slots = Generate(Input{Date: monday, Rules: []Rule{rule}})
	assert.Equal(t, []slotView{{"08:00", StatusOpen}}, view(slots))
}

func TestGenerate_IsDeterministic(t *testing.T) {
	in := Input{
		ProviderID: "p1",
		Date:       monday,
		Rules: []Rule{
			{Weekday: time.Monday, Open: MustClock("14:00"), Close: MustClock("16:00")},
			mondayRule(),
		},
		Bookings: []Booking{{Start: at("15:00"), Duration: time.Hour}},
	}
	first := Generate(in)
	assert.Equal(t, first, Generate(in))
	assert.Equal(t, "08:00", first[0].Time)
	assert.Equal(t, "15:00", first[len(first)-1].Time)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		raw     string
		want    Clock
		wantErr bool
	}{
		{raw: "08:00", want: 480},
		{raw: "9:30", want: 570},
		{raw: "12:15:00", want: 735},
		{raw: "24:00", want: 1440},
		{raw: "24:01", wantErr: true},
		{raw: "10:60", wantErr: true},
		{raw: "ten", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseClock(tt.raw)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidClock))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, MustClock(got.String()))
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-06")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())

	_, err = ParseDate("06/05/2024")
	assert.True(t, errors.Is(err, ErrInvalidDate))
}

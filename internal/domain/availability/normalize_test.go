package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseVenueLocal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want time.Time
	}{
		{name: "strips utc marker", in: "2024-03-15T21:30:00Z", want: time.Date(2024, 3, 15, 21, 30, 0, 0, time.UTC)},
		{name: "morning is not shifted", in: "2024-06-01T08:00:00Z", want: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)},
		{name: "fractional seconds", in: "2024-06-01T08:00:00.000Z", want: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)},
		{name: "no marker", in: "2024-06-01T23:15:00", want: time.Date(2024, 6, 1, 23, 15, 0, 0, time.UTC)},
		{name: "minutes precision", in: "2024-06-01T07:45Z", want: time.Date(2024, 6, 1, 7, 45, 0, 0, time.UTC)},
		{name: "explicit offset keeps wall clock", in: "2024-06-01T22:00:00-04:00", want: time.Date(2024, 6, 1, 22, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseVenueLocal(tc.in)
			require.NoError(t, err)
			require.True(t, tc.want.Equal(got), "expected %s got %s", tc.want, got)
		})
	}
}

func TestParseVenueLocalRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "Z", "tomorrow", "2024-13-01T10:00:00Z"} {
		_, err := ParseVenueLocal(in)
		require.Error(t, err, in)
	}
}

func TestNormalizeCountsBaysPerOption(t *testing.T) {
	raw := []RawTimeSlot{
		{
			Time: "2024-03-15T21:30:00Z",
			Availabilities: []RawAvailabilityEntry{
				{StaffLetter: "A", StaffID: 1, Durations: []RawDuration{{Duration: 60, Cost: 45}}},
				{StaffLetter: "B", StaffID: 2, Durations: []RawDuration{{Duration: 60, Cost: 45}}},
			},
		},
	}

	grouped := Normalize(raw)

	require.Equal(t, []string{"2024-03-15"}, grouped.Dates)
	slots := grouped.Slots["2024-03-15"]
	require.Len(t, slots, 1)
	require.Equal(t, "2024-03-15", slots[0].LocalDate)
	require.Equal(t, "21:30", slots[0].LocalTime)
	require.Equal(t, "9:30 PM", slots[0].DisplayTime)
	require.Equal(t, []GroupedDurationOption{{Duration: 60, Cost: 45, Count: 2}}, slots[0].Options)
}

func TestNormalizeDropsSlotsWithoutDurations(t *testing.T) {
	raw := []RawTimeSlot{
		{
			Time: "2024-03-15T10:00:00Z",
			Availabilities: []RawAvailabilityEntry{
				{StaffLetter: "A", StaffID: 1, Durations: []RawDuration{}},
				{StaffLetter: "B", StaffID: 2},
			},
		},
		{Time: "2024-03-16T10:00:00Z"},
		{
			Time:           "2024-03-16T11:00:00Z",
			Availabilities: []RawAvailabilityEntry{{StaffID: 3, Durations: []RawDuration{{Duration: 30, Cost: 20}}}},
		},
	}

	grouped := Normalize(raw)

	require.Equal(t, []string{"2024-03-16"}, grouped.Dates)
	_, ok := grouped.Slots["2024-03-15"]
	require.False(t, ok, "a date without surviving slots must not be a key")
	require.Len(t, grouped.Slots["2024-03-16"], 1)
	require.Equal(t, "11:00", grouped.Slots["2024-03-16"][0].LocalTime)
}

func TestNormalizeKeepsFractionalCostsDistinct(t *testing.T) {
	raw := []RawTimeSlot{
		{
			Time: "2024-03-15T18:00:00Z",
			Availabilities: []RawAvailabilityEntry{
				{StaffID: 1, Durations: []RawDuration{{Duration: 60, Cost: 45}}},
				{StaffID: 2, Durations: []RawDuration{{Duration: 60, Cost: 45.5}}},
				{StaffID: 3, Durations: []RawDuration{{Duration: 60, Cost: 45.5}}},
			},
		},
	}

	opts := Normalize(raw).Slots["2024-03-15"][0].Options

	require.Equal(t, []GroupedDurationOption{
		{Duration: 60, Cost: 45, Count: 1},
		{Duration: 60, Cost: 45.5, Count: 2},
	}, opts)
}

func TestNormalizeSortsOptionsByDurationStably(t *testing.T) {
	raw := []RawTimeSlot{
		{
			Time: "2024-03-15T12:00:00Z",
			Availabilities: []RawAvailabilityEntry{
				{StaffID: 1, Durations: []RawDuration{{Duration: 120, Cost: 90}, {Duration: 60, Cost: 50}}},
				{StaffID: 2, Durations: []RawDuration{{Duration: 60, Cost: 40}, {Duration: 30, Cost: 25}}},
			},
		},
	}

	opts := Normalize(raw).Slots["2024-03-15"][0].Options

	require.Equal(t, []GroupedDurationOption{
		{Duration: 30, Cost: 25, Count: 1},
		{Duration: 60, Cost: 50, Count: 1},
		{Duration: 60, Cost: 40, Count: 1},
		{Duration: 120, Cost: 90, Count: 1},
	}, opts)
}

func TestNormalizeCountsEachBayOnce(t *testing.T) {
	raw := []RawTimeSlot{
		{
			Time: "2024-03-15T12:00:00Z",
			Availabilities: []RawAvailabilityEntry{
				{StaffID: 1, Durations: []RawDuration{{Duration: 60, Cost: 50}, {Duration: 60, Cost: 50}}},
			},
		},
	}

	opts := Normalize(raw).Slots["2024-03-15"][0].Options

	require.Equal(t, []GroupedDurationOption{{Duration: 60, Cost: 50, Count: 1}}, opts)
}

func TestNormalizeBucketsByDateInArrivalOrder(t *testing.T) {
	one := []RawAvailabilityEntry{{StaffID: 1, Durations: []RawDuration{{Duration: 60, Cost: 50}}}}
	raw := []RawTimeSlot{
		{Time: "2024-03-16T09:00:00Z", Availabilities: one},
		{Time: "2024-03-16T10:00:00Z", Availabilities: one},
		{Time: "2024-03-15T22:00:00Z", Availabilities: one},
		{Time: "not a time", Availabilities: one},
		{Time: "2024-03-15T23:00:00Z", Availabilities: one},
	}

	grouped, skipped := normalize(raw)

	require.Equal(t, 1, skipped)
	require.Equal(t, []string{"2024-03-15", "2024-03-16"}, grouped.Dates)
	require.Equal(t, []string{"22:00", "23:00"}, slotTimes(grouped.Slots["2024-03-15"]))
	require.Equal(t, []string{"09:00", "10:00"}, slotTimes(grouped.Slots["2024-03-16"]))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := []RawTimeSlot{
		{
			Time: "2024-03-15T21:30:00Z",
			Availabilities: []RawAvailabilityEntry{
				{StaffID: 1, Durations: []RawDuration{{Duration: 60, Cost: 45}, {Duration: 90, Cost: 60}}},
				{StaffID: 2, Durations: []RawDuration{{Duration: 60, Cost: 45}}},
			},
		},
		{
			Time:           "2024-03-16T08:00:00Z",
			Availabilities: []RawAvailabilityEntry{{StaffID: 3, Durations: []RawDuration{{Duration: 30, Cost: 22.5}}}},
		},
	}

	require.Equal(t, Normalize(raw), Normalize(raw))
}

func slotTimes(slots []ProcessedSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.LocalTime)
	}
	return out
}

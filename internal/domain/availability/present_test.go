package availability

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatCost(t *testing.T) {
	cases := map[float64]string{
		45:    "$45",
		45.5:  "$45.50",
		25.25: "$25.25",
		0:     "$0",
	}
	for in, want := range cases {
		require.Equal(t, want, FormatCost(in))
	}
}

func TestBaysLabel(t *testing.T) {
	require.Equal(t, "1 bay", BaysLabel(1))
	require.Equal(t, "3 bays", BaysLabel(3))
}

func TestDayLabel(t *testing.T) {
	require.Equal(t, "Friday, March 15", DayLabel("2024-03-15"))
	require.Equal(t, "oops", DayLabel("oops"))
}

func TestBuildDaysMarksEmptyDates(t *testing.T) {
	grouped := Normalize([]RawTimeSlot{
		{Time: "2024-03-15T21:30:00Z", Availabilities: []RawAvailabilityEntry{
			{StaffID: 1, Durations: []RawDuration{{Duration: 60, Cost: 25}}},
			{StaffID: 2, Durations: []RawDuration{{Duration: 60, Cost: 25}}},
		}},
		{Time: "2024-03-16T10:00:00Z", Availabilities: []RawAvailabilityEntry{
			{StaffID: 1, Durations: []RawDuration{{Duration: 30, Cost: 20}}},
		}},
	})

	days := buildDays(grouped, SelectDuration(grouped, 60))

	require.Len(t, days, 2)
	require.False(t, days[0].Empty)
	require.Equal(t, []SlotView{{
		Time:        "21:30",
		DisplayTime: "9:30 PM",
		Duration:    60,
		Cost:        25,
		CostLabel:   "$25",
		Bays:        2,
		BaysLabel:   "2 bays",
		LateNight:   true,
	}}, days[0].Slots)
	require.True(t, days[1].Empty)
	require.Equal(t, "Saturday, March 16", days[1].Label)
	require.Empty(t, days[1].Slots)
}

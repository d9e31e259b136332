package availability

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teeslots/bayfinder/pkg/util"
)

// utcMarker is appended by the booking provider to timestamps that are
// actually venue wall-clock times.
const utcMarker = "Z"

var venueLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseVenueLocal reads an upstream slot timestamp as venue wall-clock time.
//
// The provider labels local times with a trailing "Z". Exactly one trailing
// marker is stripped and the remainder is parsed without any zone
// conversion. A timestamp carrying an explicit numeric offset keeps its
// written wall clock. The returned time uses time.UTC only as a neutral
// container: its fields are the venue's local date and clock.
func ParseVenueLocal(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	value = strings.TrimSuffix(value, utcMarker)
	for _, layout := range venueLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return ts, nil
		}
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond(), time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized slot time %q", raw)
}

type optionKey struct {
	Duration int
	Cost     float64
}

// Normalize turns the raw upstream slot list into date buckets of processed
// slots. It is a pure function of its input.
func Normalize(raw []RawTimeSlot) GroupedByDate {
	grouped, _ := normalize(raw)
	return grouped
}

func normalize(raw []RawTimeSlot) (GroupedByDate, int) {
	grouped := GroupedByDate{Slots: make(map[string][]ProcessedSlot)}
	skipped := 0
	for _, slot := range raw {
		start, err := ParseVenueLocal(slot.Time)
		if err != nil {
			skipped++
			continue
		}
		options := groupOptions(slot.Availabilities)
		if len(options) == 0 {
			continue
		}
		date := util.FormatDate(start)
		grouped.Slots[date] = append(grouped.Slots[date], ProcessedSlot{
			LocalDate:   date,
			LocalTime:   start.Format("15:04"),
			DisplayTime: start.Format("3:04 PM"),
			Options:     options,
			Start:       start,
		})
	}
	grouped.Dates = make([]string, 0, len(grouped.Slots))
	for date := range grouped.Slots {
		grouped.Dates = append(grouped.Dates, date)
	}
	sort.Strings(grouped.Dates)
	return grouped, skipped
}

// groupOptions counts, per (duration, cost), how many resources offer it.
// A resource listing the same pair twice is counted once.
func groupOptions(entries []RawAvailabilityEntry) []GroupedDurationOption {
	index := make(map[optionKey]int)
	var options []GroupedDurationOption
	for _, entry := range entries {
		seen := make(map[optionKey]struct{}, len(entry.Durations))
		for _, d := range entry.Durations {
			key := optionKey{Duration: d.Duration, Cost: d.Cost}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if i, ok := index[key]; ok {
				options[i].Count++
				continue
			}
			index[key] = len(options)
			options = append(options, GroupedDurationOption{Duration: d.Duration, Cost: d.Cost, Count: 1})
		}
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Duration < options[j].Duration
	})
	return options
}

package availability

// LateNightStartHour is the first venue-local hour of the late-night deal.
const LateNightStartHour = 21

// IsLateNight reports whether a 24-hour clock hour falls in the late-night window.
func IsLateNight(hour int) bool {
	return hour >= LateNightStartHour && hour <= 23
}

// FilterLateNight keeps the raw slots that start in the late-night window.
// It runs on the flat upstream list, before Normalize. Slots whose time
// cannot be read are dropped.
func FilterLateNight(raw []RawTimeSlot) []RawTimeSlot {
	out := make([]RawTimeSlot, 0, len(raw))
	for _, slot := range raw {
		start, err := ParseVenueLocal(slot.Time)
		if err != nil {
			continue
		}
		if IsLateNight(start.Hour()) {
			out = append(out, slot)
		}
	}
	return out
}

// SelectDuration keeps, per date, the slots offering the requested duration
// with at least one bay. Every date of grouped is present in the result,
// with an empty slice when nothing matches.
func SelectDuration(grouped GroupedByDate, minutes int) map[string][]SlotMatch {
	out := make(map[string][]SlotMatch, len(grouped.Slots))
	for date, slots := range grouped.Slots {
		matches := make([]SlotMatch, 0, len(slots))
		for _, slot := range slots {
			opt, ok := slot.Option(minutes)
			if !ok || opt.Count <= 0 {
				continue
			}
			matches = append(matches, SlotMatch{Slot: slot, Option: opt})
		}
		out[date] = matches
	}
	return out
}

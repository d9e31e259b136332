package availability

import (
	"math"
	"strconv"

	"github.com/teeslots/bayfinder/pkg/util"
)

// FormatCost renders whole amounts without decimals and fractional amounts
// with two: 45 -> "$45", 45.5 -> "$45.50".
func FormatCost(cost float64) string {
	if cost == math.Trunc(cost) {
		return "$" + strconv.FormatFloat(cost, 'f', 0, 64)
	}
	return "$" + strconv.FormatFloat(cost, 'f', 2, 64)
}

// BaysLabel pluralises the bay count.
func BaysLabel(count int) string {
	if count == 1 {
		return "1 bay"
	}
	return strconv.Itoa(count) + " bays"
}

// DayLabel renders a yyyy-MM-dd date as "Monday, January 2".
func DayLabel(date string) string {
	d, err := util.ParseDate(date)
	if err != nil {
		return date
	}
	return d.Format("Monday, January 2")
}

func buildDays(grouped GroupedByDate, matches map[string][]SlotMatch) []DayView {
	days := make([]DayView, 0, len(grouped.Dates))
	for _, date := range grouped.Dates {
		picked := matches[date]
		day := DayView{
			Date:  date,
			Label: DayLabel(date),
			Empty: len(picked) == 0,
			Slots: make([]SlotView, 0, len(picked)),
		}
		for _, m := range picked {
			day.Slots = append(day.Slots, SlotView{
				Time:        m.Slot.LocalTime,
				DisplayTime: m.Slot.DisplayTime,
				Duration:    m.Option.Duration,
				Cost:        m.Option.Cost,
				CostLabel:   FormatCost(m.Option.Cost),
				Bays:        m.Option.Count,
				BaysLabel:   BaysLabel(m.Option.Count),
				LateNight:   m.Slot.IsLateNight(),
			})
		}
		days = append(days, day)
	}
	return days
}

package availability

import (
	"time"

	"github.com/teeslots/bayfinder/pkg/metrics"
)

// RawDuration is one session length and price offered by a bay at a slot.
type RawDuration struct {
	Duration int     `json:"duration"`
	Cost     float64 `json:"cost"`
}

// RawAvailabilityEntry is one bookable resource available at a slot.
type RawAvailabilityEntry struct {
	StaffLetter string        `json:"staffLetter"`
	StaffID     int64         `json:"staffId"`
	Durations   []RawDuration `json:"durations"`
}

// RawTimeSlot mirrors the upstream schema. Time carries a trailing UTC
// marker but is venue wall-clock time; see ParseVenueLocal.
type RawTimeSlot struct {
	Time           string                 `json:"time"`
	Availabilities []RawAvailabilityEntry `json:"availabilities"`
}

// Location is a venue from the static catalogue.
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

// FetchParams identifies a single upstream availability request.
type FetchParams struct {
	LocationID string
	PartySize  int
	Start      string
	End        string
}

// DateRange is an inclusive pair of yyyy-MM-dd calendar dates.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Criteria is the validated, immutable input to a grouped availability query.
// Range takes precedence over Date when set.
type Criteria struct {
	Location      Location   `json:"location"`
	PartySize     int        `json:"partySize"`
	Duration      int        `json:"duration"`
	Date          string     `json:"date"`
	Range         *DateRange `json:"dateRange,omitempty"`
	LateNightDeal bool       `json:"lateNightDeal"`
}

// ProxyRequest carries the four pass-through parameters of the proxy endpoint.
type ProxyRequest struct {
	LocationID    string `form:"locationId"`
	PartySize     string `form:"partySize"`
	StartDateTime string `form:"startDateTime"`
	EndDateTime   string `form:"endDateTime"`
}

// SlotsRequest is the loosely typed query accepted by the grouped endpoint.
// Empty fields fall back to configured defaults.
type SlotsRequest struct {
	LocationID string `form:"locationId"`
	PartySize  string `form:"partySize"`
	Duration   string `form:"duration"`
	Date       string `form:"date"`
	Start      string `form:"start"`
	End        string `form:"end"`
	LateNight  string `form:"lateNight"`
	Session    string `form:"-"`
}

// GroupedDurationOption counts the bays offering one (duration, cost) pair.
type GroupedDurationOption struct {
	Duration int     `json:"duration"`
	Cost     float64 `json:"cost"`
	Count    int     `json:"count"`
}

// ProcessedSlot is a normalized slot with its options sorted by duration.
type ProcessedSlot struct {
	LocalDate   string                  `json:"date"`
	LocalTime   string                  `json:"time"`
	DisplayTime string                  `json:"displayTime"`
	Options     []GroupedDurationOption `json:"options"`
	Start       time.Time               `json:"-"`
}

// IsLateNight reports whether the slot starts inside the late-night window.
func (s ProcessedSlot) IsLateNight() bool {
	return IsLateNight(s.Start.Hour())
}

// Option returns the option for the given duration, if any.
func (s ProcessedSlot) Option(duration int) (GroupedDurationOption, bool) {
	for _, opt := range s.Options {
		if opt.Duration == duration {
			return opt, true
		}
	}
	return GroupedDurationOption{}, false
}

// GroupedByDate buckets processed slots by local date. Dates lists the keys
// of Slots in ascending calendar order.
type GroupedByDate struct {
	Dates []string                   `json:"dates"`
	Slots map[string][]ProcessedSlot `json:"slots"`
}

// SlotMatch pairs a slot with the option that matched the selected duration.
type SlotMatch struct {
	Slot   ProcessedSlot         `json:"slot"`
	Option GroupedDurationOption `json:"option"`
}

// View is the render-ready response of a grouped availability query.
type View struct {
	Location Location            `json:"location"`
	Criteria Criteria            `json:"criteria"`
	Days     []DayView           `json:"days"`
	Sequence uint64              `json:"sequence,omitempty"`
	Stats    *metrics.QueryStats `json:"stats,omitempty"`
}

// DayView lists the matching slots of one calendar date.
type DayView struct {
	Date  string     `json:"date"`
	Label string     `json:"label"`
	Empty bool       `json:"empty"`
	Slots []SlotView `json:"slots"`
}

// SlotView is a single bookable card.
type SlotView struct {
	Time        string  `json:"time"`
	DisplayTime string  `json:"displayTime"`
	Duration    int     `json:"duration"`
	Cost        float64 `json:"cost"`
	CostLabel   string  `json:"costLabel"`
	Bays        int     `json:"bays"`
	BaysLabel   string  `json:"baysLabel"`
	LateNight   bool    `json:"lateNight"`
}

// LocationsResponse lists the venue catalogue.
type LocationsResponse struct {
	Locations []Location `json:"locations"`
	Default   string     `json:"default"`
}

// Config wires runtime knobs for the availability domain.
type Config struct {
	VenueTimezone    string
	MaxRangeDays     int
	MaxParallel      int
	MaxPartySize     int
	QuietPeriod      time.Duration
	DefaultPartySize int
	DefaultDuration  int
	DefaultLateNight bool
}

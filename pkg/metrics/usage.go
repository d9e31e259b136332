package metrics

// QueryStats captures how much upstream data went into a single availability query.
type QueryStats struct {
	Days       int   `json:"days"`
	RawSlots   int   `json:"rawSlots"`
	Slots      int   `json:"slots"`
	DurationMs int64 `json:"durationMs"`
}

// IsZero reports whether stats data is absent.
func (s QueryStats) IsZero() bool {
	return s.Days == 0 && s.RawSlots == 0 && s.Slots == 0 && s.DurationMs == 0
}

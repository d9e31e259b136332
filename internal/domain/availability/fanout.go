package availability

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/teeslots/bayfinder/pkg/util"
)

// Fetcher retrieves the raw slots of a single upstream request.
type Fetcher interface {
	Fetch(ctx context.Context, params FetchParams) ([]RawTimeSlot, error)
}

// Coordinator fans a multi-day query out into one request per calendar day.
type Coordinator struct {
	fetcher     Fetcher
	maxParallel int
}

// NewCoordinator builds a coordinator. maxParallel <= 0 issues every day at once.
func NewCoordinator(fetcher Fetcher, maxParallel int) *Coordinator {
	return &Coordinator{fetcher: fetcher, maxParallel: maxParallel}
}

// CountDays returns how many calendar dates lie between start and end
// inclusive without materialising them.
func CountDays(start, end string) (int, error) {
	from, err := util.ParseDate(start)
	if err != nil {
		return 0, invalid("start", "must be formatted as YYYY-MM-DD")
	}
	to, err := util.ParseDate(end)
	if err != nil {
		return 0, invalid("end", "must be formatted as YYYY-MM-DD")
	}
	if to.Before(from) {
		return 0, invalid("end", "must not be before start")
	}
	// Unix seconds rather than Sub: a time.Duration saturates after ~292 years.
	return int((to.Unix()-from.Unix())/secondsPerDay) + 1, nil
}

const secondsPerDay = 24 * 60 * 60

// EnumerateDays lists every calendar date from start to end inclusive.
// Callers bound the span with CountDays first.
func EnumerateDays(start, end string) ([]string, error) {
	n, err := CountDays(start, end)
	if err != nil {
		return nil, err
	}
	from, _ := util.ParseDate(start)
	days := make([]string, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, util.FormatDate(from.AddDate(0, 0, i)))
	}
	return days, nil
}

// Days returns the calendar dates the criteria cover.
func (c Criteria) Days() ([]string, error) {
	if c.Range != nil {
		return EnumerateDays(c.Range.Start, c.Range.End)
	}
	if _, err := util.ParseDate(c.Date); err != nil {
		return nil, invalid("date", "must be formatted as YYYY-MM-DD")
	}
	return []string{c.Date}, nil
}

// FetchRange requests every covered day concurrently and concatenates the
// results in day order. Any failed day fails the whole call with that error
// and no partial output; the remaining requests are cancelled.
func (c *Coordinator) FetchRange(ctx context.Context, criteria Criteria) ([]RawTimeSlot, error) {
	days, err := criteria.Days()
	if err != nil {
		return nil, err
	}

	results := make([][]RawTimeSlot, len(days))
	g, gctx := errgroup.WithContext(ctx)
	if c.maxParallel > 0 {
		g.SetLimit(c.maxParallel)
	}
	for i, day := range days {
		g.Go(func() error {
			slots, err := c.fetcher.Fetch(gctx, FetchParams{
				LocationID: criteria.Location.ID,
				PartySize:  criteria.PartySize,
				Start:      day,
				End:        day,
			})
			if err != nil {
				return err
			}
			results[i] = slots
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	combined := make([]RawTimeSlot, 0, total)
	for _, r := range results {
		combined = append(combined, r...)
	}
	return combined, nil
}

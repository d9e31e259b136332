package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/teeslots/bayfinder/pkg/errors"
	"github.com/teeslots/bayfinder/pkg/metrics"
	"github.com/teeslots/bayfinder/pkg/util"
)

// AllowedDurations lists the session lengths, in minutes, a query may select.
var AllowedDurations = []int{30, 60, 90, 120}

// Service exposes the availability proxy and the grouped query pipeline.
type Service interface {
	Raw(ctx context.Context, req ProxyRequest) (json.RawMessage, error)
	Query(ctx context.Context, req SlotsRequest) (View, error)
	Locations() LocationsResponse
}

// UpstreamClient talks to the booking provider.
type UpstreamClient interface {
	Fetcher
	FetchRaw(ctx context.Context, params FetchParams) (json.RawMessage, error)
}

type service struct {
	cfg         Config
	client      UpstreamClient
	coordinator *Coordinator
	catalog     *LocationCatalog
	sequencer   QuerySequencer
	logger      *slog.Logger
	timezone    *time.Location
	now         func() time.Time
}

// NewService wires up the availability domain. sequencer may be nil, which
// disables latest-wins discarding.
func NewService(cfg Config, client UpstreamClient, catalog *LocationCatalog, sequencer QuerySequencer, logger *slog.Logger) Service {
	logger = logger.With("component", "availability.service")
	tz := time.UTC
	if name := strings.TrimSpace(cfg.VenueTimezone); name != "" {
		loaded, err := time.LoadLocation(name)
		if err != nil {
			logger.Warn("unknown venue timezone, using UTC", "timezone", name, "error", err)
		} else {
			tz = loaded
		}
	}
	return &service{
		cfg:         cfg,
		client:      client,
		coordinator: NewCoordinator(client, cfg.MaxParallel),
		catalog:     catalog,
		sequencer:   sequencer,
		logger:      logger,
		timezone:    tz,
		now:         time.Now,
	}
}

func (s *service) Raw(ctx context.Context, req ProxyRequest) (json.RawMessage, error) {
	params, err := s.resolveFetchParams(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "missing or invalid parameters", err)
	}

	body, err := s.client.FetchRaw(ctx, params)
	if err != nil {
		s.logger.Error("availability proxy failed", "location", params.LocationID, "start", params.Start, "end", params.End, "error", err)
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			return nil, apperrors.Wrap(apperrors.CodeUpstreamError, fmt.Sprintf("API error: %d %s", upstream.Status, upstream.StatusText), err)
		}
		return nil, apperrors.Wrap(apperrors.CodeAvailabilityFailed, "failed to fetch availability", err)
	}
	s.logger.Info("availability proxied", "location", params.LocationID, "start", params.Start, "end", params.End, "bytes", len(body))
	return body, nil
}

func (s *service) Query(ctx context.Context, req SlotsRequest) (View, error) {
	started := s.now()
	criteria, err := s.resolveCriteria(req)
	if err != nil {
		return View{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid availability criteria", err)
	}
	days, err := criteria.Days()
	if err != nil {
		return View{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid availability criteria", err)
	}

	session := strings.TrimSpace(req.Session)
	ticket, err := s.issueTicket(ctx, session)
	if err != nil {
		return View{}, err
	}

	raw, err := s.coordinator.FetchRange(ctx, criteria)
	if err != nil {
		s.logger.Error("availability fetch failed", "location", criteria.Location.ID, "days", len(days), "error", err)
		return View{}, apperrors.Wrap(apperrors.CodeAvailabilityFailed, "failed to fetch availability, please try again", err)
	}
	if err := s.checkLatest(ctx, session, ticket); err != nil {
		return View{}, err
	}

	rawCount := len(raw)
	if criteria.LateNightDeal {
		raw = FilterLateNight(raw)
	}
	grouped, skipped := normalize(raw)
	if skipped > 0 {
		s.logger.Warn("skipped slots with unreadable time", "location", criteria.Location.ID, "skipped", skipped)
	}
	out := buildDays(grouped, SelectDuration(grouped, criteria.Duration))

	slotCount := 0
	for _, day := range out {
		slotCount += len(day.Slots)
	}
	stats := &metrics.QueryStats{
		Days:       len(days),
		RawSlots:   rawCount,
		Slots:      slotCount,
		DurationMs: s.now().Sub(started).Milliseconds(),
	}
	s.logger.Info("availability query served", "location", criteria.Location.ID, "days", stats.Days, "raw_slots", stats.RawSlots, "slots", stats.Slots, "duration_ms", stats.DurationMs)

	view := View{
		Location: criteria.Location,
		Criteria: criteria,
		Days:     out,
		Sequence: ticket,
	}
	if !stats.IsZero() {
		view.Stats = stats
	}
	return view, nil
}

func (s *service) Locations() LocationsResponse {
	return LocationsResponse{
		Locations: s.catalog.All(),
		Default:   s.catalog.Default().ID,
	}
}

func (s *service) issueTicket(ctx context.Context, session string) (uint64, error) {
	if session == "" || s.sequencer == nil {
		return 0, nil
	}
	ticket, err := s.sequencer.Next(ctx, session)
	if err != nil {
		s.logger.Warn("query sequencer unavailable, result will not be sequenced", "error", err)
		return 0, nil
	}
	if s.cfg.QuietPeriod <= 0 {
		return ticket, nil
	}

	timer := time.NewTimer(s.cfg.QuietPeriod)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return 0, apperrors.Wrap(apperrors.CodeAvailabilityFailed, "query cancelled", ctx.Err())
	case <-timer.C:
	}
	if err := s.checkLatest(ctx, session, ticket); err != nil {
		return 0, err
	}
	return ticket, nil
}

func (s *service) checkLatest(ctx context.Context, session string, ticket uint64) error {
	if ticket == 0 {
		return nil
	}
	stale, err := superseded(ctx, s.sequencer, session, ticket)
	if err != nil {
		s.logger.Warn("query sequencer lookup failed, keeping result", "error", err)
		return nil
	}
	if stale {
		s.logger.Info("discarding superseded query", "session", session, "ticket", ticket)
		return apperrors.Wrap(apperrors.CodeQuerySuperseded, "a newer query replaced this one", ErrSuperseded)
	}
	return nil
}

func (s *service) resolveFetchParams(req ProxyRequest) (FetchParams, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"locationId", req.LocationID},
		{"partySize", req.PartySize},
		{"startDateTime", req.StartDateTime},
		{"endDateTime", req.EndDateTime},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return FetchParams{}, invalid(f.name, "is required")
		}
	}

	loc, ok := s.catalog.Find(req.LocationID)
	if !ok {
		return FetchParams{}, invalid("locationId", "is not a known location")
	}
	partySize, err := strconv.Atoi(strings.TrimSpace(req.PartySize))
	if err != nil || partySize <= 0 {
		return FetchParams{}, invalid("partySize", "must be a positive integer")
	}
	start := strings.TrimSpace(req.StartDateTime)
	end := strings.TrimSpace(req.EndDateTime)
	if err := s.checkSpan(start, end); err != nil {
		return FetchParams{}, err
	}
	return FetchParams{LocationID: loc.ID, PartySize: partySize, Start: start, End: end}, nil
}

func (s *service) resolveCriteria(req SlotsRequest) (Criteria, error) {
	criteria := Criteria{
		Location:      s.catalog.Default(),
		PartySize:     s.cfg.DefaultPartySize,
		Duration:      s.cfg.DefaultDuration,
		LateNightDeal: s.cfg.DefaultLateNight,
	}

	if id := strings.TrimSpace(req.LocationID); id != "" {
		loc, ok := s.catalog.Find(id)
		if !ok {
			return Criteria{}, invalid("locationId", "is not a known location")
		}
		criteria.Location = loc
	}

	if v := strings.TrimSpace(req.PartySize); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return Criteria{}, invalid("partySize", "must be an integer")
		}
		criteria.PartySize = parsed
	}
	if criteria.PartySize <= 0 {
		return Criteria{}, invalid("partySize", "must be a positive integer")
	}
	if s.cfg.MaxPartySize > 0 && criteria.PartySize > s.cfg.MaxPartySize {
		return Criteria{}, invalid("partySize", fmt.Sprintf("must be between 1 and %d", s.cfg.MaxPartySize))
	}

	if v := strings.TrimSpace(req.Duration); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return Criteria{}, invalid("duration", "must be an integer number of minutes")
		}
		criteria.Duration = parsed
	}
	if !isAllowedDuration(criteria.Duration) {
		return Criteria{}, invalid("duration", "must be one of 30, 60, 90 or 120")
	}

	if v := strings.TrimSpace(req.LateNight); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return Criteria{}, invalid("lateNight", "must be a boolean")
		}
		criteria.LateNightDeal = parsed
	}

	start, end := strings.TrimSpace(req.Start), strings.TrimSpace(req.End)
	if start != "" || end != "" {
		if start == "" || end == "" {
			return Criteria{}, invalid("start", "start and end must be provided together")
		}
		if err := s.checkSpan(start, end); err != nil {
			return Criteria{}, err
		}
		// The range supersedes date, which is then ignored.
		criteria.Range = &DateRange{Start: start, End: end}
		criteria.Date = start
		return criteria, nil
	}

	criteria.Date = strings.TrimSpace(req.Date)
	if criteria.Date == "" {
		criteria.Date = util.TodayIn(s.now(), s.timezone)
	}
	if _, err := util.ParseDate(criteria.Date); err != nil {
		return Criteria{}, invalid("date", "must be formatted as YYYY-MM-DD")
	}
	return criteria, nil
}

// checkSpan validates an inclusive date range and bounds its length before
// any per-day work is done.
func (s *service) checkSpan(start, end string) error {
	days, err := CountDays(start, end)
	if err != nil {
		return err
	}
	if s.cfg.MaxRangeDays > 0 && days > s.cfg.MaxRangeDays {
		return invalid("end", fmt.Sprintf("range cannot exceed %d days", s.cfg.MaxRangeDays))
	}
	return nil
}

func isAllowedDuration(minutes int) bool {
	for _, d := range AllowedDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

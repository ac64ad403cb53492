package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/freeweek-api/internal/dto"
	"github.com/noah-isme/freeweek-api/internal/engine"
	"github.com/noah-isme/freeweek-api/internal/models"
	"github.com/noah-isme/freeweek-api/pkg/config"
	appErrors "github.com/noah-isme/freeweek-api/pkg/errors"
)

// EmptyStateMessage is returned when a computation succeeds but no window
// satisfies the quorum and duration filters.
const EmptyStateMessage = "No matching sessions. Adjust filters."

type sessionSettingsProvider interface {
	Get(ctx context.Context, userID string) (models.UserSettings, error)
	ResolveTimezone(settings models.UserSettings) string
}

type sessionGroupGate interface {
	EnsureGroupAllowed(ctx context.Context, userID, callerUsername string, usernames []string) error
}

type sessionAvailabilitySource interface {
	FetchGroup(ctx context.Context, usernames []string, from, to int64) (map[string][]models.AvailabilityInterval, error)
}

type sessionCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// SessionService computes the aggregated week view for a group: the
// per-slot heatmap, the dim mask and the ranked candidate windows.
// Results are cached per input combination; any availability or settings
// write invalidates every cached payload the writer participates in.
type SessionService struct {
	settings     sessionSettingsProvider
	friends      sessionGroupGate
	availability sessionAvailabilitySource
	cache        sessionCache
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	cfg          config.SessionsConfig
	now          func() time.Time

	generation uint64
}

// NewSessionService instantiates SessionService.
func NewSessionService(settings sessionSettingsProvider, friends sessionGroupGate, availability sessionAvailabilitySource, cache sessionCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg config.SessionsConfig) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		settings:     settings,
		friends:      friends,
		availability: availability,
		cache:        cache,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		cfg:          cfg,
		now:          time.Now,
	}
}

// Generation returns the current invalidation counter. Clients compare it
// against the value embedded in a response to discard payloads computed
// before a concurrent write.
func (s *SessionService) Generation() uint64 {
	return atomic.LoadUint64(&s.generation)
}

// InvalidateUser bumps the generation counter and drops every cached week
// payload the user appears in, either as viewer or as group member.
func (s *SessionService) InvalidateUser(ctx context.Context, username string) {
	atomic.AddUint64(&s.generation, 1)
	if s.cache == nil || username == "" {
		return
	}
	patterns := []string{
		"sessions:v:" + username + ":*",
		"sessions:*:m:*," + username + ",*",
	}
	for _, pattern := range patterns {
		if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
			s.logger.Warn("session cache invalidation failed",
				zap.String("username", username),
				zap.String("pattern", pattern),
				zap.Error(err))
		}
	}
}

// Compute runs the full pipeline for one group and week. An unknown
// timezone is a 400-class error; a group with no overlapping free time is
// a normal response carrying an empty-state message instead.
func (s *SessionService) Compute(ctx context.Context, userID, callerUsername string, req dto.ComputeSessionsRequest) (dto.ComputeSessionsResponse, error) {
	var resp dto.ComputeSessionsResponse

	if err := s.validator.Struct(req); err != nil {
		return resp, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session request")
	}

	members := dedupeSorted(req.Members)
	if s.cfg.MaxGroupSize > 0 && len(members) > s.cfg.MaxGroupSize {
		return resp, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("group exceeds %d members", s.cfg.MaxGroupSize))
	}

	if s.friends != nil {
		if err := s.friends.EnsureGroupAllowed(ctx, userID, callerUsername, members); err != nil {
			return resp, err
		}
	}

	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return resp, err
	}
	tz := s.settings.ResolveTimezone(settings)
	heatmap := settings.Heatmap
	if !engine.KnownColormap(heatmap) {
		heatmap = engine.DefaultColormap
	}

	now := s.now()
	window, err := engine.WeekStart(tz, engine.WeekStartDay(settings.WeekStart), req.WeekOffset, now)
	if err != nil {
		return resp, err
	}

	startIndex := 0
	if req.WeekOffset <= 0 {
		startIndex = engine.NowIndex(window, now)
	}
	sortMode := engine.ParseSortMode(req.Sort)

	key := s.cacheKey(callerUsername, members, window, startIndex, req, settings, tz, heatmap, sortMode)
	if s.cache != nil {
		lookupStart := time.Now()
		err := s.cache.Get(ctx, key, &resp)
		s.metrics.RecordCacheOperation(err == nil, time.Since(lookupStart))
		if err == nil {
			resp.Generation = s.Generation()
			return resp, nil
		}
		if err != appErrors.ErrCacheMiss {
			s.logger.Warn("session cache lookup failed", zap.String("key", key), zap.Error(err))
		}
	}

	computeStart := time.Now()
	resp, err = s.compute(ctx, members, window, startIndex, req, settings, tz, heatmap, sortMode)
	s.metrics.ObserveCompute(time.Since(computeStart))
	if err != nil {
		return dto.ComputeSessionsResponse{}, err
	}

	if s.cache != nil {
		writeStart := time.Now()
		if err := s.cache.Set(ctx, key, resp, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("session cache write failed", zap.String("key", key), zap.Error(err))
		}
		s.metrics.ObserveCacheWrite(time.Since(writeStart))
	}

	resp.Generation = s.Generation()
	return resp, nil
}

func (s *SessionService) compute(ctx context.Context, members []string, window engine.WeekWindow, startIndex int, req dto.ComputeSessionsRequest, settings models.UserSettings, tz, heatmap string, sortMode engine.SortMode) (dto.ComputeSessionsResponse, error) {
	var resp dto.ComputeSessionsResponse

	stored, err := s.availability.FetchGroup(ctx, members, window.From(), window.To())
	if err != nil {
		return resp, err
	}

	memberSlots := make(map[string]map[int64]struct{}, len(members))
	for _, username := range members {
		intervals := make([]engine.Interval, 0, len(stored[username]))
		for _, row := range stored[username] {
			intervals = append(intervals, engine.Interval{From: row.SlotFrom, To: row.SlotTo})
		}
		memberSlots[username] = engine.Decompress(intervals, window.From(), window.To(), engine.SlotSeconds)
	}

	agg := engine.Aggregate(members, memberSlots, window, engine.SlotsPerDay)
	counts := agg.Counts()
	dim := engine.DimMask(counts, len(members), req.MaxMissing, req.MinHours, engine.SlotsPerHour, startIndex)
	candidates := engine.FindCandidates(agg, len(members), req.MaxMissing, req.MinHours, engine.SlotsPerHour, startIndex, sortMode)

	loc, locErr := time.LoadLocation(tz)
	if locErr != nil {
		loc = time.UTC
	}

	slots := make([]dto.SlotCell, len(agg.Slots))
	for g := range agg.Slots {
		day, slot := engine.SplitIndex(g, engine.SlotsPerDay)
		slots[g] = dto.SlotCell{
			Epoch: engine.SlotEpoch(window, day, slot),
			Count: counts[g],
			Color: engine.ShadeForCount(counts[g], len(members), heatmap).Hex(),
			Dim:   dim[g],
		}
	}

	windows := make([]dto.SessionWindow, 0, len(candidates))
	for _, c := range candidates {
		missing := missingMembers(members, c.Participants)
		timeRange := formatTimeRange(c.StartEpoch, c.EndEpoch, loc, settings.Clock)
		windows = append(windows, dto.SessionWindow{
			StartEpoch:    c.StartEpoch,
			EndEpoch:      c.EndEpoch,
			DurationSlots: c.DurationSlots,
			Participants:  c.Participants,
			Missing:       missing,
			TimeRange:     timeRange,
			Invitation:    invitationText(timeRange, c.Participants, missing),
		})
	}

	resp = dto.ComputeSessionsResponse{
		WeekFrom:  window.From(),
		WeekTo:    window.To(),
		Timezone:  tz,
		WeekStart: settings.WeekStart,
		Heatmap:   heatmap,
		Members:   members,
		Slots:     slots,
		Windows:   windows,
	}
	if len(windows) == 0 {
		resp.EmptyState = EmptyStateMessage
	}
	return resp, nil
}

// cacheKey embeds every input that changes the payload. Member lists are
// wrapped in commas so InvalidateUser can glob-match a username without
// also matching usernames it is a substring of.
func (s *SessionService) cacheKey(viewer string, members []string, window engine.WeekWindow, startIndex int, req dto.ComputeSessionsRequest, settings models.UserSettings, tz, heatmap string, sortMode engine.SortMode) string {
	return fmt.Sprintf("sessions:v:%s:m:,%s,:b:%d:i:%d:x:%d:h:%g:s:%s:tz:%s:ws:%s:hm:%s:ck:%s",
		viewer,
		strings.Join(members, ","),
		window.BaseEpoch,
		startIndex,
		req.MaxMissing,
		req.MinHours,
		sortMode,
		tz,
		settings.WeekStart,
		heatmap,
		settings.Clock)
}

func dedupeSorted(usernames []string) []string {
	seen := make(map[string]struct{}, len(usernames))
	out := make([]string, 0, len(usernames))
	for _, u := range usernames {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

func missingMembers(members, participants []string) []string {
	present := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		present[p] = struct{}{}
	}
	missing := make([]string, 0, len(members)-len(participants))
	for _, m := range members {
		if _, ok := present[m]; !ok {
			missing = append(missing, m)
		}
	}
	return missing
}

func formatTimeRange(startEpoch, endEpoch int64, loc *time.Location, clock string) string {
	start := time.Unix(startEpoch, 0).In(loc)
	end := time.Unix(endEpoch, 0).In(loc)

	clockLayout := "15:04"
	if clock == models.Clock12 {
		clockLayout = "3:04 PM"
	}

	if start.YearDay() == end.YearDay() && start.Year() == end.Year() {
		return fmt.Sprintf("%s, %s - %s", start.Format("Mon Jan 2"), start.Format(clockLayout), end.Format(clockLayout))
	}
	return fmt.Sprintf("%s %s - %s %s", start.Format("Mon Jan 2"), start.Format(clockLayout), end.Format("Mon Jan 2"), end.Format(clockLayout))
}

func invitationText(timeRange string, participants, missing []string) string {
	var b strings.Builder
	b.WriteString("Session: ")
	b.WriteString(timeRange)
	b.WriteString("\nParticipants: ")
	b.WriteString(strings.Join(participants, ", "))
	if len(missing) > 0 {
		b.WriteString("\nMissing: ")
		b.WriteString(strings.Join(missing, ", "))
	}
	return b.String()
}

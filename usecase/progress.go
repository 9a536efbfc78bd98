package usecase

import (
	"context"
	"errors"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/apperr"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/catalog"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/progression"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxWriteAttempts = 3

// Invalidator is told when leaderboard inputs change.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type DaySummary struct {
	Day       *catalog.Day
	Progress  model.DayProgress
	Aggregate model.Aggregate
}

type Overview struct {
	Profile   *model.UserProfile
	Aggregate model.Aggregate
	Days      []DaySummary
}

type DayView struct {
	Day       *catalog.Day
	Progress  model.DayProgress
	Tasks     []progression.TaskState
	Aggregate model.Aggregate
}

// Completion is the persisted outcome of a completion request.
type Completion struct {
	Profile   *model.UserProfile
	Task      catalog.Task
	DayID     int
	Awarded   int
	Changed   bool
	Aggregate model.Aggregate
	Day       DayView
}

// ProgressService runs the progression engine against the progress store.
// Computed profiles are only reported after the store accepted them.
type ProgressService struct {
	profiles ProfileStore
	users    UserStore
	catalog  *catalog.Catalog
	board    Invalidator
	log      *utils.Logger
	tracer   trace.Tracer
}

// NewProgressService builds the service. board may be nil.
func NewProgressService(profiles ProfileStore, users UserStore, cat *catalog.Catalog, board Invalidator, log *utils.Logger) *ProgressService {
	return &ProgressService{
		profiles: profiles,
		users:    users,
		catalog:  cat,
		board:    board,
		log:      log,
		tracer:   otel.Tracer("sprintworkshop/usecase/progress"),
	}
}

func (s *ProgressService) Overview(ctx context.Context, identity model.Identity) (*Overview, error) {
	profile, err := s.loadProfile(ctx, identity)
	if err != nil {
		return nil, err
	}

	days := make([]DaySummary, 0, len(s.catalog.Days))
	for i := range s.catalog.Days {
		day := &s.catalog.Days[i]
		dp := progression.DayProgress(profile, day)
		days = append(days, DaySummary{Day: day, Progress: dp, Aggregate: progression.DayAggregate(dp)})
	}
	return &Overview{
		Profile:   profile,
		Aggregate: progression.ComputeAggregateProgress(profile),
		Days:      days,
	}, nil
}

func (s *ProgressService) DayView(ctx context.Context, identity model.Identity, dayID int) (*DayView, error) {
	day, err := s.catalog.Day(dayID)
	if err != nil {
		return nil, apperr.NotFound("day view", err)
	}
	profile, err := s.loadProfile(ctx, identity)
	if err != nil {
		return nil, err
	}
	view := s.dayView(profile, day)
	return &view, nil
}

// CompleteTask marks taskID of dayID completed for the caller.
//
// The new absolute state is written with a compare-and-set on the profile
// version. A lost race re-reads and re-runs the engine, so a concurrent
// duplicate completion turns into a no-op. Any other write failure discards
// the computed state and returns Unavailable.
func (s *ProgressService) CompleteTask(ctx context.Context, identity model.Identity, dayID int, taskID string) (*Completion, error) {
	const op = "complete task"

	ctx, span := s.tracer.Start(ctx, "progress.CompleteTask", trace.WithAttributes(
		attribute.String("user.id", identity.UserID),
		attribute.Int("workshop.day", dayID),
		attribute.String("workshop.task", taskID),
	))
	defer span.End()

	for attempt := 1; ; attempt++ {
		current, err := s.loadProfile(ctx, identity)
		if err != nil {
			recordSpanError(span, err)
			return nil, err
		}

		res, err := progression.CompleteTask(current, s.catalog, dayID, taskID)
		if err != nil {
			utils.TrackTaskCompletion(dayID, rejectionOutcome(err))
			s.log.Debug("task completion rejected", "user_id", identity.UserID, "day", dayID, "task", taskID, "error", err)
			recordSpanError(span, err)
			return nil, err
		}
		if !res.Changed {
			utils.TrackTaskCompletion(dayID, "duplicate")
			span.SetAttributes(attribute.Bool("workshop.changed", false))
			return s.completion(res), nil
		}

		err = s.profiles.WriteProfile(ctx, res.Profile, current.Version)
		if err == nil {
			utils.TrackTaskCompletion(dayID, "completed")
			utils.PointsAwarded.Add(float64(res.Awarded))
			span.SetAttributes(attribute.Bool("workshop.changed", true), attribute.Int("workshop.awarded", res.Awarded))
			if s.board != nil {
				s.board.Invalidate(ctx)
			}
			s.log.Info("task completed", "user_id", identity.UserID, "day", dayID, "task", taskID, "points", res.Awarded, "attempt", attempt)
			return s.completion(res), nil
		}

		if apperr.Is(err, apperr.KindConflict) {
			if attempt < maxWriteAttempts {
				utils.ProfileWriteRetries.Inc()
				s.log.Debug("profile write conflict, retrying", "user_id", identity.UserID, "attempt", attempt)
				continue
			}
			utils.TrackTaskCompletion(dayID, "conflict")
			recordSpanError(span, err)
			return nil, err
		}

		utils.TrackTaskCompletion(dayID, "failed")
		s.log.Error("failed to persist task completion", "user_id", identity.UserID, "day", dayID, "task", taskID, "error", err)
		if persisted, rerr := s.profiles.GetProfile(ctx, identity.UserID); rerr == nil {
			s.log.Info("persisted progress after failed write", "user_id", identity.UserID, "points", persisted.Points, "version", persisted.Version)
		}
		recordSpanError(span, err)
		if apperr.Is(err, apperr.KindUnavailable) {
			return nil, err
		}
		return nil, apperr.Unavailable(op, err)
	}
}

// loadProfile fetches the caller's profile, creating it when the identity
// has none yet. Inconsistent records are reconciled and the repair is
// written back under the stored version.
func (s *ProgressService) loadProfile(ctx context.Context, identity model.Identity) (*model.UserProfile, error) {
	profile, err := s.profiles.GetProfile(ctx, identity.UserID)
	if apperr.Is(err, apperr.KindNotFound) {
		profile, err = s.createMissingProfile(ctx, identity)
	}
	if err != nil {
		return nil, err
	}

	if verr := progression.CheckInvariants(profile, s.catalog); verr != nil {
		s.log.Warn("reconciling inconsistent profile", "user_id", identity.UserID, "violations", verr.Error())
		utils.TrackError("progress", "profile_reconciled")
		profile = s.persistRepair(ctx, profile)
	}
	return profile, nil
}

// persistRepair reconciles profile and saves the result. A failed save is
// logged; the caller still gets the repaired profile at the old version, so
// a later completion write conflicts and re-reads.
func (s *ProgressService) persistRepair(ctx context.Context, profile *model.UserProfile) *model.UserProfile {
	repaired := progression.Reconcile(profile, s.catalog)
	if err := s.profiles.WriteProfile(ctx, repaired, profile.Version); err != nil {
		repaired.Version = profile.Version
		s.log.Warn("failed to persist reconciled profile", "user_id", profile.UserID, "error", err)
		return repaired
	}
	if s.board != nil {
		s.board.Invalidate(ctx)
	}
	return repaired
}

func (s *ProgressService) createMissingProfile(ctx context.Context, identity model.Identity) (*model.UserProfile, error) {
	user, err := s.users.FindUser(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	profile := progression.NewProfile(user.UserID, user.DisplayName, s.catalog)
	profile.Email = user.Email
	profile.IsGuest = user.IsGuest

	err = s.profiles.CreateProfile(ctx, profile)
	if apperr.Is(err, apperr.KindConflict) {
		// Created concurrently by another request.
		return s.profiles.GetProfile(ctx, identity.UserID)
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("created missing profile", "user_id", identity.UserID)
	return profile, nil
}

func (s *ProgressService) dayView(profile *model.UserProfile, day *catalog.Day) DayView {
	dp := progression.DayProgress(profile, day)
	return DayView{
		Day:       day,
		Progress:  dp,
		Tasks:     progression.DeriveTaskState(day, dp),
		Aggregate: progression.DayAggregate(dp),
	}
}

func (s *ProgressService) completion(res progression.Result) *Completion {
	day, _ := s.catalog.Day(res.DayID)
	return &Completion{
		Profile:   res.Profile,
		Task:      res.Task,
		DayID:     res.DayID,
		Awarded:   res.Awarded,
		Changed:   res.Changed,
		Aggregate: progression.ComputeAggregateProgress(res.Profile),
		Day:       s.dayView(res.Profile, day),
	}
}

func rejectionOutcome(err error) string {
	switch {
	case errors.Is(err, progression.ErrTaskLocked):
		return "locked"
	case apperr.Is(err, apperr.KindNotFound):
		return "not_found"
	default:
		return "invalid"
	}
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

package family

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/royal-guard/royalguard/internal/app/engagement"
	"github.com/royal-guard/royalguard/internal/domain"
	"github.com/royal-guard/royalguard/internal/infra/metrics"
)

// ─── Habit Logging ──────────────────────────────────────────────────────────

// HabitResult is a committed habit mutation.
type HabitResult struct {
	Child         domain.ChildData       `json:"child"`
	XPDelta       int                    `json:"xp_delta"`
	LeveledUp     bool                   `json:"leveled_up"`
	SilverGranted int                    `json:"silver_granted"`
	Level         engagement.LevelStatus `json:"level"`
}

// SetWater sets a day's water count (0..6).
func (s *Service) SetWater(ctx context.Context, childID, date string, count int) (HabitResult, error) {
	return s.applyHabit(ctx, childID, "water", func(c domain.ChildData) (engagement.Outcome, error) {
		return s.habits.SetWaterCount(c, date, count)
	})
}

// ToggleHabit flips the veggie or probiotics habit for a day.
func (s *Service) ToggleHabit(ctx context.Context, childID, date string, kind domain.HabitKind) (HabitResult, error) {
	action := "veggie"
	if kind == domain.HabitProbiotics {
		action = "probiotics"
	}
	return s.applyHabit(ctx, childID, action, func(c domain.ChildData) (engagement.Outcome, error) {
		return s.habits.ToggleDailyHabit(c, date, kind)
	})
}

// AddBowelMovement logs a bowel movement for a day.
func (s *Service) AddBowelMovement(ctx context.Context, childID, date string, typ domain.PoopType) (HabitResult, error) {
	return s.applyHabit(ctx, childID, "poop", func(c domain.ChildData) (engagement.Outcome, error) {
		return s.habits.AddBowelMovement(c, date, typ)
	})
}

func (s *Service) applyHabit(ctx context.Context, childID, action string,
	fn func(domain.ChildData) (engagement.Outcome, error)) (HabitResult, error) {

	var out engagement.Outcome
	saved, err := s.mutate(ctx, childID, action, func(c domain.ChildData) (domain.ChildData, error) {
		o, err := fn(c)
		if err != nil {
			return domain.ChildData{}, err
		}
		out = o
		return o.Child, nil
	})
	if err != nil {
		return HabitResult{}, err
	}

	recordOutcome(action, out)
	if out.LeveledUp() {
		s.log.Info("child leveled up",
			zap.String("child_id", childID), zap.Int("level", out.LevelAfter))
	}

	return HabitResult{
		Child:         saved,
		XPDelta:       out.XPDelta,
		LeveledUp:     out.LeveledUp(),
		SilverGranted: out.SilverGranted,
		Level:         engagement.Status(saved.Profile.Level, saved.Profile.XP),
	}, nil
}

func recordOutcome(action string, out engagement.Outcome) {
	switch {
	case out.XPDelta > 0:
		metrics.XPGranted.WithLabelValues(action).Add(float64(out.XPDelta))
	case out.XPDelta < 0:
		metrics.XPRemoved.WithLabelValues(action).Add(float64(-out.XPDelta))
	}
	switch {
	case out.LevelAfter > out.LevelBefore:
		metrics.LevelChanges.WithLabelValues("up").Inc()
	case out.LevelAfter < out.LevelBefore:
		metrics.LevelChanges.WithLabelValues("down").Inc()
	}
	if out.SilverGranted > 0 {
		metrics.TicketsGranted.WithLabelValues(string(domain.TicketSilver)).Add(float64(out.SilverGranted))
	}
}

// ─── Read Models ────────────────────────────────────────────────────────────

// Level returns the rank view of a child.
func (s *Service) Level(ctx context.Context, childID string) (engagement.LevelStatus, error) {
	c, err := s.store.GetChild(ctx, childID)
	if err != nil {
		return engagement.LevelStatus{}, err
	}
	return engagement.Status(c.Profile.Level, c.Profile.XP), nil
}

// Summary returns per-day habit data for the days ending on today. An empty
// today uses the current date in the service location.
func (s *Service) Summary(ctx context.Context, childID, today string, days int) (engagement.Summary, error) {
	var day time.Time
	if today == "" {
		day = s.now().In(s.loc)
	} else {
		var err error
		if day, err = domain.ParseDay(today, s.loc); err != nil {
			return engagement.Summary{}, err
		}
	}
	c, err := s.store.GetChild(ctx, childID)
	if err != nil {
		return engagement.Summary{}, err
	}
	return engagement.Summarize(c, day, days)
}

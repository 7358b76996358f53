package engagement

import (
	"fmt"
	"slices"
	"time"

	"github.com/royal-guard/royalguard/internal/app/ticket"
	"github.com/royal-guard/royalguard/internal/domain"
)

// Outcome is the result of one habit mutation: the derived snapshot and the
// XP and tickets it produced. The input snapshot is never modified.
type Outcome struct {
	Child         domain.ChildData `json:"child"`
	XPDelta       int              `json:"xp_delta"`
	LevelBefore   int              `json:"level_before"`
	LevelAfter    int              `json:"level_after"`
	SilverGranted int              `json:"silver_granted"`
}

// LeveledUp reports whether the mutation promoted the child.
func (o Outcome) LeveledUp() bool { return o.LevelAfter > o.LevelBefore }

// Ledger applies the habit rules to child snapshots. It is stateless apart
// from the calendar location and the id source, so one Ledger may be shared.
type Ledger struct {
	loc   *time.Location
	newID func() string
}

// NewLedger creates a habit ledger. Dates are interpreted in loc; newID
// names new bowel-movement entries.
func NewLedger(loc *time.Location, newID func() string) *Ledger {
	if loc == nil {
		loc = time.Local
	}
	return &Ledger{loc: loc, newID: newID}
}

// WaterDelta returns the XP change for moving a day's water count from prev
// to next.
func WaterDelta(prev, next int) int {
	switch {
	case next > prev:
		if next == domain.DailyWaterGoal {
			return XPWaterGoal
		}
		return XPWaterStep
	case next < prev:
		if prev == domain.DailyWaterGoal {
			return -XPWaterGoal
		}
		return -XPWaterStep
	}
	return 0
}

// SetWaterCount sets the water count for date. A count of zero removes the
// day's entry; setting the current count again is a no-op worth 0 XP.
func (l *Ledger) SetWaterCount(child domain.ChildData, date string, count int) (Outcome, error) {
	if _, err := domain.ParseDay(date, l.loc); err != nil {
		return Outcome{}, err
	}
	if count < 0 || count > domain.DailyWaterGoal {
		return Outcome{}, fmt.Errorf("%w: water count %d not in 0..%d",
			domain.ErrInvalidRange, count, domain.DailyWaterGoal)
	}

	next := child.Clone()
	prev, idx := 0, -1
	for i, e := range next.WaterLogs {
		if e.Date == date {
			prev, idx = e.Count, i
			break
		}
	}

	switch {
	case count == 0 && idx >= 0:
		next.WaterLogs = slices.Delete(next.WaterLogs, idx, idx+1)
	case count > 0 && idx >= 0:
		next.WaterLogs[idx].Count = count
	case count > 0:
		next.WaterLogs = append(next.WaterLogs, domain.WaterLogEntry{Date: date, Count: count})
	}

	return award(child, next, WaterDelta(prev, count), 0), nil
}

// ToggleDailyHabit flips a boolean habit for date. Turning it off removes
// the entry.
func (l *Ledger) ToggleDailyHabit(child domain.ChildData, date string, kind domain.HabitKind) (Outcome, error) {
	if _, err := domain.ParseDay(date, l.loc); err != nil {
		return Outcome{}, err
	}
	if _, err := domain.ParseHabitKind(string(kind)); err != nil {
		return Outcome{}, err
	}

	next := child.Clone()
	logs := &next.VegetableLogs
	if kind == domain.HabitProbiotics {
		logs = &next.ProbioticsLogs
	}

	idx := slices.IndexFunc(*logs, func(e domain.SimpleLogEntry) bool { return e.Date == date })
	if idx >= 0 && (*logs)[idx].IsDone {
		*logs = slices.Delete(*logs, idx, idx+1)
		return award(child, next, -XPDailyHabit, 0), nil
	}
	if idx >= 0 {
		// Stale not-done entry from older data.
		*logs = slices.Delete(*logs, idx, idx+1)
	}
	*logs = append(*logs, domain.SimpleLogEntry{Date: date, IsDone: true})
	return award(child, next, XPDailyHabit, 0), nil
}

// AddBowelMovement appends a bowel-movement entry stamped at local noon of
// date. Every MilestoneSize-th entry overall grants one silver ticket.
func (l *Ledger) AddBowelMovement(child domain.ChildData, date string, typ domain.PoopType) (Outcome, error) {
	day, err := domain.ParseDay(date, l.loc)
	if err != nil {
		return Outcome{}, err
	}
	if _, err := domain.ParsePoopType(string(typ)); err != nil {
		return Outcome{}, err
	}

	next := child.Clone()
	next.PoopLogs = append(next.PoopLogs, domain.PoopLogEntry{
		ID:        l.newID(),
		Date:      date,
		Timestamp: time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, l.loc),
		Type:      typ,
	})

	silver := 0
	if len(next.PoopLogs)%MilestoneSize == 0 {
		next = ticket.Grant(next, domain.TicketSilver, 1)
		silver = 1
	}
	return award(child, next, XPBowelMove, silver), nil
}

func award(before, next domain.ChildData, delta, silver int) Outcome {
	next.Profile.Level, next.Profile.XP = ApplyXPDelta(next.Profile.Level, next.Profile.XP, delta)
	return Outcome{
		Child:         next,
		XPDelta:       delta,
		LevelBefore:   before.Profile.Level,
		LevelAfter:    next.Profile.Level,
		SilverGranted: silver,
	}
}

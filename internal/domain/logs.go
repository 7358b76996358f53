package domain

import (
	"fmt"
	"time"
)

// DayLayout is the calendar-day key format used by every log collection.
const DayLayout = "2006-01-02"

// DailyWaterGoal is the fixed number of water units per day.
const DailyWaterGoal = 6

// ParseDay validates a calendar-day key ("YYYY-MM-DD") and returns midnight
// of that day in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DayLayout, s, loc)
	if err != nil {
		return time.Time{}, invalid("date", s)
	}
	return t, nil
}

// WaterLogEntry records the water count for one day. A missing entry means
// zero.
type WaterLogEntry struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// PoopType classifies a bowel movement.
type PoopType string

const (
	PoopHard     PoopType = "HARD"
	PoopNormal   PoopType = "NORMAL"
	PoopSoft     PoopType = "SOFT"
	PoopDiarrhea PoopType = "DIARRHEA"
)

// ParsePoopType validates a poop type string.
func ParsePoopType(s string) (PoopType, error) {
	switch p := PoopType(s); p {
	case PoopHard, PoopNormal, PoopSoft, PoopDiarrhea:
		return p, nil
	}
	return "", invalid("poop type", s)
}

// PoopLogEntry is one bowel-movement record. Several may share a date.
type PoopLogEntry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
	Type      PoopType  `json:"type"`
}

// SimpleLogEntry marks a boolean daily habit as done. Entries are removed,
// never stored with IsDone=false, when a habit is toggled off.
type SimpleLogEntry struct {
	Date   string `json:"date"`
	IsDone bool   `json:"is_done"`
}

// HabitKind selects one of the two boolean daily habits.
type HabitKind string

const (
	HabitVeggie     HabitKind = "VEGGIE"
	HabitProbiotics HabitKind = "PROBIOTICS"
)

// ParseHabitKind validates a habit kind string.
func ParseHabitKind(s string) (HabitKind, error) {
	switch k := HabitKind(s); k {
	case HabitVeggie, HabitProbiotics:
		return k, nil
	}
	return "", invalid("habit kind", s)
}

func invalid(field, value string) error {
	return fmt.Errorf("%w: %s %q", ErrInvalidRange, field, value)
}

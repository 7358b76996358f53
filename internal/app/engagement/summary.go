package engagement

import (
	"fmt"
	"time"

	"github.com/royal-guard/royalguard/internal/domain"
)

// Summary window bounds, in days.
const (
	DefaultSummaryDays = 7
	MaxSummaryDays     = 31
)

// DaySummary is one calendar day of habit data.
type DaySummary struct {
	Date           string `json:"date"`
	Water          int    `json:"water"`
	BowelMovements int    `json:"bowel_movements"`
	Veggie         bool   `json:"veggie"`
	Probiotics     bool   `json:"probiotics"`
}

// Summary aggregates a window of days ending today, oldest first.
type Summary struct {
	From           string       `json:"from"`
	To             string       `json:"to"`
	Days           []DaySummary `json:"days"`
	WaterGoalDays  int          `json:"water_goal_days"`
	BowelMovements int          `json:"bowel_movements"`
	VeggieDays     int          `json:"veggie_days"`
	ProbioticsDays int          `json:"probiotics_days"`
}

// Summarize builds the last days days of habit data ending on today's
// calendar date. days == 0 selects DefaultSummaryDays.
func Summarize(child domain.ChildData, today time.Time, days int) (Summary, error) {
	if days == 0 {
		days = DefaultSummaryDays
	}
	if days < 1 || days > MaxSummaryDays {
		return Summary{}, fmt.Errorf("%w: summary days %d not in 1..%d",
			domain.ErrInvalidRange, days, MaxSummaryDays)
	}

	water := make(map[string]int, len(child.WaterLogs))
	for _, e := range child.WaterLogs {
		water[e.Date] = e.Count
	}
	poops := make(map[string]int)
	for _, e := range child.PoopLogs {
		poops[e.Date]++
	}
	veggie := doneDays(child.VegetableLogs)
	probiotics := doneDays(child.ProbioticsLogs)

	s := Summary{Days: make([]DaySummary, 0, days)}
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(domain.DayLayout)
		d := DaySummary{
			Date:           date,
			Water:          water[date],
			BowelMovements: poops[date],
			Veggie:         veggie[date],
			Probiotics:     probiotics[date],
		}
		if d.Water >= domain.DailyWaterGoal {
			s.WaterGoalDays++
		}
		if d.Veggie {
			s.VeggieDays++
		}
		if d.Probiotics {
			s.ProbioticsDays++
		}
		s.BowelMovements += d.BowelMovements
		s.Days = append(s.Days, d)
	}
	s.From = s.Days[0].Date
	s.To = s.Days[len(s.Days)-1].Date
	return s, nil
}

func doneDays(logs []domain.SimpleLogEntry) map[string]bool {
	m := make(map[string]bool, len(logs))
	for _, e := range logs {
		if e.IsDone {
			m[e.Date] = true
		}
	}
	return m
}

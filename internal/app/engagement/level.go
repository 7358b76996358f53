// Package engagement implements the Royal Guard progression engine.
// Habit logs feed XP deltas into a three-rank level ladder; the bowel
// movement milestone is the only source of gacha tickets.
package engagement

// Level thresholds. Reaching level 2 costs 100 XP, level 3 costs 300 more.
// Level 3 is the top rank and absorbs any further XP.
const (
	LevelTwoXP   = 100
	LevelThreeXP = 300
	MaxLevel     = 3
)

// XP deltas per habit action.
const (
	XPWaterGoal   = 20 // count reaches the daily goal, or drops from it
	XPWaterStep   = 5
	XPDailyHabit  = 30
	XPBowelMove   = 50
	MilestoneSize = 3 // every Nth bowel movement grants a silver ticket
)

// threshold is the XP span of a level before the next promotion.
func threshold(level int) int {
	if level <= 1 {
		return LevelTwoXP
	}
	return LevelThreeXP
}

// ApplyXPDelta adds delta to xp and performs at most one promotion followed
// by at most one demotion. Transitions are single-step: a delta large enough
// to cross two thresholds still moves one level, and the leftover XP stays
// in the new level's bar.
//
// Because of the single step, undoing an action that caused a promotion
// does not restore the previous (level, xp) pair exactly.
func ApplyXPDelta(level, xp, delta int) (int, int) {
	newXP := xp + delta
	newLevel := level

	switch {
	case newLevel == 1 && newXP >= LevelTwoXP:
		newLevel, newXP = 2, newXP-LevelTwoXP
	case newLevel == 2 && newXP >= LevelThreeXP:
		newLevel, newXP = 3, newXP-LevelThreeXP
	}

	if newXP < 0 {
		if newLevel > 1 {
			newLevel--
			newXP += threshold(newLevel)
		} else {
			newXP = 0
		}
	}
	return newLevel, newXP
}

// LevelStatus is the presentation-free view of a child's rank.
type LevelStatus struct {
	Level       int     `json:"level"`
	Title       string  `json:"title"`
	XP          int     `json:"xp"`
	NextLevelXP int     `json:"next_level_xp"` // 0 at the top rank
	ProgressPct float64 `json:"progress_pct"`
	AtCeiling   bool    `json:"at_ceiling"`
}

var levelTitles = map[int]string{
	1: "Apprentice Knight",
	2: "Elite Knight",
	3: "Lord",
}

// TitleFor returns the rank title for a level. Levels past the ladder keep
// the top title.
func TitleFor(level int) string {
	if level >= MaxLevel {
		return levelTitles[MaxLevel]
	}
	if level < 1 {
		return levelTitles[1]
	}
	return levelTitles[level]
}

// Status summarizes a (level, xp) pair.
func Status(level, xp int) LevelStatus {
	st := LevelStatus{
		Level: level,
		Title: TitleFor(level),
		XP:    xp,
	}
	if level >= MaxLevel {
		st.AtCeiling = true
		st.ProgressPct = 100
		return st
	}
	st.NextLevelXP = threshold(level)
	pct := float64(xp) * 100 / float64(st.NextLevelXP)
	switch {
	case pct > 100:
		pct = 100
	case pct < 0:
		pct = 0
	}
	st.ProgressPct = pct
	return st
}

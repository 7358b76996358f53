package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/royal-guard/royalguard/internal/app/engagement"
	"github.com/royal-guard/royalguard/internal/app/family"
	"github.com/royal-guard/royalguard/internal/app/ticket"
	"github.com/royal-guard/royalguard/internal/daemon"
	"github.com/royal-guard/royalguard/internal/domain"
)

// withService opens the local daemon wiring, hands the family service to fn
// and closes everything afterwards.
func withService(fn func(svc *family.Service) error) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()
	return fn(d.Family)
}

func printChild(w io.Writer, c domain.ChildData) {
	p := c.Profile
	st := engagement.Status(p.Level, p.XP)
	fmt.Fprintf(w, "ID:        %s\n", p.ID)
	fmt.Fprintf(w, "Username:  %s\n", p.Username)
	fmt.Fprintf(w, "Name:      %s (%d, %s)\n", p.Name, p.Age, strings.ToLower(string(p.Gender)))
	fmt.Fprintf(w, "Level:     %d %s\n", st.Level, st.Title)
	if st.AtCeiling {
		fmt.Fprintf(w, "XP:        %d (max level)\n", st.XP)
	} else {
		fmt.Fprintf(w, "XP:        %d / %d (%.0f%%)\n", st.XP, st.NextLevelXP, st.ProgressPct)
	}
	fmt.Fprintf(w, "Tickets:   %d silver, %d gold\n", p.Tickets.Silver, p.Tickets.Gold)
	fmt.Fprintf(w, "Rewards:   %d won, %d waiting\n", len(c.WonRewards), len(ticket.Unredeemed(c)))
}

func printHabit(w io.Writer, res family.HabitResult) {
	sign := "+"
	if res.XPDelta < 0 {
		sign = ""
	}
	fmt.Fprintf(w, "XP %s%d -> level %d, %d XP\n", sign, res.XPDelta, res.Level.Level, res.Level.XP)
	if res.LeveledUp {
		fmt.Fprintf(w, "Level up! Now %s.\n", res.Level.Title)
	}
	if res.SilverGranted > 0 {
		fmt.Fprintf(w, "Earned %d silver ticket.\n", res.SilverGranted)
	}
}

// Package ticket implements the ticket and won-reward ledger of a child.
// Tickets are only ever added by the bowel-movement milestone and only ever
// spent by a gacha pull; balances never go negative.
package ticket

import (
	"fmt"
	"time"

	"github.com/royal-guard/royalguard/internal/domain"
)

// Grant adds n tickets of tier and returns the new snapshot.
func Grant(child domain.ChildData, tier domain.TicketTier, n int) domain.ChildData {
	next := child.Clone()
	if n <= 0 {
		return next
	}
	switch tier {
	case domain.TicketGold:
		next.Profile.Tickets.Gold += n
	default:
		next.Profile.Tickets.Silver += n
	}
	return next
}

// Debit spends one ticket of tier. A zero balance fails with
// ErrInsufficientTickets and the input is returned unchanged.
func Debit(child domain.ChildData, tier domain.TicketTier) (domain.ChildData, error) {
	if child.Profile.Tickets.Balance(tier) < 1 {
		return child, fmt.Errorf("%w: no %s tickets", domain.ErrInsufficientTickets, tier)
	}
	next := child.Clone()
	switch tier {
	case domain.TicketGold:
		next.Profile.Tickets.Gold--
	default:
		next.Profile.Tickets.Silver--
	}
	return next, nil
}

// MarkRedeemed flips a won reward to redeemed. It reports false, leaving the
// snapshot as is, when the reward is unknown or already redeemed.
func MarkRedeemed(child domain.ChildData, rewardID string) (domain.ChildData, bool) {
	for i, r := range child.WonRewards {
		if r.ID != rewardID {
			continue
		}
		if r.IsRedeemed {
			return child, false
		}
		next := child.Clone()
		next.WonRewards[i].IsRedeemed = true
		return next, true
	}
	return child, false
}

// Unredeemed returns the rewards still waiting to be handed out.
func Unredeemed(child domain.ChildData) []domain.Reward {
	var out []domain.Reward
	for _, r := range child.WonRewards {
		if !r.IsRedeemed {
			out = append(out, r)
		}
	}
	return out
}

// Ledger records wins. It only needs an id source; the win time is passed in.
type Ledger struct {
	newID func() string
}

// NewLedger creates a reward ledger.
func NewLedger(newID func() string) *Ledger {
	return &Ledger{newID: newID}
}

// RecordWin appends an unredeemed Reward snapshotting item.
func (l *Ledger) RecordWin(child domain.ChildData, item domain.RewardItem, now time.Time) (domain.ChildData, domain.Reward) {
	r := domain.Reward{
		ID:      l.newID(),
		ItemID:  item.ID,
		Title:   item.Title,
		Tier:    item.Tier,
		DateWon: now,
	}
	next := child.Clone()
	next.WonRewards = append(next.WonRewards, r)
	return next, r
}

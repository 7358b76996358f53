package ticket_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royal-guard/royalguard/internal/app/ticket"
	"github.com/royal-guard/royalguard/internal/domain"
)

func child() domain.ChildData {
	return domain.NewChild("c1", "mia", "hash", "Mia", 6, domain.GenderFemale)
}

func TestDebit(t *testing.T) {
	c := ticket.Grant(child(), domain.TicketSilver, 2)

	next, err := ticket.Debit(c, domain.TicketSilver)
	require.NoError(t, err)
	assert.Equal(t, 1, next.Profile.Tickets.Silver)
	assert.Equal(t, 2, c.Profile.Tickets.Silver, "input must stay untouched")
}

func TestDebit_Insufficient(t *testing.T) {
	c := ticket.Grant(child(), domain.TicketSilver, 1)

	next, err := ticket.Debit(c, domain.TicketGold)
	assert.ErrorIs(t, err, domain.ErrInsufficientTickets)
	assert.Equal(t, c.Profile.Tickets, next.Profile.Tickets)
}

func TestGrant_IgnoresNonPositive(t *testing.T) {
	c := ticket.Grant(child(), domain.TicketGold, 0)
	assert.Zero(t, c.Profile.Tickets.Gold)

	c = ticket.Grant(c, domain.TicketGold, 3)
	assert.Equal(t, 3, c.Profile.Tickets.Gold)
}

func TestRecordWinAndRedeem(t *testing.T) {
	l := ticket.NewLedger(func() string { return "w1" })
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	item := domain.RewardItem{ID: "r1", Title: "Park trip", Tier: domain.TierRare}

	c, r := l.RecordWin(child(), item, now)
	require.Len(t, c.WonRewards, 1)
	assert.Equal(t, domain.Reward{ID: "w1", ItemID: "r1", Title: "Park trip", Tier: domain.TierRare, DateWon: now}, r)
	assert.Len(t, ticket.Unredeemed(c), 1)

	redeemed, ok := ticket.MarkRedeemed(c, "w1")
	require.True(t, ok)
	assert.True(t, redeemed.WonRewards[0].IsRedeemed)
	assert.False(t, c.WonRewards[0].IsRedeemed, "input must stay untouched")
	assert.Empty(t, ticket.Unredeemed(redeemed))

	again, ok := ticket.MarkRedeemed(redeemed, "w1")
	assert.False(t, ok)
	assert.True(t, again.WonRewards[0].IsRedeemed)

	_, ok = ticket.MarkRedeemed(redeemed, "missing")
	assert.False(t, ok)
}

package gacha_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royal-guard/royalguard/internal/app/gacha"
	"github.com/royal-guard/royalguard/internal/app/ticket"
	"github.com/royal-guard/royalguard/internal/domain"
)

// scripted replays fixed draws. IntN always returns the scripted index
// clamped to n.
type scripted struct {
	floats []float64
	idx    int
}

func (s *scripted) Float64() float64 {
	f := s.floats[0]
	if len(s.floats) > 1 {
		s.floats = s.floats[1:]
	}
	return f
}

func (s *scripted) IntN(n int) int {
	if s.idx >= n {
		return n - 1
	}
	return s.idx
}

var (
	c1 = domain.RewardItem{ID: "c1", Title: "Sticker", Tier: domain.TierCommon}
	c2 = domain.RewardItem{ID: "c2", Title: "Ice cream", Tier: domain.TierCommon}
	r1 = domain.RewardItem{ID: "r1", Title: "Movie night", Tier: domain.TierRare}
	l1 = domain.RewardItem{ID: "l1", Title: "Zoo trip", Tier: domain.TierLegendary}
	l2 = domain.RewardItem{ID: "l2", Title: "New bike", Tier: domain.TierLegendary}
)

var now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func childWith(silver, gold int) domain.ChildData {
	c := domain.NewChild("c1", "leo", "hash", "Leo", 7, domain.GenderMale)
	c.Profile.Tickets = domain.Tickets{Silver: silver, Gold: gold}
	return c
}

func newResolver(rng gacha.RandomSource) *gacha.Resolver {
	return gacha.NewResolver(rng, ticket.NewLedger(func() string { return "won-1" }))
}

// ─── Pool ───────────────────────────────────────────────────────────────────

func TestCandidatePool_ExcludesWonTitles(t *testing.T) {
	won := []domain.Reward{{ID: "w", Title: "Sticker", Tier: domain.TierCommon}}
	pool := gacha.CandidatePool([]domain.RewardItem{c1, c2, r1}, won, domain.TicketGold)
	assert.Equal(t, []domain.RewardItem{c2, r1}, pool)
}

func TestCandidatePool_ResetsWhenEverythingWon(t *testing.T) {
	won := []domain.Reward{{Title: "Sticker"}, {Title: "Movie night"}}
	pool := gacha.CandidatePool([]domain.RewardItem{c1, r1}, won, domain.TicketGold)
	assert.Equal(t, []domain.RewardItem{c1, r1}, pool)
}

func TestCandidatePool_SilverDropsLegendary(t *testing.T) {
	pool := gacha.CandidatePool([]domain.RewardItem{c1, l1, r1}, nil, domain.TicketSilver)
	assert.Equal(t, []domain.RewardItem{c1, r1}, pool)

	pool = gacha.CandidatePool([]domain.RewardItem{c1, l1, r1}, nil, domain.TicketGold)
	assert.Len(t, pool, 3)
}

func TestCandidatePool_SilverKeepsAllLegendaryCatalog(t *testing.T) {
	pool := gacha.CandidatePool([]domain.RewardItem{l1, l2}, nil, domain.TicketSilver)
	assert.Equal(t, []domain.RewardItem{l1, l2}, pool)
}

// ─── Pick ───────────────────────────────────────────────────────────────────

func TestPick_WeightWalk(t *testing.T) {
	pool := []domain.RewardItem{c1, r1, l1}
	tests := []struct {
		draw float64
		want domain.RewardItem
	}{
		{0, c1},
		{0.79, c1},
		{0.801, r1},
		{0.949, r1},
		{0.951, l1},
		{0.9999, l1},
	}
	for _, tt := range tests {
		got, err := gacha.Pick(pool, &scripted{floats: []float64{tt.draw}})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "draw %v", tt.draw)
	}
}

func TestPick_RenormalizesOverActiveTiers(t *testing.T) {
	// RARE + LEGENDARY only: total weight 20, RARE owns [0, 15).
	pool := []domain.RewardItem{r1, l1}

	got, err := gacha.Pick(pool, &scripted{floats: []float64{0.70}})
	require.NoError(t, err)
	assert.Equal(t, r1, got)

	got, err = gacha.Pick(pool, &scripted{floats: []float64{0.80}})
	require.NoError(t, err)
	assert.Equal(t, l1, got)
}

func TestPick_UniformWithinTier(t *testing.T) {
	got, err := gacha.Pick([]domain.RewardItem{c1, c2}, &scripted{floats: []float64{0.1}, idx: 1})
	require.NoError(t, err)
	assert.Equal(t, c2, got)
}

func TestPick_EmptyPool(t *testing.T) {
	_, err := gacha.Pick(nil, gacha.NewSource(1))
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
}

func TestPick_Distribution(t *testing.T) {
	rng := gacha.NewSource(42)
	pool := []domain.RewardItem{c1, r1, l1}
	counts := map[domain.RewardTier]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		it, err := gacha.Pick(pool, rng)
		require.NoError(t, err)
		counts[it.Tier]++
	}
	total := 0
	for _, tier := range domain.RewardTiers {
		total += gacha.Weight(tier)
	}
	assert.Equal(t, 100, total)
	for _, tier := range domain.RewardTiers {
		want := float64(gacha.Weight(tier)) / float64(total)
		assert.InDelta(t, want, float64(counts[tier])/n, 0.02, "tier %s", tier)
	}
}

// ─── Pull ───────────────────────────────────────────────────────────────────

func TestPull_DebitsAndRecordsTogether(t *testing.T) {
	res, err := newResolver(&scripted{floats: []float64{0.5}}).
		Pull(childWith(2, 0), []domain.RewardItem{c1, r1}, domain.TicketSilver, now)
	require.NoError(t, err)

	assert.Equal(t, c1, res.Item)
	assert.Equal(t, 1, res.Child.Profile.Tickets.Silver)
	require.Len(t, res.Child.WonRewards, 1)
	assert.Equal(t, domain.Reward{ID: "won-1", ItemID: "c1", Title: "Sticker", Tier: domain.TierCommon, DateWon: now}, res.Child.WonRewards[0])
	assert.Equal(t, res.Reward, res.Child.WonRewards[0])
}

func TestPull_SilverNeverYieldsLegendaryFromMixedCatalog(t *testing.T) {
	r := newResolver(gacha.NewSource(7))
	catalog := []domain.RewardItem{c1, l1}
	for i := 0; i < 500; i++ {
		res, err := r.Pull(childWith(1, 0), catalog, domain.TicketSilver, now)
		require.NoError(t, err)
		require.Equal(t, c1, res.Item)
	}
}

func TestPull_SilverOnAllLegendaryCatalog(t *testing.T) {
	res, err := newResolver(gacha.NewSource(3)).
		Pull(childWith(1, 0), []domain.RewardItem{l1}, domain.TicketSilver, now)
	require.NoError(t, err)
	assert.Equal(t, l1, res.Item)
	assert.Zero(t, res.Child.Profile.Tickets.Silver)
	require.Len(t, res.Child.WonRewards, 1)
	assert.Equal(t, "l1", res.Child.WonRewards[0].ItemID)
	assert.Equal(t, domain.TierLegendary, res.Child.WonRewards[0].Tier)
}

func TestPull_InsufficientTickets(t *testing.T) {
	c := childWith(0, 1)
	_, err := newResolver(gacha.NewSource(1)).Pull(c, []domain.RewardItem{c1}, domain.TicketSilver, now)
	assert.ErrorIs(t, err, domain.ErrInsufficientTickets)
	assert.Empty(t, c.WonRewards)
	assert.Equal(t, 1, c.Profile.Tickets.Gold)
}

func TestPull_EmptyCatalog(t *testing.T) {
	_, err := newResolver(gacha.NewSource(1)).Pull(childWith(1, 0), nil, domain.TicketSilver, now)
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
}

func TestPull_UnknownTier(t *testing.T) {
	_, err := newResolver(gacha.NewSource(1)).Pull(childWith(1, 1), []domain.RewardItem{c1}, domain.TicketTier("bronze"), now)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

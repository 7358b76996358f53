// Package gacha resolves weighted reward draws. A pull spends one ticket and
// yields one catalog item, preferring items the child has not won yet.
package gacha

import (
	"fmt"
	"time"

	"github.com/royal-guard/royalguard/internal/app/ticket"
	"github.com/royal-guard/royalguard/internal/domain"
)

// Base tier weights. Only tiers present in the pool take part in a draw.
var tierWeights = map[domain.RewardTier]int{
	domain.TierCommon:    80,
	domain.TierRare:      15,
	domain.TierLegendary: 5,
}

// Weight returns the draw weight of a reward tier.
func Weight(t domain.RewardTier) int { return tierWeights[t] }

// CandidatePool narrows a catalog for one pull:
//   - items whose title was already won are excluded, unless that leaves
//     nothing, in which case the full catalog is used again;
//   - silver pulls drop LEGENDARY items, unless that leaves nothing.
func CandidatePool(catalog []domain.RewardItem, won []domain.Reward, tier domain.TicketTier) []domain.RewardItem {
	wonTitles := make(map[string]struct{}, len(won))
	for _, r := range won {
		wonTitles[r.Title] = struct{}{}
	}

	var pool []domain.RewardItem
	for _, it := range catalog {
		if _, ok := wonTitles[it.Title]; !ok {
			pool = append(pool, it)
		}
	}
	if len(pool) == 0 {
		pool = append(pool, catalog...)
	}

	if tier == domain.TicketSilver {
		var filtered []domain.RewardItem
		for _, it := range pool {
			if it.Tier != domain.TierLegendary {
				filtered = append(filtered, it)
			}
		}
		if len(filtered) > 0 {
			pool = filtered
		}
	}
	return pool
}

// Pick draws one item: first a tier, weighted over the tiers present in
// pool, then an item uniformly within that tier.
func Pick(pool []domain.RewardItem, rng RandomSource) (domain.RewardItem, error) {
	buckets := make(map[domain.RewardTier][]domain.RewardItem, len(domain.RewardTiers))
	for _, it := range pool {
		buckets[it.Tier] = append(buckets[it.Tier], it)
	}

	var active []domain.RewardTier
	total := 0
	for _, t := range domain.RewardTiers {
		if len(buckets[t]) > 0 {
			active = append(active, t)
			total += tierWeights[t]
		}
	}
	if total == 0 {
		return domain.RewardItem{}, fmt.Errorf("%w: empty reward pool", domain.ErrPreconditionFailed)
	}

	r := rng.Float64() * float64(total)
	chosen := active[0]
	cum := 0
	for _, t := range active {
		cum += tierWeights[t]
		if float64(cum) > r {
			chosen = t
			break
		}
	}

	bucket := buckets[chosen]
	return bucket[rng.IntN(len(bucket))], nil
}

// Result is the outcome of a pull.
type Result struct {
	Child  domain.ChildData  `json:"child"`
	Item   domain.RewardItem `json:"item"`
	Reward domain.Reward     `json:"reward"`
	Ticket domain.TicketTier `json:"ticket"`
}

// Resolver performs pulls against a child snapshot.
type Resolver struct {
	rng     RandomSource
	rewards *ticket.Ledger
}

// NewResolver creates a resolver. A nil rng falls back to a clock-seeded
// source.
func NewResolver(rng RandomSource, rewards *ticket.Ledger) *Resolver {
	if rng == nil {
		rng = NewSource(0)
	}
	return &Resolver{rng: rng, rewards: rewards}
}

// Pull spends one ticket of tier and records one win from catalog. The debit
// and the win land in the same returned snapshot; on error the input is the
// only state there is.
func (r *Resolver) Pull(child domain.ChildData, catalog []domain.RewardItem, tier domain.TicketTier, now time.Time) (Result, error) {
	if _, err := domain.ParseTicketTier(string(tier)); err != nil {
		return Result{}, err
	}
	if child.Profile.Tickets.Balance(tier) < 1 {
		return Result{}, fmt.Errorf("%w: no %s tickets", domain.ErrInsufficientTickets, tier)
	}
	if len(catalog) == 0 {
		return Result{}, fmt.Errorf("%w: reward catalog is empty", domain.ErrPreconditionFailed)
	}

	item, err := Pick(CandidatePool(catalog, child.WonRewards, tier), r.rng)
	if err != nil {
		return Result{}, err
	}

	next, err := ticket.Debit(child, tier)
	if err != nil {
		return Result{}, err
	}
	next, won := r.rewards.RecordWin(next, item, now)
	return Result{Child: next, Item: item, Reward: won, Ticket: tier}, nil
}

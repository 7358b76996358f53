package domain

import "time"

// RewardTier is the rarity of a catalog item.
type RewardTier string

const (
	TierCommon    RewardTier = "COMMON"
	TierRare      RewardTier = "RARE"
	TierLegendary RewardTier = "LEGENDARY"
)

// RewardTiers lists the tiers in draw order.
var RewardTiers = []RewardTier{TierCommon, TierRare, TierLegendary}

// ParseRewardTier validates a reward tier string.
func ParseRewardTier(s string) (RewardTier, error) {
	switch t := RewardTier(s); t {
	case TierCommon, TierRare, TierLegendary:
		return t, nil
	}
	return "", invalid("reward tier", s)
}

// TicketTier is the kind of ticket spent on a gacha pull.
type TicketTier string

const (
	TicketSilver TicketTier = "silver"
	TicketGold   TicketTier = "gold"
)

// ParseTicketTier validates a ticket tier string.
func ParseTicketTier(s string) (TicketTier, error) {
	switch t := TicketTier(s); t {
	case TicketSilver, TicketGold:
		return t, nil
	}
	return "", invalid("ticket tier", s)
}

// RewardItem is a parent-defined catalog entry.
type RewardItem struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Tier  RewardTier `json:"tier"`
}

// Reward is a won catalog item. Redemption only ever flips IsRedeemed from
// false to true.
type Reward struct {
	ID         string     `json:"id"`
	ItemID     string     `json:"item_id"`
	Title      string     `json:"title"`
	Tier       RewardTier `json:"tier"`
	IsRedeemed bool       `json:"is_redeemed"`
	DateWon    time.Time  `json:"date_won"`
}

// DefaultCatalog is drawn from when no linked parent has defined rewards.
func DefaultCatalog() []RewardItem {
	return []RewardItem{
		{ID: "r1", Title: "Dinner treat from Dad", Tier: TierCommon},
		{ID: "r2", Title: "Snack treat from Mom", Tier: TierCommon},
		{ID: "r3", Title: "Bonus allowance +1000", Tier: TierRare},
		{ID: "r4", Title: "Bonus allowance +2000", Tier: TierLegendary},
		{ID: "r5", Title: "30 minutes of playtime coupon", Tier: TierRare},
	}
}

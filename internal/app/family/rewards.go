package family

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/royal-guard/royalguard/internal/app/gacha"
	"github.com/royal-guard/royalguard/internal/app/ticket"
	"github.com/royal-guard/royalguard/internal/domain"
	"github.com/royal-guard/royalguard/internal/infra/metrics"
)

// MaxRewardTitle bounds catalog item titles, in characters.
const MaxRewardTitle = 100

// ─── Catalog ────────────────────────────────────────────────────────────────

// Catalog returns a parent's own reward items.
func (s *Service) Catalog(ctx context.Context, parentID string) ([]domain.RewardItem, error) {
	if _, err := s.store.GetParent(ctx, parentID); err != nil {
		return nil, err
	}
	return s.store.ListRewardItems(ctx, parentID)
}

// AddRewardItem appends an item to a parent's catalog.
func (s *Service) AddRewardItem(ctx context.Context, parentID, title string, tier domain.RewardTier) (domain.RewardItem, error) {
	item, err := s.rewardItem(s.newID(), title, tier)
	if err != nil {
		return domain.RewardItem{}, err
	}
	if _, err := s.store.GetParent(ctx, parentID); err != nil {
		return domain.RewardItem{}, err
	}
	if err := s.store.InsertRewardItem(ctx, parentID, item); err != nil {
		return domain.RewardItem{}, err
	}
	return item, nil
}

// EditRewardItem changes the title and tier of one of a parent's items.
func (s *Service) EditRewardItem(ctx context.Context, parentID, itemID, title string, tier domain.RewardTier) (domain.RewardItem, error) {
	item, err := s.rewardItem(itemID, title, tier)
	if err != nil {
		return domain.RewardItem{}, err
	}
	if err := s.store.UpdateRewardItem(ctx, parentID, item); err != nil {
		return domain.RewardItem{}, err
	}
	return item, nil
}

// DeleteRewardItem removes one of a parent's items.
func (s *Service) DeleteRewardItem(ctx context.Context, parentID, itemID string) error {
	return s.store.DeleteRewardItem(ctx, parentID, itemID)
}

// EffectiveCatalog is what a child draws from: the catalogs of every linked
// parent in parent id order, or the built-in default catalog when that is
// empty.
func (s *Service) EffectiveCatalog(ctx context.Context, childID string) ([]domain.RewardItem, error) {
	parents, err := s.store.ParentsOfChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	var items []domain.RewardItem
	for _, p := range parents {
		own, err := s.store.ListRewardItems(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, own...)
	}
	if len(items) == 0 {
		return domain.DefaultCatalog(), nil
	}
	return items, nil
}

func (s *Service) rewardItem(id, title string, tier domain.RewardTier) (domain.RewardItem, error) {
	title = strings.TrimSpace(title)
	if n := utf8.RuneCountInString(title); n == 0 || n > MaxRewardTitle {
		return domain.RewardItem{}, fmt.Errorf("%w: reward title must be 1..%d characters",
			domain.ErrInvalidRange, MaxRewardTitle)
	}
	if _, err := domain.ParseRewardTier(string(tier)); err != nil {
		return domain.RewardItem{}, err
	}
	return domain.RewardItem{ID: id, Title: title, Tier: tier}, nil
}

// ─── Gacha & Redemption ─────────────────────────────────────────────────────

// Pull spends one ticket of tier and records the won reward.
func (s *Service) Pull(ctx context.Context, childID string, tier domain.TicketTier) (gacha.Result, error) {
	if _, err := domain.ParseTicketTier(string(tier)); err != nil {
		return gacha.Result{}, err
	}
	catalog, err := s.EffectiveCatalog(ctx, childID)
	if err != nil {
		return gacha.Result{}, err
	}

	var res gacha.Result
	saved, err := s.mutate(ctx, childID, "gacha", func(c domain.ChildData) (domain.ChildData, error) {
		r, err := s.gacha.Pull(c, catalog, tier, s.now())
		if err != nil {
			return domain.ChildData{}, err
		}
		res = r
		return r.Child, nil
	})
	if err != nil {
		return gacha.Result{}, err
	}
	res.Child = saved

	metrics.GachaPulls.WithLabelValues(string(tier), string(res.Item.Tier)).Inc()
	s.log.Info("gacha pull",
		zap.String("child_id", childID),
		zap.String("ticket", string(tier)),
		zap.String("reward", res.Item.Title),
		zap.String("reward_tier", string(res.Item.Tier)))
	return res, nil
}

// Redeem marks a won reward as handed out. Redeeming an unknown or already
// redeemed reward returns the unchanged child with redeemed == false.
func (s *Service) Redeem(ctx context.Context, childID, rewardID string) (domain.ChildData, bool, error) {
	var redeemed bool
	saved, err := s.mutate(ctx, childID, "reward.redeemed", func(c domain.ChildData) (domain.ChildData, error) {
		next, ok := ticket.MarkRedeemed(c, rewardID)
		redeemed = ok
		if !ok {
			return domain.ChildData{}, errNoChange
		}
		return next, nil
	})
	if errors.Is(err, errNoChange) {
		c, err := s.store.GetChild(ctx, childID)
		return c, false, err
	}
	if err != nil {
		return domain.ChildData{}, false, err
	}
	if redeemed {
		metrics.RewardsRedeemed.Inc()
	}
	return saved, redeemed, nil
}

// errNoChange short-circuits mutate when there is nothing to write.
var errNoChange = errors.New("no change")

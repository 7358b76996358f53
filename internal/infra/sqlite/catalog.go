package sqlite

import (
	"context"
	"fmt"

	"github.com/royal-guard/royalguard/internal/domain"
)

// ─── Reward Catalog ─────────────────────────────────────────────────────────

// InsertRewardItem appends an item to a parent's catalog.
func (d *DB) InsertRewardItem(ctx context.Context, parentID string, item domain.RewardItem) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO reward_items (id, parent_id, title, tier) VALUES (?, ?, ?, ?)`,
		item.ID, parentID, item.Title, string(item.Tier),
	)
	if err != nil {
		return fmt.Errorf("insert reward item: %w", err)
	}
	return nil
}

// UpdateRewardItem replaces the title and tier of an item in place.
func (d *DB) UpdateRewardItem(ctx context.Context, parentID string, item domain.RewardItem) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE reward_items SET title = ?, tier = ? WHERE parent_id = ? AND id = ?`,
		item.Title, string(item.Tier), parentID, item.ID,
	)
	if err != nil {
		return fmt.Errorf("update reward item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("reward item %s: %w", item.ID, domain.ErrNotFound)
	}
	return nil
}

// DeleteRewardItem removes an item from a parent's catalog. Rewards already
// won keep their own snapshot of the item.
func (d *DB) DeleteRewardItem(ctx context.Context, parentID, itemID string) error {
	res, err := d.db.ExecContext(ctx,
		`DELETE FROM reward_items WHERE parent_id = ? AND id = ?`, parentID, itemID)
	if err != nil {
		return fmt.Errorf("delete reward item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("reward item %s: %w", itemID, domain.ErrNotFound)
	}
	return nil
}

// ListRewardItems returns a parent's catalog in insertion order.
func (d *DB) ListRewardItems(ctx context.Context, parentID string) ([]domain.RewardItem, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, title, tier FROM reward_items WHERE parent_id = ? ORDER BY seq`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list reward items: %w", err)
	}
	defer rows.Close()

	items := []domain.RewardItem{}
	for rows.Next() {
		var it domain.RewardItem
		if err := rows.Scan(&it.ID, &it.Title, &it.Tier); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

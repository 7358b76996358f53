package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/royal-guard/royalguard/internal/domain"
)

// ─── Child Documents ────────────────────────────────────────────────────────

// InsertChild stores a new child document.
func (d *DB) InsertChild(ctx context.Context, child domain.ChildData) error {
	doc, err := json.Marshal(child)
	if err != nil {
		return fmt.Errorf("encode child: %w", err)
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO children (id, username, password_hash, version, doc, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		child.Profile.ID, child.Profile.Username, child.Profile.PasswordHash,
		child.Version, string(doc), child.UpdatedAt.UnixMilli(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("insert child %s: %w", child.Profile.Username, domain.ErrUsernameTaken)
	}
	if err != nil {
		return fmt.Errorf("insert child: %w", err)
	}
	return nil
}

// GetChild loads the current snapshot of a child.
func (d *DB) GetChild(ctx context.Context, id string) (domain.ChildData, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT password_hash, version, doc FROM children WHERE id = ?`, id)
	c, err := scanChild(row)
	if err != nil {
		return domain.ChildData{}, notFound("child", id, err)
	}
	return c, nil
}

// FindChildByUsername loads the child owning username.
func (d *DB) FindChildByUsername(ctx context.Context, username string) (domain.ChildData, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT password_hash, version, doc FROM children WHERE username = ?`, username)
	c, err := scanChild(row)
	if err != nil {
		return domain.ChildData{}, notFound("child username", username, err)
	}
	return c, nil
}

// SaveChild writes child if the stored version still matches child.Version.
// The returned snapshot carries the incremented version.
func (d *DB) SaveChild(ctx context.Context, child domain.ChildData) (domain.ChildData, error) {
	saved := child
	saved.Version = child.Version + 1
	if saved.UpdatedAt.IsZero() {
		saved.UpdatedAt = time.Now()
	}

	doc, err := json.Marshal(saved)
	if err != nil {
		return domain.ChildData{}, fmt.Errorf("encode child: %w", err)
	}

	res, err := d.db.ExecContext(ctx,
		`UPDATE children SET doc = ?, version = ?, updated_at = ?, password_hash = ?
		 WHERE id = ? AND version = ?`,
		string(doc), saved.Version, saved.UpdatedAt.UnixMilli(), child.Profile.PasswordHash,
		child.Profile.ID, child.Version,
	)
	if err != nil {
		return domain.ChildData{}, fmt.Errorf("update child: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.ChildData{}, fmt.Errorf("update child: %w", err)
	}
	if n == 1 {
		return saved, nil
	}

	var one int
	err = d.db.QueryRowContext(ctx, `SELECT 1 FROM children WHERE id = ?`, child.Profile.ID).Scan(&one)
	if err != nil {
		return domain.ChildData{}, notFound("child", child.Profile.ID, err)
	}
	return domain.ChildData{}, fmt.Errorf("save child %s at version %d: %w",
		child.Profile.ID, child.Version, domain.ErrVersionConflict)
}

// DeleteChild removes a child and every parent link to it.
func (d *DB) DeleteChild(ctx context.Context, id string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM parent_children WHERE child_id = ?`, id); err != nil {
		return fmt.Errorf("unlink child: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM children WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete child: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("child %s: %w", id, domain.ErrNotFound)
	}
	return tx.Commit()
}

func scanChild(s scanner) (domain.ChildData, error) {
	var (
		c       domain.ChildData
		hash    string
		version int64
		doc     string
	)
	if err := s.Scan(&hash, &version, &doc); err != nil {
		return c, err
	}
	if err := json.Unmarshal([]byte(doc), &c); err != nil {
		return c, fmt.Errorf("decode child: %w", err)
	}
	c.Profile.PasswordHash = hash
	c.Version = version
	normalize(&c)
	return c, nil
}

// normalize replaces nil collections so encoded documents always carry
// arrays.
func normalize(c *domain.ChildData) {
	if c.WaterLogs == nil {
		c.WaterLogs = []domain.WaterLogEntry{}
	}
	if c.PoopLogs == nil {
		c.PoopLogs = []domain.PoopLogEntry{}
	}
	if c.VegetableLogs == nil {
		c.VegetableLogs = []domain.SimpleLogEntry{}
	}
	if c.ProbioticsLogs == nil {
		c.ProbioticsLogs = []domain.SimpleLogEntry{}
	}
	if c.WonRewards == nil {
		c.WonRewards = []domain.Reward{}
	}
}


package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/royal-guard/royalguard/internal/domain"
)

// ─── Parents & Links ────────────────────────────────────────────────────────

// InsertParent stores a new parent together with any initial child links.
func (d *DB) InsertParent(ctx context.Context, p domain.Parent) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO parents (id, username, password_hash, name, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Username, p.PasswordHash, p.Name, p.CreatedAt.UnixMilli(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("insert parent %s: %w", p.Username, domain.ErrUsernameTaken)
	}
	if err != nil {
		return fmt.Errorf("insert parent: %w", err)
	}

	now := time.Now().UnixMilli()
	for _, childID := range p.LinkedChildIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO parent_children (parent_id, child_id, linked_at) VALUES (?, ?, ?)
			 ON CONFLICT(parent_id, child_id) DO NOTHING`,
			p.ID, childID, now,
		); err != nil {
			return fmt.Errorf("link child %s: %w", childID, err)
		}
	}
	return tx.Commit()
}

// GetParent loads a parent and its linked child ids.
func (d *DB) GetParent(ctx context.Context, id string) (domain.Parent, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, name, created_at FROM parents WHERE id = ?`, id)
	p, err := scanParent(row)
	if err != nil {
		return domain.Parent{}, notFound("parent", id, err)
	}
	if p.LinkedChildIDs, err = d.linkedChildren(ctx, p.ID); err != nil {
		return domain.Parent{}, err
	}
	return p, nil
}

// FindParentByUsername loads the parent owning username.
func (d *DB) FindParentByUsername(ctx context.Context, username string) (domain.Parent, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, name, created_at FROM parents WHERE username = ?`, username)
	p, err := scanParent(row)
	if err != nil {
		return domain.Parent{}, notFound("parent username", username, err)
	}
	if p.LinkedChildIDs, err = d.linkedChildren(ctx, p.ID); err != nil {
		return domain.Parent{}, err
	}
	return p, nil
}

// LinkChild records that parentID oversees childID. Linking twice is a
// no-op.
func (d *DB) LinkChild(ctx context.Context, parentID, childID string) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO parent_children (parent_id, child_id, linked_at) VALUES (?, ?, ?)
		 ON CONFLICT(parent_id, child_id) DO NOTHING`,
		parentID, childID, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("link child %s to %s: %w", childID, parentID, err)
	}
	return nil
}

// ParentsOfChild returns every parent linking childID, ordered by id.
func (d *DB) ParentsOfChild(ctx context.Context, childID string) ([]domain.Parent, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT p.id, p.username, p.password_hash, p.name, p.created_at
		 FROM parents p JOIN parent_children l ON l.parent_id = p.id
		 WHERE l.child_id = ? ORDER BY p.id`, childID)
	if err != nil {
		return nil, fmt.Errorf("list parents: %w", err)
	}

	var parents []domain.Parent
	for rows.Next() {
		p, err := scanParent(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		parents = append(parents, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range parents {
		if parents[i].LinkedChildIDs, err = d.linkedChildren(ctx, parents[i].ID); err != nil {
			return nil, err
		}
	}
	return parents, nil
}

// UsernameTaken reports whether username belongs to any child or parent.
func (d *DB) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	err := d.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM children WHERE username = ?)
		     OR EXISTS(SELECT 1 FROM parents WHERE username = ?)`,
		username, username,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return taken, nil
}

func (d *DB) linkedChildren(ctx context.Context, parentID string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT child_id FROM parent_children WHERE parent_id = ? ORDER BY linked_at, rowid`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanParent(s scanner) (domain.Parent, error) {
	var p domain.Parent
	var createdAt int64
	if err := s.Scan(&p.ID, &p.Username, &p.PasswordHash, &p.Name, &createdAt); err != nil {
		return p, err
	}
	p.CreatedAt = time.UnixMilli(createdAt)
	return p, nil
}

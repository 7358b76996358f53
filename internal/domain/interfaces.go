package domain

import "context"

// ─── Store Interfaces ───────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; the application layer depends on them.

// ChildStore persists whole child documents.
type ChildStore interface {
	// InsertChild stores a new child. The username must be unused.
	InsertChild(ctx context.Context, child ChildData) error

	// GetChild returns the current snapshot or ErrNotFound.
	GetChild(ctx context.Context, id string) (ChildData, error)

	// FindChildByUsername returns the child owning username or ErrNotFound.
	FindChildByUsername(ctx context.Context, username string) (ChildData, error)

	// SaveChild replaces the document if the stored version still equals
	// child.Version, returning the saved snapshot with the bumped version.
	// A mismatch yields ErrVersionConflict.
	SaveChild(ctx context.Context, child ChildData) (ChildData, error)

	// DeleteChild removes the child and unlinks it from every parent.
	DeleteChild(ctx context.Context, id string) error
}

// ParentStore persists parent accounts and their child links.
type ParentStore interface {
	InsertParent(ctx context.Context, parent Parent) error
	GetParent(ctx context.Context, id string) (Parent, error)
	FindParentByUsername(ctx context.Context, username string) (Parent, error)
	LinkChild(ctx context.Context, parentID, childID string) error
	ParentsOfChild(ctx context.Context, childID string) ([]Parent, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
}

// CatalogStore persists the per-parent reward catalogs.
type CatalogStore interface {
	InsertRewardItem(ctx context.Context, parentID string, item RewardItem) error
	UpdateRewardItem(ctx context.Context, parentID string, item RewardItem) error
	DeleteRewardItem(ctx context.Context, parentID, itemID string) error
	ListRewardItems(ctx context.Context, parentID string) ([]RewardItem, error)
}

// Store is the full persistence collaborator used by the application layer.
type Store interface {
	ChildStore
	ParentStore
	CatalogStore
}

// ChangeEvent announces a committed child write to outside listeners.
type ChangeEvent struct {
	Type    string `json:"type"`
	ChildID string `json:"child_id"`
	Version int64  `json:"version"`
	At      int64  `json:"at"`
}

// ChangePublisher delivers change events. Implementations must not block the
// caller for long; failures are reported, not retried.
type ChangePublisher interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

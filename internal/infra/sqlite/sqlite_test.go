package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/royal-guard/royalguard/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testChild(id, username string) domain.ChildData {
	c := domain.NewChild(id, username, "hash-"+id, "Kid "+id, 7, domain.GenderFemale)
	c.UpdatedAt = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	return c
}

func testParent(id, username string) domain.Parent {
	return domain.Parent{
		ID:           id,
		Username:     username,
		PasswordHash: "hash-" + id,
		Name:         "Parent " + id,
		CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// ─── Database Lifecycle ─────────────────────────────────────────────────────

func TestOpen_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(dir, "state.db")); os.IsNotExist(err) {
		t.Error("state.db should exist")
	}
}

func TestOpen_Ping(t *testing.T) {
	db := newTestDB(t)
	if err := db.Ping(); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	dir := t.TempDir()
	db1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open() error: %v", err)
	}
	db1.Close()

	db2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open() error: %v", err)
	}
	db2.Close()
}

// ─── Child Documents ────────────────────────────────────────────────────────

func TestChild_InsertAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	c := testChild("c1", "leo")
	c.WaterLogs = append(c.WaterLogs, domain.WaterLogEntry{Date: "2025-03-01", Count: 4})
	if err := db.InsertChild(ctx, c); err != nil {
		t.Fatalf("InsertChild() error: %v", err)
	}

	got, err := db.GetChild(ctx, "c1")
	if err != nil {
		t.Fatalf("GetChild() error: %v", err)
	}
	if got.Profile.Username != "leo" || got.Profile.Level != 1 {
		t.Errorf("profile = %+v", got.Profile)
	}
	if got.Profile.PasswordHash != "hash-c1" {
		t.Errorf("PasswordHash = %q, want hash-c1", got.Profile.PasswordHash)
	}
	if len(got.WaterLogs) != 1 || got.WaterLogs[0].Count != 4 {
		t.Errorf("WaterLogs = %+v", got.WaterLogs)
	}
	if got.PoopLogs == nil || got.WonRewards == nil {
		t.Error("collections should be non-nil")
	}

	byName, err := db.FindChildByUsername(ctx, "leo")
	if err != nil {
		t.Fatalf("FindChildByUsername() error: %v", err)
	}
	if byName.Profile.ID != "c1" {
		t.Errorf("ID = %q, want c1", byName.Profile.ID)
	}
}

func TestChild_GetMissing(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetChild(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestChild_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	if err := db.InsertChild(ctx, testChild("c1", "leo")); err != nil {
		t.Fatalf("InsertChild() error: %v", err)
	}
	err := db.InsertChild(ctx, testChild("c2", "leo"))
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestChild_SaveCompareAndSwap(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	if err := db.InsertChild(ctx, testChild("c1", "leo")); err != nil {
		t.Fatalf("InsertChild() error: %v", err)
	}

	snap, err := db.GetChild(ctx, "c1")
	if err != nil {
		t.Fatalf("GetChild() error: %v", err)
	}

	first := snap.Clone()
	first.Profile.XP = 30
	saved, err := db.SaveChild(ctx, first)
	if err != nil {
		t.Fatalf("SaveChild() error: %v", err)
	}
	if saved.Version != snap.Version+1 {
		t.Errorf("Version = %d, want %d", saved.Version, snap.Version+1)
	}

	// A writer still holding the old snapshot must lose.
	stale := snap.Clone()
	stale.Profile.XP = 99
	if _, err := db.SaveChild(ctx, stale); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("stale SaveChild() err = %v, want ErrVersionConflict", err)
	}

	got, _ := db.GetChild(ctx, "c1")
	if got.Profile.XP != 30 {
		t.Errorf("XP = %d, want 30", got.Profile.XP)
	}
	if got.Version != saved.Version {
		t.Errorf("Version = %d, want %d", got.Version, saved.Version)
	}
}

func TestChild_SaveMissing(t *testing.T) {
	db := newTestDB(t)
	_, err := db.SaveChild(context.Background(), testChild("ghost", "ghost"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestChild_DeleteUnlinksParents(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, c := range []domain.ChildData{testChild("c1", "leo"), testChild("c2", "mia")} {
		if err := db.InsertChild(ctx, c); err != nil {
			t.Fatalf("InsertChild() error: %v", err)
		}
	}
	for _, p := range []domain.Parent{testParent("p1", "dad"), testParent("p2", "mom")} {
		if err := db.InsertParent(ctx, p); err != nil {
			t.Fatalf("InsertParent() error: %v", err)
		}
		db.LinkChild(ctx, p.ID, "c1")
		db.LinkChild(ctx, p.ID, "c2")
	}

	if err := db.DeleteChild(ctx, "c1"); err != nil {
		t.Fatalf("DeleteChild() error: %v", err)
	}
	if _, err := db.GetChild(ctx, "c1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetChild after delete err = %v", err)
	}
	for _, id := range []string{"p1", "p2"} {
		p, err := db.GetParent(ctx, id)
		if err != nil {
			t.Fatalf("GetParent(%s) error: %v", id, err)
		}
		if p.IsLinked("c1") || !p.IsLinked("c2") {
			t.Errorf("%s links = %v, want [c2]", id, p.LinkedChildIDs)
		}
	}

	if err := db.DeleteChild(ctx, "c1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second DeleteChild() err = %v, want ErrNotFound", err)
	}
}

// ─── Parents ────────────────────────────────────────────────────────────────

func TestParent_LinkIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	db.InsertChild(ctx, testChild("c1", "leo"))
	if err := db.InsertParent(ctx, testParent("p1", "dad")); err != nil {
		t.Fatalf("InsertParent() error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := db.LinkChild(ctx, "p1", "c1"); err != nil {
			t.Fatalf("LinkChild() #%d error: %v", i, err)
		}
	}

	p, err := db.FindParentByUsername(ctx, "dad")
	if err != nil {
		t.Fatalf("FindParentByUsername() error: %v", err)
	}
	if len(p.LinkedChildIDs) != 1 || p.LinkedChildIDs[0] != "c1" {
		t.Errorf("LinkedChildIDs = %v, want [c1]", p.LinkedChildIDs)
	}
}

func TestParent_ParentsOfChildOrderedByID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	db.InsertChild(ctx, testChild("c1", "leo"))
	for _, p := range []domain.Parent{testParent("p2", "mom"), testParent("p1", "dad"), testParent("p3", "aunt")} {
		db.InsertParent(ctx, p)
	}
	db.LinkChild(ctx, "p2", "c1")
	db.LinkChild(ctx, "p1", "c1")

	parents, err := db.ParentsOfChild(ctx, "c1")
	if err != nil {
		t.Fatalf("ParentsOfChild() error: %v", err)
	}
	if len(parents) != 2 {
		t.Fatalf("parents = %d, want 2", len(parents))
	}
	if parents[0].ID != "p1" || parents[1].ID != "p2" {
		t.Errorf("order = %s, %s; want p1, p2", parents[0].ID, parents[1].ID)
	}
	if !parents[0].IsLinked("c1") {
		t.Errorf("p1 links = %v", parents[0].LinkedChildIDs)
	}
}

func TestParent_UsernameTakenAcrossKinds(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	db.InsertChild(ctx, testChild("c1", "leo"))
	db.InsertParent(ctx, testParent("p1", "dad"))

	for name, want := range map[string]bool{"leo": true, "dad": true, "zoe": false} {
		got, err := db.UsernameTaken(ctx, name)
		if err != nil {
			t.Fatalf("UsernameTaken(%q) error: %v", name, err)
		}
		if got != want {
			t.Errorf("UsernameTaken(%q) = %v, want %v", name, got, want)
		}
	}
}

// ─── Reward Catalog ─────────────────────────────────────────────────────────

func TestCatalog_CRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	db.InsertParent(ctx, testParent("p1", "dad"))
	db.InsertParent(ctx, testParent("p2", "mom"))

	items := []domain.RewardItem{
		{ID: "i2", Title: "Ice cream", Tier: domain.TierCommon},
		{ID: "i1", Title: "Zoo trip", Tier: domain.TierLegendary},
	}
	for _, it := range items {
		if err := db.InsertRewardItem(ctx, "p1", it); err != nil {
			t.Fatalf("InsertRewardItem() error: %v", err)
		}
	}

	got, err := db.ListRewardItems(ctx, "p1")
	if err != nil {
		t.Fatalf("ListRewardItems() error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "i2" || got[1].ID != "i1" {
		t.Errorf("items = %+v, want insertion order", got)
	}

	if err := db.UpdateRewardItem(ctx, "p1", domain.RewardItem{ID: "i2", Title: "Big ice cream", Tier: domain.TierRare}); err != nil {
		t.Fatalf("UpdateRewardItem() error: %v", err)
	}
	// Another parent cannot touch p1's items.
	if err := db.DeleteRewardItem(ctx, "p2", "i2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("cross-parent delete err = %v, want ErrNotFound", err)
	}
	if err := db.DeleteRewardItem(ctx, "p1", "i1"); err != nil {
		t.Fatalf("DeleteRewardItem() error: %v", err)
	}

	got, _ = db.ListRewardItems(ctx, "p1")
	if len(got) != 1 || got[0].Title != "Big ice cream" || got[0].Tier != domain.TierRare {
		t.Errorf("items = %+v", got)
	}

	empty, err := db.ListRewardItems(ctx, "p2")
	if err != nil {
		t.Fatalf("ListRewardItems(p2) error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("p2 items = %d, want 0", len(empty))
	}
}

func TestCatalog_UpdateMissing(t *testing.T) {
	db := newTestDB(t)
	err := db.UpdateRewardItem(context.Background(), "p1", domain.RewardItem{ID: "x", Title: "t", Tier: domain.TierCommon})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

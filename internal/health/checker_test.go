package health

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/royal-guard/royalguard/internal/infra/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type downDB struct{}

func (downDB) PingContext(context.Context) error { return errors.New("database is closed") }

// ─── Checker Tests ──────────────────────────────────────────────────────────

func TestNewChecker(t *testing.T) {
	c := NewChecker(newTestDB(t), t.TempDir(), zap.NewNop())
	if c == nil {
		t.Fatal("NewChecker() returned nil")
	}
	if len(c.checks) != 2 {
		t.Errorf("checks = %d, want 2", len(c.checks))
	}
}

func TestChecker_RunAllHealthy(t *testing.T) {
	c := NewChecker(newTestDB(t), t.TempDir(), zap.NewNop())
	c.runAll(context.Background())

	statuses := c.Statuses()
	if len(statuses) != 2 {
		t.Fatalf("Statuses() = %d, want 2", len(statuses))
	}
	for _, s := range statuses {
		if !s.Healthy {
			t.Errorf("check %q should be healthy, got error: %s", s.Name, s.Error)
		}
	}
	if !c.IsHealthy() {
		t.Error("IsHealthy() should be true when all checks pass")
	}
}

func TestChecker_IsHealthy_BeforeRun(t *testing.T) {
	c := NewChecker(newTestDB(t), t.TempDir(), nil)

	// No statuses yet: vacuously healthy.
	if !c.IsHealthy() {
		t.Error("IsHealthy() should be true before first run (no statuses)")
	}
}

func TestChecker_SQLiteDown(t *testing.T) {
	c := NewChecker(downDB{}, t.TempDir(), zap.NewNop())
	c.runAll(context.Background())

	for _, s := range c.Statuses() {
		if s.Name == "sqlite" && s.Healthy {
			t.Error("sqlite check should fail when ping fails")
		}
	}
	if c.IsHealthy() {
		t.Error("IsHealthy() should be false")
	}
}

func TestChecker_StorageDirRecovers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	c := NewChecker(newTestDB(t), dir, zap.NewNop())

	c.runAll(context.Background())
	if c.IsHealthy() {
		t.Fatal("first run should report the missing directory")
	}

	// RecoverFn recreated the directory.
	c.runAll(context.Background())
	if !c.IsHealthy() {
		for _, s := range c.Statuses() {
			t.Errorf("check %q: healthy=%v err=%s", s.Name, s.Healthy, s.Error)
		}
	}
}

func TestChecker_StorageDirIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	os.WriteFile(path, []byte("not a dir"), 0644)

	c := NewChecker(newTestDB(t), path, zap.NewNop())
	c.runAll(context.Background())

	for _, s := range c.Statuses() {
		if s.Name == "storage_dir" && s.Healthy {
			t.Error("storage_dir should fail when path is a file")
		}
	}
}

func TestChecker_AddCheck(t *testing.T) {
	c := &Checker{}
	c.AddCheck(Check{
		Name:    "always_fail",
		CheckFn: func(ctx context.Context) error { return os.ErrPermission },
	})

	c.runAll(context.Background())

	statuses := c.Statuses()
	if len(statuses) != 1 {
		t.Fatalf("statuses = %d, want 1", len(statuses))
	}
	if statuses[0].Healthy {
		t.Error("always_fail check should not be healthy")
	}
	if statuses[0].Error == "" {
		t.Error("error message should be populated")
	}
}

func TestChecker_StatusesCopy(t *testing.T) {
	c := NewChecker(newTestDB(t), t.TempDir(), zap.NewNop())
	c.runAll(context.Background())

	s1 := c.Statuses()
	s2 := c.Statuses()
	s1[0].Healthy = false
	if !s2[0].Healthy {
		t.Error("Statuses() should return a copy, not a reference")
	}
}

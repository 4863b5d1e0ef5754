package repo

import (
	"context"
	"errors"
	"testing"

	"Separator/internal/calc/separator"
)

func newTestRepo(t *testing.T) *SQLRepository {
	t.Helper()
	db, err := Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLRepository(db)
}

func TestUsers(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	id, err := r.CreateUser(ctx, "ivan", "ivan@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}
	if _, err := r.CreateUser(ctx, "ivan", "other@example.com", "hash"); err == nil {
		t.Fatal("expected duplicate login error")
	}

	gotID, hash, err := r.GetBylogin(ctx, "ivan")
	if err != nil || gotID != id || hash != "hash" {
		t.Fatalf("unexpected lookup %d %q %v", gotID, hash, err)
	}
	gotID, hash, err = r.GetBylogin(ctx, "nobody")
	if err != nil || gotID != 0 || hash != "" {
		t.Fatalf("expected empty lookup, got %d %q %v", gotID, hash, err)
	}
}

func TestPresets(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	cfg := separator.DefaultConfig()

	p, err := r.SavePreset(ctx, 1, "default bowl", cfg)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := r.SavePreset(ctx, 2, "other user", cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	list, err := r.ListPresets(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "default bowl" || list[0].Config != cfg {
		t.Fatalf("unexpected presets %+v", list)
	}

	got, err := r.GetPreset(ctx, 1, p.ID)
	if err != nil || got.Config != cfg {
		t.Fatalf("get: %+v %v", got, err)
	}
	if _, err := r.GetPreset(ctx, 2, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for foreign preset, got %v", err)
	}

	if err := r.DeletePreset(ctx, 1, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := r.DeletePreset(ctx, 1, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestCalculations(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	cfg := separator.DefaultConfig()

	if err := r.RecordCalculation(ctx, 1, cfg, separator.ComputeInterface(cfg)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := r.RecordCalculation(ctx, 1, cfg, separator.Valid(0.15)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := r.RecordCalculation(ctx, 3, cfg, separator.Valid(0.12)); err != nil {
		t.Fatalf("record: %v", err)
	}

	list, err := r.ListCalculations(ctx, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 calculations, got %d", len(list))
	}
	reasons := map[separator.Reason]bool{}
	for _, c := range list {
		if c.ID == "" || c.Config != cfg {
			t.Fatalf("unexpected row %+v", c)
		}
		reasons[c.Result.Reason] = true
	}
	if !reasons[separator.ReasonRadiusExceedsBowl] || !reasons[separator.ReasonNone] {
		t.Fatalf("results not round-tripped: %+v", list)
	}

	limited, err := r.ListCalculations(ctx, 1, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("expected limit 1, got %d %v", len(limited), err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("mysql", ""); err == nil {
		t.Fatal("expected error")
	}
}

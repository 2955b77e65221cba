package csvsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lilyle-2211/game-analytics-dashboard/ports"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoad_ReadsMappedTable(t *testing.T) {
	path := writeFixture(t, "retention.csv",
		"day_1_retention_pct,day_2_retention_pct\n50.0,40.0\n")

	source := New(map[string]string{ports.TableRetention: path})
	frame, err := source.Load(context.Background(), ports.TableRetention)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if frame.NumRows() != 1 {
		t.Fatalf("expected 1 row, got %d", frame.NumRows())
	}
	if v, ok := frame.Value(0, "day_2_retention_pct"); !ok || v != 40 {
		t.Fatalf("expected day_2 value 40, got %g (ok=%v)", v, ok)
	}
}

func TestLoad_UnmappedTableFails(t *testing.T) {
	source := New(nil)
	if _, err := source.Load(context.Background(), ports.TableRevenue); err == nil {
		t.Fatal("expected an error for an unmapped table")
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	source := New(map[string]string{ports.TableRevenue: "/nonexistent/revenue.csv"})
	if _, err := source.Load(context.Background(), ports.TableRevenue); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestFallbackSource_SkipsFailingSource(t *testing.T) {
	missing := New(map[string]string{ports.TableRetention: "/nonexistent/retention.csv"})

	path := writeFixture(t, "retention.csv", "day_1_retention_pct\n50.0\n")
	working := New(map[string]string{ports.TableRetention: path})

	chain := ports.NewFallbackSource(missing, working)
	frame, err := chain.Load(context.Background(), ports.TableRetention)
	if err != nil {
		t.Fatalf("fallback chain failed: %v", err)
	}
	if frame.NumRows() != 1 {
		t.Fatalf("expected 1 row, got %d", frame.NumRows())
	}

	if _, err := ports.NewFallbackSource(missing).Load(context.Background(), ports.TableRetention); err == nil {
		t.Fatal("expected failure when every source fails")
	}
}

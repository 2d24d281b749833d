package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fintrack/internal/app"
	"fintrack/internal/config"
	"fintrack/internal/storage"
)

type harness struct {
	t    *testing.T
	opts Options
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		t: t,
		opts: Options{
			Config: &config.Config{DataDir: t.TempDir(), LogLevel: "info", LogFormat: "text"},
			Now:    func() time.Time { return time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC) },
		},
	}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	opts := h.opts
	opts.Out = &out
	opts.Err = &out
	err := Execute(context.Background(), opts, args)
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("fintrack %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestAddListShow(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("add", "--name", "Coffee", "--amount", "4,50", "--category", "5", "--date", "2024-03-05")
	if !strings.Contains(out, "Added transaction 1") {
		t.Fatalf("unexpected add output %q", out)
	}
	h.mustRun("add", "-n", "Salary", "-a", "1234.5", "-c", "3", "-t", "income")

	out = h.mustRun("list")
	for _, want := range []string{"Coffee", "Food", "-4.50", "Salary", "+1,234.50", "2024-03-20"} {
		if !strings.Contains(out, want) {
			t.Fatalf("list missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Salary") > strings.Index(out, "Coffee") {
		t.Fatalf("expected newest first:\n%s", out)
	}

	out = h.mustRun("list", "--month", "2024-02")
	if !strings.Contains(out, "No transactions") {
		t.Fatalf("expected empty February:\n%s", out)
	}

	out = h.mustRun("show", "1")
	for _, want := range []string{"Coffee", "2024-03-05", "expense", "Food"} {
		if !strings.Contains(out, want) {
			t.Fatalf("show missing %q:\n%s", want, out)
		}
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	h := newHarness(t)

	if _, err := h.run("add", "--name", "x", "--amount", "-3"); err == nil {
		t.Fatalf("expected error for negative amount")
	}
	if _, err := h.run("add", "--name", "x", "--amount", "3", "--type", "transfer"); err == nil {
		t.Fatalf("expected error for unknown type")
	}
	if _, err := h.run("add", "--name", "x", "--amount", "3", "--date", "2023-02-29"); err == nil {
		t.Fatalf("expected error for invalid date")
	}

	out := h.mustRun("dump")
	if !strings.Contains(out, "transactions: 0 rows") {
		t.Fatalf("rejected input must not be stored:\n%s", out)
	}
}

func TestUpdateDelete(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "--name", "Rent", "--amount", "800", "--category", "2", "--date", "2024-03-01")

	h.mustRun("update", "1", "--amount", "850")
	out := h.mustRun("show", "1")
	if !strings.Contains(out, "850.00") || !strings.Contains(out, "Rent") {
		t.Fatalf("expected partial update to keep the name:\n%s", out)
	}

	h.mustRun("delete", "1")
	if _, err := h.run("show", "1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := h.run("delete", "1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on stale delete, got %v", err)
	}
	if _, err := h.run("delete", "abc"); err == nil {
		t.Fatalf("expected error for malformed id")
	}
}

func TestSummary(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "--name", "Coffee", "--amount", "4.5", "--category", "5", "--date", "2024-03-05")
	h.mustRun("add", "--name", "Salary", "--amount", "1200", "--category", "3", "--type", "income", "--date", "2024-03-27")

	out := h.mustRun("summary")
	for _, want := range []string{"Summary 2024-03", "1,200.00", "4.50", "1,195.50", "By category", "Income", "Food", "2024-03-05"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}

	out = h.mustRun("summary", "--month", "2024-12")
	if !strings.Contains(out, "Summary 2024-12") || strings.Contains(out, "By category") {
		t.Fatalf("expected empty December summary:\n%s", out)
	}

	if _, err := h.run("summary", "--month", "2024-13"); err == nil {
		t.Fatalf("expected error for month 13")
	}
}

func TestCategoriesSkipsDatabase(t *testing.T) {
	h := newHarness(t)
	h.opts.Config.DataDir = "/dev/null/not-a-dir"

	out := h.mustRun("categories")
	for _, want := range []string{"Uncategorized", "Pet Care", "paw"} {
		if !strings.Contains(out, want) {
			t.Fatalf("categories missing %q:\n%s", want, out)
		}
	}

	if _, err := h.run("list"); !errors.Is(err, app.ErrNotReady) && !errors.Is(err, storage.ErrStorageUnavailable) {
		t.Fatalf("expected open failure, got %v", err)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/panpipe/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.HistoryConfig{HistoryDir: t.TempDir()})
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func entryAt(id string, created time.Time, to string, outcome types.OutcomeKind) Entry {
	return Entry{
		ID:         id,
		CreatedAt:  created,
		Source:     "doc.md",
		FromFormat: "markdown",
		ToFormat:   to,
		Args:       []string{"-f", "markdown", "-t", to},
		ExitCode:   0,
		Outcome:    outcome,
	}
}

func TestRecordAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, e := range []Entry{
		entryAt("a", base, "html", types.OutcomeText),
		entryAt("b", base.Add(time.Minute), "latex", types.OutcomeFile),
		entryAt("c", base.Add(2*time.Minute), "html", types.OutcomeError),
	} {
		if err := s.Record(ctx, e); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	entries, err := s.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	// Newest first.
	if entries[0].ID != "c" || entries[2].ID != "a" {
		t.Errorf("order = %s,%s,%s, want c,b,a", entries[0].ID, entries[1].ID, entries[2].ID)
	}
	if got := entries[0].Args; len(got) != 4 || got[3] != "html" {
		t.Errorf("args round-trip failed: %v", got)
	}
}

func TestList_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, e := range []Entry{
		entryAt("a", base, "html", types.OutcomeText),
		entryAt("b", base.Add(time.Minute), "latex", types.OutcomeFile),
		entryAt("c", base.Add(2*time.Minute), "html", types.OutcomeError),
	} {
		if err := s.Record(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	byFormat, err := s.List(ctx, ListOptions{ToFormat: "html"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byFormat) != 2 {
		t.Errorf("to_format filter: got %d entries, want 2", len(byFormat))
	}

	byOutcome, err := s.List(ctx, ListOptions{Outcome: types.OutcomeError})
	if err != nil {
		t.Fatal(err)
	}
	if len(byOutcome) != 1 || byOutcome[0].ID != "c" {
		t.Errorf("outcome filter: got %v", byOutcome)
	}

	limited, err := s.List(ctx, ListOptions{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].ID != "c" {
		t.Errorf("limit: got %v", limited)
	}
}

func TestRecord_ReplaceSameID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := s.Record(ctx, entryAt("a", now, "html", types.OutcomeText)); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(ctx, entryAt("a", now, "latex", types.OutcomeFile)); err != nil {
		t.Fatal(err)
	}

	entries, err := s.List(ctx, ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ToFormat != "latex" {
		t.Errorf("got %v, want single replaced entry", entries)
	}
}

func TestLastUsed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _, _, ok, err := s.LastUsed(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("empty store should report no last-used defaults")
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	good := entryAt("a", base, "html", types.OutcomeFile)
	good.OutputPath = "/tmp/out/doc.html"
	if err := s.Record(ctx, good); err != nil {
		t.Fatal(err)
	}
	// A later failure must not become the default.
	if err := s.Record(ctx, entryAt("b", base.Add(time.Minute), "nope", types.OutcomeError)); err != nil {
		t.Fatal(err)
	}

	from, to, outDir, ok, err := s.LastUsed(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected last-used defaults")
	}
	if from != "markdown" || to != "html" || outDir != "/tmp/out" {
		t.Errorf("got (%q, %q, %q)", from, to, outDir)
	}
}

func TestExportYAML(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.Record(ctx, entryAt("a", time.Now().UTC(), "html", types.OutcomeText)); err != nil {
		t.Fatal(err)
	}

	path, err := s.ExportYAML(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	content := string(data)
	for _, want := range []string{"exported_at:", "count: 1", "to_format: html"} {
		if !strings.Contains(content, want) {
			t.Errorf("export missing %q:\n%s", want, content)
		}
	}
}

func TestFromResult(t *testing.T) {
	res := types.Result{
		Invocation: types.Invocation{
			ID:         "inv-1",
			Args:       []string{"-t", "html"},
			Source:     types.Source{Kind: types.SourceBuffer, Name: "notes"},
			FromFormat: "markdown",
			ToFormat:   "html",
			CreatedAt:  time.Now().UTC(),
		},
		ExitCode: 0,
	}
	e := FromResult(res, types.OutcomeText)
	if e.ID != "inv-1" || e.Source != "buffer:notes" || e.Outcome != types.OutcomeText {
		t.Errorf("entry = %+v", e)
	}
}

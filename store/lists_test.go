package store

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// brokenKV fails every operation.
type brokenKV struct{}

var errBroken = errors.New("store unavailable")

func (brokenKV) Get(context.Context, string, string) (string, bool, error) {
	return "", false, errBroken
}
func (brokenKV) Set(context.Context, string, string, string) error { return errBroken }
func (brokenKV) Delete(context.Context, string, string) error      { return errBroken }

func newSQLite(t *testing.T) *SQLite {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func backends(t *testing.T) map[string]KV {
	return map[string]KV{
		"memory": NewMemory(),
		"sqlite": newSQLite(t),
	}
}

func TestSaveLoadList(t *testing.T) {
	ctx := context.Background()

	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := New(kv, "w1")

			want := []string{"Charlie", "alice", "Bob"}
			if !s.SaveList(ctx, "Team", want) {
				t.Fatal("SaveList returned false")
			}

			got, ok := s.LoadList(ctx, "Team")
			if !ok || !slices.Equal(got, want) {
				t.Errorf("LoadList = %v, %v; want %v", got, ok, want)
			}

			got[0] = "mutated"
			again, _ := s.LoadList(ctx, "Team")
			if again[0] != "Charlie" {
				t.Error("loaded list is bound to the saved record")
			}

			if _, ok := s.LoadList(ctx, "missing"); ok {
				t.Error("LoadList found a list that was never saved")
			}
		})
	}
}

func TestSaveListUpsert(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory(), "w1")

	s.SaveList(ctx, "A", []string{"1"})
	s.SaveList(ctx, "B", []string{"2"})
	s.SaveList(ctx, " A ", []string{"3"})

	lists := s.ListAll(ctx)
	if len(lists) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(lists))
	}
	if lists[0].Name != "B" || lists[1].Name != "A" {
		t.Errorf("unexpected order: %+v", lists)
	}
	if !slices.Equal(lists[1].Entries, []string{"3"}) {
		t.Errorf("expected overwritten entries, got %v", lists[1].Entries)
	}

	if s.SaveList(ctx, "   ", []string{"x"}) {
		t.Error("SaveList accepted a blank name")
	}
}

func TestSavedListsShareLibrary(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	New(kv, "w1").SaveList(ctx, "Shared", []string{"x"})

	if _, ok := New(kv, "w2").LoadList(ctx, "Shared"); !ok {
		t.Error("saved list not visible from another wheel")
	}
}

func TestDeleteList(t *testing.T) {
	ctx := context.Background()
	s := New(newSQLite(t), "w1")

	s.SaveList(ctx, "A", []string{"1"})
	s.SaveList(ctx, "B", []string{"2"})

	if !s.DeleteList(ctx, "A") {
		t.Fatal("DeleteList(A) returned false")
	}
	if s.DeleteList(ctx, "A") {
		t.Error("DeleteList(A) succeeded twice")
	}

	lists := s.ListAll(ctx)
	if len(lists) != 1 || lists[0].Name != "B" {
		t.Errorf("unexpected lists after delete: %+v", lists)
	}
}

func TestActiveState(t *testing.T) {
	ctx := context.Background()

	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := New(kv, "w1")

			if _, ok := s.LoadEntries(ctx); ok {
				t.Error("LoadEntries found entries in an empty store")
			}

			s.SaveEntries(ctx, []string{"a", "b"})
			s.SaveTheme(ctx, "Ocean")
			s.SaveMode(ctx, "Elimination")

			entries, ok := s.LoadEntries(ctx)
			if !ok || !slices.Equal(entries, []string{"a", "b"}) {
				t.Errorf("LoadEntries = %v, %v", entries, ok)
			}
			if theme, _ := s.LoadTheme(ctx); theme != "Ocean" {
				t.Errorf("LoadTheme = %q", theme)
			}
			if mode, _ := s.LoadMode(ctx); mode != "Elimination" {
				t.Errorf("LoadMode = %q", mode)
			}

			other := New(kv, "w2")
			if _, ok := other.LoadEntries(ctx); ok {
				t.Error("entries leaked across wheels")
			}

			s.SaveEntries(ctx, nil)
			if entries, ok := s.LoadEntries(ctx); !ok || len(entries) != 0 {
				t.Errorf("expected stored empty list, got %v, %v", entries, ok)
			}
		})
	}
}

func TestMalformedDataFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	_ = kv.Set(ctx, "w1", EntriesKey, `{"not":"a list"}`)
	_ = kv.Set(ctx, "w1", ThemeKey, "")
	_ = kv.Set(ctx, LibraryNamespace, SavedListsKey, `[{"name": 5}`)

	var logged []string
	s := New(kv, "w1", WithLogger(func(format string, args ...any) {
		logged = append(logged, format)
	}))

	if _, ok := s.LoadEntries(ctx); ok {
		t.Error("malformed entries were accepted")
	}
	if _, ok := s.LoadTheme(ctx); ok {
		t.Error("blank theme was accepted")
	}
	if lists := s.ListAll(ctx); len(lists) != 0 {
		t.Errorf("expected no lists, got %+v", lists)
	}
	if len(logged) == 0 {
		t.Error("expected malformed data to be logged")
	}

	_ = kv.Set(ctx, "w1", EntriesKey, `["a", 1]`)
	if _, ok := s.LoadEntries(ctx); ok {
		t.Error("mixed-type entries were accepted")
	}

	_ = kv.Set(ctx, "w1", EntriesKey, `["a", null]`)
	if _, ok := s.LoadEntries(ctx); ok {
		t.Error("null entry was accepted")
	}

	_ = kv.Set(ctx, "w1", EntriesKey, `["a", ""]`)
	if _, ok := s.LoadEntries(ctx); ok {
		t.Error("blank entry was accepted")
	}

	if !s.SaveList(ctx, "Fresh", []string{"x"}) {
		t.Fatal("SaveList over corrupt data failed")
	}
	if lists := s.ListAll(ctx); len(lists) != 1 {
		t.Errorf("expected corrupt library to be replaced, got %+v", lists)
	}
}

func TestUnavailableStoreIsSilent(t *testing.T) {
	ctx := context.Background()

	var logged int
	s := New(brokenKV{}, "w1", WithLogger(func(string, ...any) { logged++ }))

	s.SaveEntries(ctx, []string{"a"})
	s.SaveTheme(ctx, "dark")
	s.SaveMode(ctx, "Normal")
	s.SaveList(ctx, "A", []string{"a"})
	s.DeleteList(ctx, "A")

	if _, ok := s.LoadEntries(ctx); ok {
		t.Error("LoadEntries succeeded on a broken store")
	}
	if lists := s.ListAll(ctx); len(lists) != 0 {
		t.Errorf("expected no lists, got %v", lists)
	}
	if name := s.ListName(ctx, []string{"a"}); name != UnsavedListName {
		t.Errorf("expected %q, got %q", UnsavedListName, name)
	}
	if logged == 0 {
		t.Error("expected failures to be logged")
	}

	nilStore := New(nil, "w1")
	nilStore.SaveEntries(ctx, []string{"a"})
	if _, ok := nilStore.LoadEntries(ctx); ok {
		t.Error("LoadEntries succeeded without a backend")
	}
}

func TestListName(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory(), "w1")

	s.SaveList(ctx, "Team", []string{"a", "b"})

	tests := []struct {
		entries []string
		want    string
	}{
		{[]string{"a", "b"}, "Team"},
		{[]string{"b", "a"}, UnsavedListName},
		{[]string{"a"}, UnsavedListName},
		{[]string{"a", "b", "c"}, UnsavedListName},
	}

	for _, tt := range tests {
		if got := s.ListName(ctx, tt.entries); got != tt.want {
			t.Errorf("ListName(%v) = %q, want %q", tt.entries, got, tt.want)
		}
	}
}

func TestImportTOML(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory(), "w1")
	s.SaveList(ctx, "Team", []string{"old"})

	n, err := s.ImportTOML(ctx, strings.NewReader(`
[[list]]
name = "Team"
entries = ["Alice", " Bob ", ""]

[[list]]
name = "Snacks"
entries = ["Chips"]
`))
	if err != nil {
		t.Fatalf("ImportTOML: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 lists imported, got %d", n)
	}

	team, _ := s.LoadList(ctx, "Team")
	if !slices.Equal(team, []string{"Alice", "Bob"}) {
		t.Errorf("expected Team to be replaced, got %v", team)
	}
	if _, ok := s.LoadList(ctx, "Snacks"); !ok {
		t.Error("Snacks was not imported")
	}
}

func TestImportTOMLErrors(t *testing.T) {
	ctx := context.Background()

	tests := map[string]string{
		"syntax":        `[[list]`,
		"missing name":  "[[list]]\nentries = [\"a\"]\n",
		"unknown field": "[[list]]\nname = \"a\"\ncolour = \"red\"\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			s := New(NewMemory(), "w1")

			if _, err := s.ImportTOML(ctx, strings.NewReader(doc)); err == nil {
				t.Error("expected an error")
			}
			if lists := s.ListAll(ctx); len(lists) != 0 {
				t.Errorf("failed import stored lists: %+v", lists)
			}
		})
	}
}

func TestImportFileMissing(t *testing.T) {
	s := New(NewMemory(), "w1")

	if _, err := s.ImportFile(context.Background(), filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

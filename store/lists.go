/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package store

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
)

const (
	EntriesKey    = "wheel.entries"
	ThemeKey      = "wheel.theme"
	ModeKey       = "wheel.mode"
	SavedListsKey = "wheel.savedLists"

	// LibraryNamespace holds saved lists shared by every wheel.
	LibraryNamespace = "library"

	UnsavedListName = "Unsaved List"
)

type SavedList struct {
	Name    string   `json:"name" toml:"name"`
	Entries []string `json:"entries" toml:"entries"`
}

// ListStore persists one wheel's state. Every read and write fails soft: a
// broken backend or corrupt value reads as absent and write errors are only
// logged.
type ListStore struct {
	kv        KV
	namespace string
	logf      func(format string, args ...any)
}

type Option func(*ListStore)

// WithLogger routes swallowed storage errors to logf.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(s *ListStore) {
		s.logf = logf
	}
}

// New returns a ListStore for the wheel identified by namespace.
func New(kv KV, namespace string, opts ...Option) *ListStore {
	s := &ListStore{
		kv:        kv,
		namespace: namespace,
		logf:      func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *ListStore) get(ctx context.Context, namespace, key string) (string, bool) {
	if s.kv == nil {
		return "", false
	}

	v, ok, err := s.kv.Get(ctx, namespace, key)
	if err != nil {
		s.logf("STORE: Read %s/%s failed: %v", namespace, key, err)
		return "", false
	}

	return v, ok
}

func (s *ListStore) set(ctx context.Context, namespace, key, value string) {
	if s.kv == nil {
		return
	}

	if err := s.kv.Set(ctx, namespace, key, value); err != nil {
		s.logf("STORE: Write %s/%s failed: %v", namespace, key, err)
	}
}

func (s *ListStore) setJSON(ctx context.Context, namespace, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logf("STORE: Encode %s/%s failed: %v", namespace, key, err)
		return
	}

	s.set(ctx, namespace, key, string(data))
}

// SaveEntries stores the active entry list.
func (s *ListStore) SaveEntries(ctx context.Context, entries []string) {
	if entries == nil {
		entries = []string{}
	}

	s.setJSON(ctx, s.namespace, EntriesKey, entries)
}

// LoadEntries returns the stored entry list. An empty stored list is still
// reported as present.
func (s *ListStore) LoadEntries(ctx context.Context) ([]string, bool) {
	raw, ok := s.get(ctx, s.namespace, EntriesKey)
	if !ok {
		return nil, false
	}

	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil || entries == nil || slices.Contains(entries, "") {
		s.logf("STORE: Ignoring malformed %s for %s", EntriesKey, s.namespace)
		return nil, false
	}

	return entries, true
}

func (s *ListStore) SaveTheme(ctx context.Context, theme string) {
	s.set(ctx, s.namespace, ThemeKey, theme)
}

func (s *ListStore) LoadTheme(ctx context.Context) (string, bool) {
	theme, ok := s.get(ctx, s.namespace, ThemeKey)
	if !ok || strings.TrimSpace(theme) == "" {
		return "", false
	}

	return theme, true
}

func (s *ListStore) SaveMode(ctx context.Context, mode string) {
	s.set(ctx, s.namespace, ModeKey, mode)
}

func (s *ListStore) LoadMode(ctx context.Context) (string, bool) {
	mode, ok := s.get(ctx, s.namespace, ModeKey)
	if !ok || strings.TrimSpace(mode) == "" {
		return "", false
	}

	return mode, true
}

// ListAll returns the saved lists in the order they were last saved.
// Records without a name are skipped.
func (s *ListStore) ListAll(ctx context.Context) []SavedList {
	raw, ok := s.get(ctx, LibraryNamespace, SavedListsKey)
	if !ok {
		return []SavedList{}
	}

	var lists []SavedList
	if err := json.Unmarshal([]byte(raw), &lists); err != nil {
		s.logf("STORE: Ignoring malformed %s: %v", SavedListsKey, err)
		return []SavedList{}
	}

	out := make([]SavedList, 0, len(lists))
	for _, l := range lists {
		if strings.TrimSpace(l.Name) == "" {
			continue
		}
		if l.Entries == nil {
			l.Entries = []string{}
		}
		out = append(out, l)
	}

	return out
}

// SaveList stores a copy of entries under name, replacing and moving to the
// end any list already saved with that name.
func (s *ListStore) SaveList(ctx context.Context, name string, entries []string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	s.saveLists(ctx, []SavedList{{Name: name, Entries: entries}})

	return true
}

func (s *ListStore) saveLists(ctx context.Context, incoming []SavedList) {
	lists := s.ListAll(ctx)

	for _, in := range incoming {
		lists = slices.DeleteFunc(lists, func(l SavedList) bool {
			return l.Name == in.Name
		})

		entries := make([]string, len(in.Entries))
		copy(entries, in.Entries)

		lists = append(lists, SavedList{Name: in.Name, Entries: entries})
	}

	s.setJSON(ctx, LibraryNamespace, SavedListsKey, lists)
}

// LoadList returns a copy of the entries saved under name.
func (s *ListStore) LoadList(ctx context.Context, name string) ([]string, bool) {
	for _, l := range s.ListAll(ctx) {
		if l.Name == name {
			return slices.Clone(l.Entries), true
		}
	}

	return nil, false
}

func (s *ListStore) DeleteList(ctx context.Context, name string) bool {
	lists := s.ListAll(ctx)

	kept := slices.DeleteFunc(slices.Clone(lists), func(l SavedList) bool {
		return l.Name == name
	})
	if len(kept) == len(lists) {
		return false
	}

	s.setJSON(ctx, LibraryNamespace, SavedListsKey, kept)

	return true
}

// ListName returns the name of the first saved list whose entries match
// entries exactly, or UnsavedListName.
func (s *ListStore) ListName(ctx context.Context, entries []string) string {
	for _, l := range s.ListAll(ctx) {
		if slices.Equal(l.Entries, entries) {
			return l.Name
		}
	}

	return UnsavedListName
}

/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package wheel

import (
	"regexp"
	"strings"
)

var lineBreak = regexp.MustCompile(`\r\n|\r|\n`)

// EntrySet is the ordered list of names on the wheel.
//
// Single adds may introduce duplicates; bulk adds deduplicate the whole
// resulting list by first occurrence.
type EntrySet struct {
	entries []string
}

func NewEntrySet(entries ...string) *EntrySet {
	s := &EntrySet{}
	s.Replace(entries)

	return s
}

func (s *EntrySet) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the current list.
func (s *EntrySet) Entries() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)

	return out
}

// Add appends the trimmed name. Blank names are ignored.
func (s *EntrySet) Add(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	s.entries = append(s.entries, name)

	return true
}

// AddBulk appends one entry per non-blank line of text, then drops every
// later duplicate across the combined list.
func (s *EntrySet) AddBulk(text string) bool {
	parsed := parseLines(text)
	if len(parsed) == 0 {
		return false
	}

	s.entries = dedup(append(s.Entries(), parsed...))

	return true
}

// RemoveAt drops the entry at i. Out of range indexes are ignored.
func (s *EntrySet) RemoveAt(i int) bool {
	if i < 0 || i >= len(s.entries) {
		return false
	}

	s.entries = append(s.entries[:i:i], s.entries[i+1:]...)

	return true
}

// RemoveValue drops every entry equal to v and returns how many were removed.
func (s *EntrySet) RemoveValue(v string) int {
	kept := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		if e != v {
			kept = append(kept, e)
		}
	}

	removed := len(s.entries) - len(kept)
	s.entries = kept

	return removed
}

func (s *EntrySet) Clear() {
	s.entries = nil
}

// Replace swaps in a copy of entries.
func (s *EntrySet) Replace(entries []string) {
	s.entries = make([]string, len(entries))
	copy(s.entries, entries)
}

func parseLines(text string) []string {
	var out []string
	for _, line := range lineBreak.Split(text, -1) {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}

	return out
}

func dedup(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))

	for _, e := range entries {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}

	return out
}

package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type listFile struct {
	Lists []SavedList `toml:"list"`
}

// ImportTOML upserts every [[list]] table read from r into the library and
// returns how many lists were imported. Lists without a name are rejected.
//
//	[[list]]
//	name = "Team"
//	entries = ["Alice", "Bob"]
func (s *ListStore) ImportTOML(ctx context.Context, r io.Reader) (int, error) {
	var f listFile

	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return 0, fmt.Errorf("decode lists: %w", err)
	}

	lists := make([]SavedList, 0, len(f.Lists))
	for i, l := range f.Lists {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			return 0, fmt.Errorf("list %d has no name", i+1)
		}

		entries := make([]string, 0, len(l.Entries))
		for _, e := range l.Entries {
			if e = strings.TrimSpace(e); e != "" {
				entries = append(entries, e)
			}
		}

		lists = append(lists, SavedList{Name: name, Entries: entries})
	}

	s.saveLists(ctx, lists)

	return len(lists), nil
}

// ImportFile is ImportTOML on the file at path.
func (s *ListStore) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open lists file: %w", err)
	}
	defer f.Close()

	return s.ImportTOML(ctx, f)
}

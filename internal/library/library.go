// Package library loads the reference database of known compound spin
// networks.
//
// A library file is one JSON object keyed by InternalID. Entries keep the
// order in which they appear in the file because the matcher reports matches
// in library order. Entries that cannot be decoded or lack scoring fields are
// skipped and reported, never fatal.
package library

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Skipped records an entry left out of the library and why.
type Skipped struct {
	Key    string
	Reason string
}

// Library is an ordered set of reference entries.
type Library struct {
	Entries []Entry
	Skipped []Skipped
}

// Len returns the number of usable entries.
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Entries)
}

// Load reads a library file from disk.
func Load(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	defer f.Close()
	lib, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode library %s: %w", path, err)
	}
	return lib, nil
}

// Decode reads a library object from r, preserving key order.
func Decode(r io.Reader) (*Library, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("library must be a JSON object, got %v", tok)
	}

	lib := &Library{}
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("entry %q: %w", key, err)
		}
		var entry Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			lib.Skipped = append(lib.Skipped, Skipped{Key: key, Reason: err.Error()})
			continue
		}
		if entry.ID == "" {
			entry.ID = key
		}
		if err := entry.Validate(); err != nil {
			lib.Skipped = append(lib.Skipped, Skipped{Key: key, Reason: err.Error()})
			continue
		}
		if _, dup := seen[entry.ID]; dup {
			lib.Skipped = append(lib.Skipped, Skipped{Key: key, Reason: "duplicate InternalID " + entry.ID})
			continue
		}
		seen[entry.ID] = struct{}{}
		lib.Entries = append(lib.Entries, entry)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return lib, nil
}

// Encode writes entries as a library object keyed by InternalID, in order.
func Encode(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("{\n"); err != nil {
		return err
	}
	for i, entry := range entries {
		key, err := json.Marshal(entry.ID)
		if err != nil {
			return err
		}
		body, err := json.MarshalIndent(entry, "  ", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", entry.ID, err)
		}
		sep := ",\n"
		if i == len(entries)-1 {
			sep = "\n"
		}
		if _, err := fmt.Fprintf(bw, "  %s: %s%s", key, body, sep); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("}\n"); err != nil {
		return err
	}
	return bw.Flush()
}

// Filter returns a library restricted to entries whose name or display name
// is listed. An empty list keeps every entry.
func (l *Library) Filter(names []string) *Library {
	if len(names) == 0 {
		return l
	}
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[normalizeName(name)] = struct{}{}
	}
	out := &Library{Skipped: l.Skipped}
	for _, entry := range l.Entries {
		if _, ok := wanted[normalizeName(entry.Name)]; ok {
			out.Entries = append(out.Entries, entry)
		}
	}
	return out
}

// DisplayName renders a library name for people: underscores become spaces
// and words are title cased.
func DisplayName(name string) string {
	spaced := strings.Join(strings.FieldsFunc(name, func(r rune) bool { return r == '_' }), " ")
	return cases.Title(language.English, cases.NoLower).String(spaced)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"ineta/internal/library"
	"ineta/internal/peaks"
)

// WritePeaks encodes levels as a JSON peak list at path.
func WritePeaks(t testing.TB, path string, levels peaks.Levels) {
	t.Helper()

	data, err := json.Marshal(levels)
	if err != nil {
		t.Fatalf("marshal peaks: %v", err)
	}
	WriteFile(t, path, data)
}

// WriteLibrary encodes entries as a reference library at path.
func WriteLibrary(t testing.TB, path string, entries []library.Entry) {
	t.Helper()

	mkdirFor(t, path)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := library.Encode(f, entries); err != nil {
		t.Fatalf("encode library: %v", err)
	}
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	mkdirFor(t, path)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mkdirFor(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
}

// PairEntry builds a library entry whose only bond joins atoms a and b with
// single shifts csA and csB.
func PairEntry(t testing.TB, id, name string, a string, csA float64, b string, csB float64) library.Entry {
	t.Helper()

	entry, err := library.BuildEntry(id, name, "1", "D2O",
		map[string][]float64{a: {csA}, b: {csB}},
		[][2]string{{a, b}},
	)
	if err != nil {
		t.Fatalf("BuildEntry: %v", err)
	}
	return entry
}

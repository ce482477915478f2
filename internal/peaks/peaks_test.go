package peaks

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPointJSONUsesPairLayout(t *testing.T) {
	data, err := json.Marshal(Point{CS: 10.5, DQ: 45})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[10.5,45]" {
		t.Fatalf("unexpected encoding %s", data)
	}

	var p Point
	if err := json.Unmarshal([]byte("[1, 2, 3]"), &p); err == nil {
		t.Fatal("expected error for three-element point")
	}
}

func TestDiagonalOffset(t *testing.T) {
	p := Point{CS: 10, DQ: 45}
	if got := p.DiagonalOffset(); got != 12.5 {
		t.Fatalf("diagonal offset = %v, want 12.5", got)
	}
}

func TestDecodeTSVSkipsCommentsAndGroupsLevels(t *testing.T) {
	input := strings.Join([]string{
		"# level cs dq",
		"0\t10.0\t45.0",
		"",
		"1 35.0 45.0",
		"0\t12.5\t30.0",
	}, "\n")
	levels, err := DecodeTSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeTSV: %v", err)
	}
	if got := levels.Indices(); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("unexpected indices %v", got)
	}
	if levels.Total() != 3 {
		t.Fatalf("expected 3 points, got %d", levels.Total())
	}
	if levels[0][1] != (Point{CS: 12.5, DQ: 30}) {
		t.Fatalf("unexpected point order: %v", levels[0])
	}
}

func TestDecodeTSVRejectsMalformedLine(t *testing.T) {
	_, err := DecodeTSV(strings.NewReader("0 10.0\n"))
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("expected line error, got %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peaks.json")
	if err := os.WriteFile(path, []byte(`{"0": [[10, 45], [35, 45]], "2": [[10, 30]]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	levels, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(levels[0]) != 2 || len(levels[2]) != 1 {
		t.Fatalf("unexpected levels %v", levels)
	}
}

func TestLoadEmptyJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peaks.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrNoLevels) {
		t.Fatalf("expected ErrNoLevels, got %v", err)
	}
}

func TestSortedByAxisIsStable(t *testing.T) {
	in := []Point{{CS: 3, DQ: 1}, {CS: 1, DQ: 1}, {CS: 2, DQ: 0}}
	out := SortedByAxis(in, AxisDQ)
	want := []Point{{CS: 2, DQ: 0}, {CS: 3, DQ: 1}, {CS: 1, DQ: 1}}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("position %d: got %v want %v", i, out[i], want[i])
		}
	}
	if in[0] != (Point{CS: 3, DQ: 1}) {
		t.Fatal("input slice was modified")
	}
}

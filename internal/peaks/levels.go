package peaks

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Levels maps a picking iteration index to the points it produced.
type Levels map[int][]Point

// ErrNoLevels reports a peak source without any level.
var ErrNoLevels = errors.New("peak list has no levels")

// Indices returns the level indices in ascending order.
func (l Levels) Indices() []int {
	out := make([]int, 0, len(l))
	for idx := range l {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Total returns the number of points across all levels.
func (l Levels) Total() int {
	total := 0
	for _, pts := range l {
		total += len(pts)
	}
	return total
}

// Load reads a peak list. Files ending in .json hold an object keyed by level
// index whose values are [cs, dq] arrays; every other file is parsed as
// tab- or space-separated "level cs dq" lines.
func Load(path string) (Levels, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open peak list: %w", err)
	}
	defer file.Close()

	var levels Levels
	if strings.EqualFold(filepath.Ext(path), ".json") {
		levels, err = DecodeJSON(file)
	} else {
		levels, err = DecodeTSV(file)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return levels, nil
}

// DecodeJSON reads levels from the JSON peak-list layout.
func DecodeJSON(r io.Reader) (Levels, error) {
	var levels Levels
	if err := json.NewDecoder(r).Decode(&levels); err != nil {
		return nil, fmt.Errorf("decode peak list: %w", err)
	}
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}
	return levels, nil
}

// DecodeTSV reads levels from "level cs dq" lines. Blank lines and lines
// starting with '#' are skipped.
func DecodeTSV(r io.Reader) (Levels, error) {
	levels := Levels{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 fields, got %d", lineNo, len(fields))
		}
		level, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: level: %w", lineNo, err)
		}
		cs, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: cs: %w", lineNo, err)
		}
		dq, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: dq: %w", lineNo, err)
		}
		levels[level] = append(levels[level], Point{CS: cs, DQ: dq})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read peak list: %w", err)
	}
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}
	return levels, nil
}

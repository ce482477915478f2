package library

import (
	"fmt"
	"strings"

	"ineta/internal/peaks"
)

// CompositeID builds the InternalID key used by library files:
// "n::entryID::name::version::solvent".
func CompositeID(n int, entryID, name, version, solvent string) string {
	return strings.Join([]string{fmt.Sprint(n), entryID, name, version, solvent}, "::")
}

// BuildEntry expands atom shifts and bonds into a reference entry. Each bond
// becomes a pair of ends whose coordinates are every (v1, v1+v2) combination
// of the two atoms' shifts, with dq rounded to three decimals. Bonds naming
// an atom without shifts are dropped. Bonds are emitted grouped by the first
// atom, in name order, that they touch.
func BuildEntry(id, name, version, solvent string, shifts map[string][]float64, bonds [][2]string) (Entry, error) {
	entry := Entry{
		Name:           name,
		ID:             id,
		Version:        version,
		Solvent:        solvent,
		ChemicalShifts: shifts,
	}
	if len(shifts) == 0 {
		return entry, fmt.Errorf("%w: %s has no chemical shifts", ErrMalformed, id)
	}
	for _, bond := range bonds {
		if len(shifts[bond[0]]) == 0 || len(shifts[bond[1]]) == 0 {
			continue
		}
		entry.Bonds = append(entry.Bonds, bond)
	}

	used := make([]bool, len(entry.Bonds))
	for _, atom := range entry.Atoms() {
		for i, bond := range entry.Bonds {
			if used[i] || (bond[0] != atom && bond[1] != atom) {
				continue
			}
			used[i] = true
			entry.Networks = append(entry.Networks, Bond{
				{Atom: bond[0], Coords: expand(shifts[bond[0]], shifts[bond[1]])},
				{Atom: bond[1], Coords: expand(shifts[bond[1]], shifts[bond[0]])},
			})
		}
	}

	multi := 0
	for _, values := range shifts {
		if len(values) > 1 {
			multi++
		}
	}
	entry.Ambiguity = peaks.RoundTo(float64(multi)/float64(len(shifts)), 3)
	return entry, entry.Validate()
}

func expand(own, partner []float64) []peaks.Point {
	out := make([]peaks.Point, 0, len(own)*len(partner))
	for _, v1 := range own {
		for _, v2 := range partner {
			out = append(out, peaks.Point{CS: v1, DQ: peaks.RoundTo(v1+v2, 3)})
		}
	}
	return out
}

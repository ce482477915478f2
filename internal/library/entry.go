package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"ineta/internal/peaks"
)

// BondEnd is one side of a reference bond: the atom name and every (cs, dq)
// coordinate observed for it. It is encoded as [atom, [[cs, dq], ...]].
type BondEnd struct {
	Atom   string
	Coords []peaks.Point
}

func (b BondEnd) MarshalJSON() ([]byte, error) {
	coords := b.Coords
	if coords == nil {
		coords = []peaks.Point{}
	}
	return json.Marshal([]any{b.Atom, coords})
}

func (b *BondEnd) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("bond end: want [atom, coords], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &b.Atom); err != nil {
		return fmt.Errorf("bond end atom: %w", err)
	}
	if err := json.Unmarshal(raw[1], &b.Coords); err != nil {
		return fmt.Errorf("bond end coords: %w", err)
	}
	return nil
}

// Bond is one reference edge.
type Bond [2]BondEnd

// Entry is one reference compound record.
type Entry struct {
	Name           string               `json:"BMRBName"`
	ID             string               `json:"InternalID"`
	Version        string               `json:"Version"`
	Solvent        string               `json:"Solvent"`
	ChemicalShifts map[string][]float64 `json:"ChemicalShifts"`
	Bonds          [][2]string          `json:"Bonds"`
	Networks       []Bond               `json:"Networks"`
	Ambiguity      float64              `json:"Ambiguity"`
}

// ErrMalformed marks an entry that lacks what scoring needs.
var ErrMalformed = errors.New("library: malformed entry")

// Validate reports whether e carries every field the matcher reads.
func (e Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: missing InternalID", ErrMalformed)
	}
	if len(e.ChemicalShifts) == 0 {
		return fmt.Errorf("%w: %s has no chemical shifts", ErrMalformed, e.ID)
	}
	for atom, shifts := range e.ChemicalShifts {
		if len(shifts) == 0 {
			return fmt.Errorf("%w: %s atom %s has no shifts", ErrMalformed, e.ID, atom)
		}
	}
	for i, bond := range e.Networks {
		for _, end := range bond {
			if end.Atom == "" {
				return fmt.Errorf("%w: %s bond %d has an unnamed atom", ErrMalformed, e.ID, i)
			}
		}
	}
	if e.Ambiguity < 0 || e.Ambiguity > 1 {
		return fmt.Errorf("%w: %s ambiguity %v outside [0, 1]", ErrMalformed, e.ID, e.Ambiguity)
	}
	return nil
}

// Atoms returns the atom names in sorted order.
func (e Entry) Atoms() []string {
	atoms := make([]string, 0, len(e.ChemicalShifts))
	for atom := range e.ChemicalShifts {
		atoms = append(atoms, atom)
	}
	sort.Strings(atoms)
	return atoms
}

// AtomShift is the mean observed shift of one atom.
type AtomShift struct {
	Atom string
	Mean float64
}

// MeanShifts returns the mean observed shift of every atom, ordered by atom
// name.
func (e Entry) MeanShifts() []AtomShift {
	atoms := e.Atoms()
	out := make([]AtomShift, len(atoms))
	for i, atom := range atoms {
		out[i] = AtomShift{Atom: atom, Mean: stat.Mean(e.ChemicalShifts[atom], nil)}
	}
	return out
}

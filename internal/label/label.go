// Package label defines the three-state secondary-structure alphabet and
// label sequences over it.
package label

import "fmt"

// Label is a single three-state secondary-structure class.
type Label byte

const (
	// Helix covers DSSP classes H, G and I.
	Helix Label = 'H'

	// Strand covers DSSP classes E and B.
	Strand Label = 'E'

	// Coil is everything else (turns, bends, unassigned).
	Coil Label = '-'
)

// NumClasses is the size of the three-state alphabet.
const NumClasses = 3

// Classes lists the alphabet in code order (H=0, E=1, -=2).
var Classes = [NumClasses]Label{Helix, Strand, Coil}

// Valid reports whether l is one of the three recognized classes.
func (l Label) Valid() bool {
	return l == Helix || l == Strand || l == Coil
}

// Code returns the fixed integer code for the label: H=0, E=1, -=2.
// Panics on an unknown label; validate at the parse boundary instead.
func (l Label) Code() int {
	switch l {
	case Helix:
		return 0
	case Strand:
		return 1
	case Coil:
		return 2
	}
	panic(fmt.Sprintf("label: unknown label %q", byte(l)))
}

// FromCode is the inverse of Code.
func FromCode(code int) (Label, error) {
	if code < 0 || code >= NumClasses {
		return 0, fmt.Errorf("label: code %d out of range [0,%d)", code, NumClasses)
	}
	return Classes[code], nil
}

func (l Label) String() string {
	return string(byte(l))
}

// Sequence is an ordered run of labels, one per residue.
type Sequence []Label

// Parse validates s against the three-state alphabet and converts it to a
// Sequence. Any character outside {H, E, -} is an error; callers that accept
// alias characters (such as C for coil) must normalize before parsing.
func Parse(s string) (Sequence, error) {
	seq := make(Sequence, len(s))
	for i := 0; i < len(s); i++ {
		l := Label(s[i])
		if !l.Valid() {
			return nil, fmt.Errorf("label: unknown label %q at position %d", s[i], i)
		}
		seq[i] = l
	}
	return seq, nil
}

// FromCodes converts a slice of integer class codes to a Sequence.
func FromCodes(codes []int) (Sequence, error) {
	seq := make(Sequence, len(codes))
	for i, c := range codes {
		l, err := FromCode(c)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		seq[i] = l
	}
	return seq, nil
}

// Codes returns the sequence as integer class codes.
func (s Sequence) Codes() []int {
	codes := make([]int, len(s))
	for i, l := range s {
		codes[i] = l.Code()
	}
	return codes
}

func (s Sequence) String() string {
	b := make([]byte, len(s))
	for i, l := range s {
		b[i] = byte(l)
	}
	return string(b)
}

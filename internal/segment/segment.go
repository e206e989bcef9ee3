// Package segment extracts contiguous same-label runs from a label sequence.
package segment

import "github.com/githubz0r/ss-pred/internal/label"

// Segment represents a maximal run of identical labels.
// Start and End are 0-based inclusive residue positions.
type Segment struct {
	// Label is the structural class shared by every position in the run
	Label label.Label

	// Start is the first residue position of the run
	Start int

	// End is the last residue position of the run
	End int
}

// Len returns the number of residues the segment covers.
func (s Segment) Len() int {
	return s.End - s.Start + 1
}

// Overlap returns the number of positions shared by s and o.
func (s Segment) Overlap(o Segment) int {
	lo := max(s.Start, o.Start)
	hi := min(s.End, o.End)
	if hi < lo {
		return 0
	}
	return hi - lo + 1
}

// Union returns the number of positions covered by the span of s and o,
// from the leftmost start to the rightmost end. For overlapping segments
// this equals |P1 ∪ P2|, which is the quantity the SOV normalization uses.
func (s Segment) Union(o Segment) int {
	lo := min(s.Start, o.Start)
	hi := max(s.End, o.End)
	return hi - lo + 1
}

// Groups holds the extracted segments of a sequence, keyed by class,
// in left-to-right order within each class.
type Groups map[label.Label][]Segment

// Extract scans seq left to right and collects each maximal run of identical
// labels as one Segment. The returned groups always contain an entry for all
// three classes; classes absent from seq map to empty lists.
func Extract(seq label.Sequence) Groups {
	groups := Groups{
		label.Helix:  {},
		label.Strand: {},
		label.Coil:   {},
	}

	for start := 0; start < len(seq); {
		end := start
		for end+1 < len(seq) && seq[end+1] == seq[start] {
			end++
		}
		l := seq[start]
		groups[l] = append(groups[l], Segment{Label: l, Start: start, End: end})
		start = end + 1
	}

	return groups
}

// TotalLength returns the summed length of all segments across all classes.
// For groups extracted from a sequence of length N this is exactly N.
func (g Groups) TotalLength() int {
	total := 0
	for _, segs := range g {
		for _, s := range segs {
			total += s.Len()
		}
	}
	return total
}

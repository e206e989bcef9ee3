// Package score implements the Q3 residue accuracy and Segment Overlap (SOV)
// metrics for three-state secondary-structure predictions.
//
// SOV follows the segment-based definition from Zemla et al. (1999): each
// reference segment is compared against every predicted segment of the same
// class, overlapping pairs earn length-weighted credit with a bounded
// allowance for boundary slippage, and the total is normalized by the summed
// reference segment lengths across all three classes.
package score

import (
	"errors"
	"fmt"

	"github.com/githubz0r/ss-pred/internal/label"
	"github.com/githubz0r/ss-pred/internal/segment"
)

var (
	// ErrLengthMismatch means the reference and prediction differ in length.
	// The caller must fix alignment or padding upstream.
	ErrLengthMismatch = errors.New("score: sequence length mismatch")

	// ErrEmptySequence means both sequences are empty, leaving the metric
	// with a zero denominator.
	ErrEmptySequence = errors.New("score: empty sequence")
)

func check(ref, pred label.Sequence) error {
	if len(ref) != len(pred) {
		return fmt.Errorf("%w: reference %d vs prediction %d", ErrLengthMismatch, len(ref), len(pred))
	}
	if len(ref) == 0 {
		return ErrEmptySequence
	}
	return nil
}

// Q3 returns the fraction of positions where pred agrees with ref.
func Q3(ref, pred label.Sequence) (float64, error) {
	if err := check(ref, pred); err != nil {
		return 0, err
	}

	matches := 0
	for i := range ref {
		if ref[i] == pred[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(ref)), nil
}

// SOV returns the segment overlap score of pred against ref.
//
// For every same-class pair (s1 from ref, s2 from pred) that overlaps, the
// pair contributes len(s1) * (overlap + delta) / union, where delta is the
// smallest of the non-overlapping extent, the overlap itself, and half the
// length of each segment. The sum is divided by the total length of all
// reference segments, so the score is not symmetric: ref alone drives the
// denominator.
func SOV(ref, pred label.Sequence) (float64, error) {
	if err := check(ref, pred); err != nil {
		return 0, err
	}

	refGroups := segment.Extract(ref)
	predGroups := segment.Extract(pred)

	var sum float64
	var n int

	for _, class := range label.Classes {
		predSegs := predGroups[class]
		for _, s1 := range refGroups[class] {
			// Every reference segment counts toward the denominator,
			// matched or not.
			n += s1.Len()

			for _, s2 := range predSegs {
				overlap := s1.Overlap(s2)
				if overlap == 0 {
					continue
				}
				union := s1.Union(s2)
				delta := minOf(union-overlap, overlap, s1.Len()/2, s2.Len()/2)
				sum += float64(s1.Len()) * float64(overlap+delta) / float64(union)
			}
		}
	}

	return sum / float64(n), nil
}

func minOf(first int, rest ...int) int {
	m := first
	for _, v := range rest {
		if v < m {
			m = v
		}
	}
	return m
}

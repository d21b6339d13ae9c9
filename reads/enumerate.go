package reads

import (
	"github.com/kaeldai/novo-muta/genotype"
)

const (
	// UniverseCoverage is the per-individual coverage the simulation
	// universe is built at.
	UniverseCoverage = 4
	// UniverseSize is the number of trios in the simulation universe:
	// the cube of the 35 distinct count vectors at coverage 4.
	UniverseSize = 35 * 35 * 35
)

// EnumerateCounts expands every ordered outcome of coverage reads into
// a count vector. The result has 4^coverage entries and contains
// duplicates; use UniqueCounts for the deduplicated set.
func EnumerateCounts(coverage int) []Count {
	if coverage <= 0 {
		return []Count{{}}
	}
	prev := EnumerateCounts(coverage - 1)
	out := make([]Count, 0, len(prev)*genotype.NumNucleotides)
	for _, c := range prev {
		for a := 0; a < genotype.NumNucleotides; a++ {
			n := c
			n[a]++
			out = append(out, n)
		}
	}
	return out
}

// UniqueCounts returns the distinct count vectors at the given
// coverage in order of first appearance. There are
// binomial(coverage+3, 3) of them.
func UniqueCounts(coverage int) []Count {
	all := EnumerateCounts(coverage)
	seen := make(map[uint64]bool, len(all))
	uniq := make([]Count, 0)
	for _, c := range all {
		k := c.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		uniq = append(uniq, c)
	}
	return uniq
}

// EnumerateTrios returns the cube of the unique count vectors at the
// given coverage, child-major.
func EnumerateTrios(coverage int) []Trio {
	uniq := UniqueCounts(coverage)
	out := make([]Trio, 0, len(uniq)*len(uniq)*len(uniq))
	for _, c := range uniq {
		for _, m := range uniq {
			for _, f := range uniq {
				out = append(out, Trio{c, m, f})
			}
		}
	}
	return out
}

// Universe is the fixed list of all read-count trios at
// UniverseCoverage. The simulator aggregates per-trio mutation counts
// by position in this list.
type Universe struct {
	trios []Trio
}

// NewUniverse enumerates the universe.
func NewUniverse() *Universe {
	return &Universe{trios: EnumerateTrios(UniverseCoverage)}
}

// Len returns the number of trios in the universe.
func (u *Universe) Len() int {
	return len(u.trios)
}

// At returns the trio at position i.
func (u *Universe) At(i int) Trio {
	return u.trios[i]
}

// Index returns the position of t in the universe, scanning linearly
// with position-wise equality, or -1 when t is not part of the
// universe (for example when its coverage differs).
func (u *Universe) Index(t Trio) int {
	for i, c := range u.trios {
		if c == t {
			return i
		}
	}
	return -1
}

// Package reads defines nucleotide read-count data for a single site:
// per-individual ACGT counts, child/mother/father triples, exhaustive
// enumeration of count vectors at a given coverage and the fixed trio
// universe used by the simulation tools.
package reads

import (
	"fmt"

	"github.com/kaeldai/novo-muta/genotype"
)

// Individual positions within a Trio.
const (
	Child = iota
	Mother
	Father
	// NumIndividuals is the number of individuals in a trio.
	NumIndividuals
)

// Count holds the number of reads supporting each nucleotide at one
// site for one individual, in genotype.Alphabet order.
type Count [genotype.NumNucleotides]uint16

// Trio holds the read counts of a child/mother/father triple at one
// site.
type Trio [NumIndividuals]Count

// Key packs the four counts into a single comparable 64-bit value.
func (c Count) Key() uint64 {
	return uint64(c[0]) | uint64(c[1])<<16 | uint64(c[2])<<32 | uint64(c[3])<<48
}

// Sum returns the total number of reads (the coverage).
func (c Count) Sum() int {
	s := 0
	for _, n := range c {
		s += int(n)
	}
	return s
}

// String formats the counts as four space-separated numbers in
// alphabet order.
func (c Count) String() string {
	return fmt.Sprintf("%d %d %d %d", c[0], c[1], c[2], c[3])
}

// Package trio implements the probability model for de novo mutations
// in child/mother/father read data: transition matrix construction,
// tree peeling over the pedigree, expectation extraction and
// closed-form maximization of the mutation and error rates.
package trio

import (
	"github.com/op/go-logging"

	"github.com/kaeldai/novo-muta/genotype"
	"github.com/kaeldai/novo-muta/reads"
)

// log is a global logging variable.
var log = logging.MustGetLogger("trio")

// countFloats converts a read count vector into the float slice the
// distribution functions take.
func countFloats(c reads.Count) []float64 {
	f := make([]float64, genotype.NumNucleotides)
	for i, n := range c {
		f[i] = float64(n)
	}
	return f
}

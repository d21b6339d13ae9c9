package trio

import (
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"

	"github.com/kaeldai/novo-muta/dist"
	"github.com/kaeldai/novo-muta/genotype"
)

// KroneckerVec returns the Kronecker product of two vectors; entry
// i*len(v)+j is u[i]*v[j].
func KroneckerVec(u, v []float64) []float64 {
	out := make([]float64, len(u)*len(v))
	for i, x := range u {
		row := out[i*len(v) : (i+1)*len(v)]
		for j, y := range v {
			row[j] = x * y
		}
	}
	return out
}

// KroneckerSquare returns the Kronecker product of an r x c matrix
// with itself: an r^2 x c^2 matrix with entry
// (i*r+k, j*c+l) = m(i,j)*m(k,l). Applied to a per-allele operator it
// yields the genotype-level operator under independent allele
// evolution.
func KroneckerSquare(m *mat64.Dense) *mat64.Dense {
	r, c := m.Dims()
	out := mat64.NewDense(r*r, c*c, nil)
	for i := 0; i < r; i++ {
		for k := 0; k < r; k++ {
			row := out.RawRowView(i*r + k)
			krow := m.RawRowView(k)
			for j := 0; j < c; j++ {
				mij := m.At(i, j)
				if mij == 0 {
					continue
				}
				for l := 0; l < c; l++ {
					row[j*c+l] = mij * krow[l]
				}
			}
		}
	}
	return out
}

// somaticSingle builds the 4x4 per-allele somatic transition matrix:
// an allele is unchanged with probability 1-rate and mutates to each
// of the other three nucleotides with probability rate/3.
func somaticSingle(rate float64) *mat64.Dense {
	m := mat64.NewDense(genotype.NumNucleotides, genotype.NumNucleotides, nil)
	for i := 0; i < genotype.NumNucleotides; i++ {
		row := m.RawRowView(i)
		for j := 0; j < genotype.NumNucleotides; j++ {
			if i == j {
				row[j] = 1 - rate
			} else {
				row[j] = rate / 3
			}
		}
	}
	return m
}

// SubstitutionMatrix builds the 16x16 genotype substitution kernel at
// the given per-allele rate: the Kronecker square of the per-allele
// matrix. The somatic transition is this kernel at the somatic rate,
// and conditioned on the Mendelian assembly the germline transmission
// is this kernel at the germline rate.
func SubstitutionMatrix(rate float64) *mat64.Dense {
	return KroneckerSquare(somaticSingle(rate))
}

// somaticTransition builds the somatic matrix; with noMutation only
// the diagonal (mutation-free) entries are kept.
func somaticTransition(rate float64, noMutation bool) *mat64.Dense {
	full := SubstitutionMatrix(rate)
	if !noMutation {
		return full
	}
	diag := mat64.NewDense(genotype.NumGenotypes, genotype.NumGenotypes, nil)
	for g := 0; g < genotype.NumGenotypes; g++ {
		diag.Set(g, g, full.At(g, g))
	}
	return diag
}

// germlineSingle builds the 4x16 single-parent germline matrix: entry
// (a, p) is the probability that a parent with genotype p transmits
// allele a. Each parental allele is chosen with probability 1/2 and
// then passed unchanged with probability 1-rate or mutated to each
// other nucleotide with probability rate/3. With noMutation only the
// unmutated paths are kept.
func germlineSingle(rate float64, noMutation bool) *mat64.Dense {
	m := mat64.NewDense(genotype.NumNucleotides, genotype.NumGenotypes, nil)
	for a := 0; a < genotype.NumNucleotides; a++ {
		row := m.RawRowView(a)
		for p := 0; p < genotype.NumGenotypes; p++ {
			prob := 0.0
			for _, pa := range genotype.Table[p] {
				if a == pa {
					prob += 0.5 * (1 - rate)
				} else if !noMutation {
					prob += 0.5 * rate / 3
				}
			}
			row[p] = prob
		}
	}
	return m
}

// germlineTransition builds the 16x256 two-parent germline matrix:
// entry (c, pp) is the probability that the ordered parent pair pp
// produces child genotype c, the child's first allele coming from the
// mother and the second from the father.
func germlineTransition(rate float64, noMutation bool) *mat64.Dense {
	return KroneckerSquare(germlineSingle(rate, noMutation))
}

// alphaMatrix builds the 16x4 Dirichlet pseudocount matrix: row g
// holds the dispersion-scaled expected nucleotide frequencies of
// reads from genotype g under the given sequencing error rate.
func alphaMatrix(errorRate, dispersion float64) *mat64.Dense {
	m := mat64.NewDense(genotype.NumGenotypes, genotype.NumNucleotides, nil)
	for g := 0; g < genotype.NumGenotypes; g++ {
		row := m.RawRowView(g)
		for a := 0; a < genotype.NumNucleotides; a++ {
			row[a] = errorRate / 3
		}
		if genotype.IsHomozygous(g) {
			row[genotype.Table[g][0]] = 1 - errorRate
		} else {
			row[genotype.Table[g][0]] = 0.5 - errorRate/3
			row[genotype.Table[g][1]] = 0.5 - errorRate/3
		}
		floats.Scale(dispersion, row)
	}
	return m
}

// genotypePriors builds the 16-entry prior over ordered genotypes as
// a Dirichlet-multinomial over the two allele draws with pseudocounts
// theta*frequencies; the entries sum to one.
func genotypePriors(theta float64, freqs []float64) []float64 {
	alpha := make([]float64, len(freqs))
	for i, f := range freqs {
		alpha[i] = theta * f
	}
	pr := make([]float64, genotype.NumGenotypes)
	for g := range pr {
		pr[g] = math.Exp(dist.DirichletMultinomialLogProb(alpha, genotype.AlleleCounts[g][:]))
	}
	return pr
}

package trio

import (
	"math"

	"github.com/gonum/matrix/mat64"

	"github.com/kaeldai/novo-muta/genotype"
	"github.com/kaeldai/novo-muta/reads"
)

// HomozygousMatches returns per genotype the number of reads
// supporting the duplicated allele; zero for heterozygous genotypes.
func HomozygousMatches(c reads.Count) []float64 {
	out := make([]float64, genotype.NumGenotypes)
	for g := range out {
		if genotype.IsHomozygous(g) {
			out[g] = float64(c[genotype.Table[g][0]])
		}
	}
	return out
}

// HeterozygousMatches returns per genotype the number of reads
// supporting either of the two alleles; zero for homozygous
// genotypes.
func HeterozygousMatches(c reads.Count) []float64 {
	out := make([]float64, genotype.NumGenotypes)
	for g := range out {
		if !genotype.IsHomozygous(g) {
			out[g] = float64(c[genotype.Table[g][0]]) + float64(c[genotype.Table[g][1]])
		}
	}
	return out
}

// Mismatches returns per genotype the number of reads supporting
// neither allele.
func Mismatches(c reads.Count) []float64 {
	out := make([]float64, genotype.NumGenotypes)
	for g := range out {
		n := 0.0
		for a := 0; a < genotype.NumNucleotides; a++ {
			if a != genotype.Table[g][0] && a != genotype.Table[g][1] {
				n += float64(c[a])
			}
		}
		out[g] = n
	}
	return out
}

// SomaticMutationCounts returns the 16x16 matrix whose (x, y) entry
// is the number of allele changes between somatic origin x and
// target y.
func SomaticMutationCounts() *mat64.Dense {
	m := mat64.NewDense(genotype.NumGenotypes, genotype.NumGenotypes, nil)
	for x := 0; x < genotype.NumGenotypes; x++ {
		row := m.RawRowView(x)
		for y := 0; y < genotype.NumGenotypes; y++ {
			row[y] = float64(genotype.Distance(x, y))
		}
	}
	return m
}

// GermlineMutationCountsSingle returns the 4x16 matrix whose (a, p)
// entry is the expected number of germline mutations when a parent
// with genotype p transmits allele a: the fraction of the
// transmission probability not carried by mutation-free paths.
func (m *TrioModel) GermlineMutationCountsSingle() *mat64.Dense {
	full := m.GermlineSingle(false)
	noMut := m.GermlineSingle(true)
	out := mat64.NewDense(genotype.NumNucleotides, genotype.NumGenotypes, nil)
	for a := 0; a < genotype.NumNucleotides; a++ {
		row := out.RawRowView(a)
		frow := full.RawRowView(a)
		nrow := noMut.RawRowView(a)
		for p := 0; p < genotype.NumGenotypes; p++ {
			if frow[p] > 0 {
				row[p] = 1 - nrow[p]/frow[p]
			}
		}
	}
	return out
}

// GermlineMutationCounts expands the single-parent counts to
// parent-pair space: the mother and father transmissions contribute
// additively, the child's first allele coming from the mother and the
// second from the father.
func (m *TrioModel) GermlineMutationCounts() *mat64.Dense {
	single := m.GermlineMutationCountsSingle()
	out := mat64.NewDense(genotype.NumGenotypes, genotype.NumParentPairs, nil)
	for c := 0; c < genotype.NumGenotypes; c++ {
		row := out.RawRowView(c)
		r1 := single.RawRowView(genotype.Table[c][0])
		r2 := single.RawRowView(genotype.Table[c][1])
		for pp := 0; pp < genotype.NumParentPairs; pp++ {
			row[pp] = r1[genotype.PairMother(pp)] + r2[genotype.PairFather(pp)]
		}
	}
	return out
}

// branchWeights returns for one individual the per-zygote numerators
// sum_y somatic(x,y)*stat[y]*seq[y] of the branch expectation
// E[stat | zygote x]; dividing by the zygotic likelihood completes
// the conditioning.
func branchWeights(somatic *mat64.Dense, stat, seq []float64) []float64 {
	out := make([]float64, genotype.NumGenotypes)
	for x := 0; x < genotype.NumGenotypes; x++ {
		srow := somatic.RawRowView(x)
		s := 0.0
		for y := 0; y < genotype.NumGenotypes; y++ {
			s += srow[y] * stat[y] * seq[y]
		}
		out[x] = s
	}
	return out
}

// somaticBranchWeights is branchWeights with the statistic attached
// to the transition itself rather than to the target genotype.
func somaticBranchWeights(somatic, counts *mat64.Dense, seq []float64) []float64 {
	out := make([]float64, genotype.NumGenotypes)
	for x := 0; x < genotype.NumGenotypes; x++ {
		srow := somatic.RawRowView(x)
		crow := counts.RawRowView(x)
		s := 0.0
		for y := 0; y < genotype.NumGenotypes; y++ {
			s += srow[y] * crow[y] * seq[y]
		}
		out[x] = s
	}
	return out
}

// propagate combines the per-individual branch weights into one
// trio-wide expectation: each branch is conditioned on its zygote,
// the child branch is lifted to parent-pair space through the
// germline matrix, and parent pairs are weighted by the root
// posterior.
func propagate(d *ReadDependentData, germline *mat64.Dense, cw, mw, fw []float64) float64 {
	den := &d.Denominator
	childAt := make([]float64, genotype.NumParentPairs)
	for x := 0; x < genotype.NumGenotypes; x++ {
		w := cw[x]
		if w == 0 {
			continue
		}
		grow := germline.RawRowView(x)
		for pp := range childAt {
			childAt[pp] += grow[pp] * w
		}
	}

	total := 0.0
	for pp, r := range den.Root {
		if r == 0 {
			continue
		}
		e := 0.0
		if den.ChildGermline[pp] > 0 {
			e += childAt[pp] / den.ChildGermline[pp]
		}
		mIdx := genotype.PairMother(pp)
		fIdx := genotype.PairFather(pp)
		if den.Mother[mIdx] > 0 {
			e += mw[mIdx] / den.Mother[mIdx]
		}
		if den.Father[fIdx] > 0 {
			e += fw[fIdx] / den.Father[fIdx]
		}
		total += r / den.Sum * e
	}
	return total
}

func (m *TrioModel) seqStatistic(d *ReadDependentData, vec func(reads.Count) []float64) float64 {
	if d.Degenerate() {
		return math.NaN()
	}
	somatic := m.SomaticTransition(false)
	cw := branchWeights(somatic, vec(d.Reads[reads.Child]), d.SeqLik.RawRowView(reads.Child))
	mw := branchWeights(somatic, vec(d.Reads[reads.Mother]), d.SeqLik.RawRowView(reads.Mother))
	fw := branchWeights(somatic, vec(d.Reads[reads.Father]), d.SeqLik.RawRowView(reads.Father))
	return propagate(d, m.GermlineTransition(false), cw, mw, fw)
}

// HomozygousStatistic returns the expected number of reads agreeing
// with a homozygous underlying genotype, over all three individuals.
func (m *TrioModel) HomozygousStatistic(d *ReadDependentData) float64 {
	return m.seqStatistic(d, HomozygousMatches)
}

// HeterozygousStatistic returns the expected number of reads agreeing
// with either allele of a heterozygous underlying genotype.
func (m *TrioModel) HeterozygousStatistic(d *ReadDependentData) float64 {
	return m.seqStatistic(d, HeterozygousMatches)
}

// MismatchStatistic returns the expected number of reads disagreeing
// with the underlying genotype.
func (m *TrioModel) MismatchStatistic(d *ReadDependentData) float64 {
	return m.seqStatistic(d, Mismatches)
}

// SomaticStatistic returns the expected number of somatic mutations
// in the whole trio given the reads.
func (m *TrioModel) SomaticStatistic(d *ReadDependentData) float64 {
	if d.Degenerate() {
		return math.NaN()
	}
	somatic := m.SomaticTransition(false)
	counts := SomaticMutationCounts()
	cw := somaticBranchWeights(somatic, counts, d.SeqLik.RawRowView(reads.Child))
	mw := somaticBranchWeights(somatic, counts, d.SeqLik.RawRowView(reads.Mother))
	fw := somaticBranchWeights(somatic, counts, d.SeqLik.RawRowView(reads.Father))
	return propagate(d, m.GermlineTransition(false), cw, mw, fw)
}

// GermlineStatistic returns the expected number of germline mutations
// in the two transmissions to the child given the reads.
func (m *TrioModel) GermlineStatistic(d *ReadDependentData) float64 {
	if d.Degenerate() {
		return math.NaN()
	}
	den := &d.Denominator
	counts := m.GermlineMutationCounts()
	germline := m.GermlineTransition(false)
	weighted := make([]float64, genotype.NumParentPairs)
	for x := 0; x < genotype.NumGenotypes; x++ {
		cx := den.Child[x]
		if cx == 0 {
			continue
		}
		grow := germline.RawRowView(x)
		crow := counts.RawRowView(x)
		for pp := range weighted {
			weighted[pp] += grow[pp] * crow[pp] * cx
		}
	}

	total := 0.0
	for pp, r := range den.Root {
		if r == 0 || den.ChildGermline[pp] == 0 {
			continue
		}
		total += r / den.Sum * weighted[pp] / den.ChildGermline[pp]
	}
	return total
}

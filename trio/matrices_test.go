package trio

import (
	"math"
	"testing"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
	"github.com/op/go-logging"

	"github.com/kaeldai/novo-muta/genotype"
)

const smallDiff = 1e-12

func init() {
	logging.SetLevel(logging.WARNING, "trio")
	logging.SetLevel(logging.WARNING, "optimize")
	logging.SetLevel(logging.WARNING, "checkpoint")
}

func TestKroneckerVec(tst *testing.T) {
	u := []float64{1, 2}
	v := []float64{3, 5, 7}
	got := KroneckerVec(u, v)
	want := []float64{3, 5, 7, 6, 10, 14}
	if !floats.EqualApprox(got, want, smallDiff) {
		tst.Error("Expected ", want, ", got ", got)
	}
}

func TestKroneckerSquare(tst *testing.T) {
	m := mat64.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	k := KroneckerSquare(m)
	r, c := k.Dims()
	if r != 4 || c != 9 {
		tst.Fatal("Expected 4x9, got ", r, "x", c)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for x := 0; x < 2; x++ {
				for y := 0; y < 3; y++ {
					want := m.At(i, j) * m.At(x, y)
					got := k.At(i*2+x, j*3+y)
					if math.Abs(got-want) > smallDiff {
						tst.Error("Entry (", i, j, x, y, "): expected ", want, ", got ", got)
					}
				}
			}
		}
	}
}

func TestSomaticStochastic(tst *testing.T) {
	for _, rate := range []float64{0, 1e-8, 0.25, 1} {
		single := somaticSingle(rate)
		for i := 0; i < genotype.NumNucleotides; i++ {
			if s := floats.Sum(single.RawRowView(i)); math.Abs(s-1) > smallDiff {
				tst.Error("rate=", rate, ": allele row ", i, " sums to ", s)
			}
		}
		full := somaticTransition(rate, false)
		for g := 0; g < genotype.NumGenotypes; g++ {
			if s := floats.Sum(full.RawRowView(g)); math.Abs(s-1) > smallDiff {
				tst.Error("rate=", rate, ": genotype row ", g, " sums to ", s)
			}
		}
	}
}

func TestSomaticNoMutation(tst *testing.T) {
	rate := 0.1
	full := somaticTransition(rate, false)
	diag := somaticTransition(rate, true)
	for x := 0; x < genotype.NumGenotypes; x++ {
		for y := 0; y < genotype.NumGenotypes; y++ {
			if x == y {
				want := (1 - rate) * (1 - rate)
				if math.Abs(diag.At(x, y)-want) > smallDiff {
					tst.Error("Diagonal entry ", x, ": expected ", want, ", got ", diag.At(x, y))
				}
				continue
			}
			if diag.At(x, y) != 0 {
				tst.Error("Off-diagonal entry (", x, y, ") should be zero")
			}
			if diag.At(x, x) > full.At(x, x)+smallDiff {
				tst.Error("Mutation-free restriction exceeds the full matrix")
			}
		}
	}
	// With rate zero the somatic step is the identity.
	ident := somaticTransition(0, false)
	for x := 0; x < genotype.NumGenotypes; x++ {
		for y := 0; y < genotype.NumGenotypes; y++ {
			want := 0.0
			if x == y {
				want = 1
			}
			if math.Abs(ident.At(x, y)-want) > smallDiff {
				tst.Error("rate=0 entry (", x, y, "): expected ", want, ", got ", ident.At(x, y))
			}
		}
	}
}

func TestGermlineStochastic(tst *testing.T) {
	for _, rate := range []float64{0, 2e-8, 0.3, 1} {
		single := germlineSingle(rate, false)
		// Given the parent genotype, the transmitted allele
		// distribution sums to one (columns).
		for p := 0; p < genotype.NumGenotypes; p++ {
			s := 0.0
			for a := 0; a < genotype.NumNucleotides; a++ {
				s += single.At(a, p)
			}
			if math.Abs(s-1) > smallDiff {
				tst.Error("rate=", rate, ": parent ", genotype.Names[p], " column sums to ", s)
			}
		}
		full := germlineTransition(rate, false)
		for pp := 0; pp < genotype.NumParentPairs; pp++ {
			s := 0.0
			for c := 0; c < genotype.NumGenotypes; c++ {
				s += full.At(c, pp)
			}
			if math.Abs(s-1) > smallDiff {
				tst.Error("rate=", rate, ": parent pair ", pp, " column sums to ", s)
			}
		}
	}
}

func TestGermlineMendelian(tst *testing.T) {
	// Without mutation an AA x AA pair can only produce AA.
	g := germlineTransition(0, false)
	aa := genotype.FromAlleles(0, 0)
	pp := genotype.PairIndex(aa, aa)
	for c := 0; c < genotype.NumGenotypes; c++ {
		want := 0.0
		if c == aa {
			want = 1
		}
		if math.Abs(g.At(c, pp)-want) > smallDiff {
			tst.Error("AAxAA -> ", genotype.Names[c], ": expected ", want, ", got ", g.At(c, pp))
		}
	}
	// AC x AC transmits each allele with probability 1/2.
	ac := genotype.FromAlleles(0, 1)
	pp = genotype.PairIndex(ac, ac)
	for _, c := range []int{genotype.FromAlleles(0, 0), genotype.FromAlleles(0, 1),
		genotype.FromAlleles(1, 0), genotype.FromAlleles(1, 1)} {
		if math.Abs(g.At(c, pp)-0.25) > smallDiff {
			tst.Error("ACxAC -> ", genotype.Names[c], ": expected 0.25, got ", g.At(c, pp))
		}
	}
	// The no-mutation restriction never exceeds the full matrix.
	rate := 0.01
	full := germlineTransition(rate, false)
	noMut := germlineTransition(rate, true)
	for c := 0; c < genotype.NumGenotypes; c++ {
		for pp := 0; pp < genotype.NumParentPairs; pp++ {
			if noMut.At(c, pp) > full.At(c, pp)+smallDiff {
				tst.Error("No-mutation entry (", c, pp, ") exceeds the full entry")
			}
		}
	}
}

func TestAlphaMatrix(tst *testing.T) {
	errorRate, dispersion := 0.005, 1000.0
	alphas := alphaMatrix(errorRate, dispersion)
	for g := 0; g < genotype.NumGenotypes; g++ {
		row := alphas.RawRowView(g)
		if s := floats.Sum(row); math.Abs(s-dispersion) > 1e-9 {
			tst.Error("Row ", genotype.Names[g], " sums to ", s, ", expected the dispersion")
		}
	}
	// Homozygous AA concentrates on A.
	aa := genotype.FromAlleles(0, 0)
	if math.Abs(alphas.At(aa, 0)-dispersion*(1-errorRate)) > 1e-9 {
		tst.Error("AA pseudocount for A: got ", alphas.At(aa, 0))
	}
	// Heterozygous AC splits between A and C.
	ac := genotype.FromAlleles(0, 1)
	want := dispersion * (0.5 - errorRate/3)
	if math.Abs(alphas.At(ac, 0)-want) > 1e-9 || math.Abs(alphas.At(ac, 1)-want) > 1e-9 {
		tst.Error("AC pseudocounts: got ", alphas.RawRowView(ac))
	}
}

func TestGenotypePriors(tst *testing.T) {
	p := DefaultParams()
	priors := genotypePriors(p.PopulationMutationRate, p.NucleotideFrequencies)
	if s := floats.Sum(priors); math.Abs(s-1) > smallDiff {
		tst.Error("Genotype priors sum to ", s)
	}
	// With uniform frequencies the prior only depends on
	// homozygosity.
	aa := genotype.FromAlleles(0, 0)
	tt := genotype.FromAlleles(3, 3)
	ac := genotype.FromAlleles(0, 1)
	ca := genotype.FromAlleles(1, 0)
	if math.Abs(priors[aa]-priors[tt]) > smallDiff || math.Abs(priors[ac]-priors[ca]) > smallDiff {
		tst.Error("Uniform frequencies should give symmetric priors: ", priors)
	}
	if priors[aa] <= priors[ac] {
		tst.Error("With small theta homozygous genotypes should dominate: ", priors[aa], priors[ac])
	}
}

func TestPopulationPriors(tst *testing.T) {
	m := NewDefaultTrioModel()
	pair := m.PopulationPriors()
	if s := floats.Sum(pair); math.Abs(s-1) > smallDiff {
		tst.Error("Parent-pair priors sum to ", s)
	}
	single := m.GenotypePriors()
	// Parents are independent draws.
	for _, idx := range []struct{ mo, fa int }{{0, 0}, {3, 7}, {15, 15}} {
		pp := genotype.PairIndex(idx.mo, idx.fa)
		want := single[idx.mo] * single[idx.fa]
		if math.Abs(pair[pp]-want) > smallDiff {
			tst.Error("Pair (", idx.mo, idx.fa, "): expected ", want, ", got ", pair[pp])
		}
	}
	// Marginal allele counts of the pair prior match the combined
	// parental allele counts.
	var fromPairs [genotype.NumNucleotides]float64
	for pp, pr := range pair {
		mo := genotype.PairMother(pp)
		fa := genotype.PairFather(pp)
		for a := 0; a < genotype.NumNucleotides; a++ {
			fromPairs[a] += pr * genotype.PairAlleleCounts[mo][fa][a]
		}
	}
	var fromSingles [genotype.NumNucleotides]float64
	for g, pr := range single {
		for a := 0; a < genotype.NumNucleotides; a++ {
			fromSingles[a] += 2 * pr * genotype.AlleleCounts[g][a]
		}
	}
	for a := 0; a < genotype.NumNucleotides; a++ {
		if math.Abs(fromPairs[a]-fromSingles[a]) > smallDiff {
			tst.Error("Allele ", a, ": pair marginal ", fromPairs[a], " vs ", fromSingles[a])
		}
	}
}

func TestModelCaching(tst *testing.T) {
	m := NewDefaultTrioModel()
	g1 := m.GermlineTransition(false)
	if m.GermlineTransition(false) != g1 {
		tst.Error("Unchanged parameters should reuse the cached matrix")
	}
	m.SetGermlineMutationRate(0.01)
	if m.GermlineTransition(false) == g1 {
		tst.Error("Changing the rate should rebuild the matrix")
	}
	s1 := m.SomaticTransition(false)
	m.SetGermlineMutationRate(0.02)
	if m.SomaticTransition(false) != s1 {
		tst.Error("Germline rate change should not rebuild the somatic matrix")
	}
}

package dist

import (
	"math"
	"testing"

	"github.com/kaeldai/novo-muta/reads"
)

const smallDiff = 1e-6

/*** Tests if a and b are approximately equal ***/
func appreq(a, b float64) bool {
	return math.Abs(a-b) <= smallDiff
}

func TestDirichletMultinomialSingleDraw(tst *testing.T) {
	// One draw from a symmetric Dirichlet is uniform.
	alpha := []float64{1, 1, 1, 1}
	p := math.Exp(DirichletMultinomialLogProb(alpha, []float64{1, 0, 0, 0}))
	if !appreq(p, 0.25) {
		tst.Error("Expected 0.25, got ", p)
	}
	// And proportional to the pseudocounts otherwise.
	alpha = []float64{3, 1, 1, 1}
	p = math.Exp(DirichletMultinomialLogProb(alpha, []float64{1, 0, 0, 0}))
	if !appreq(p, 0.5) {
		tst.Error("Expected 0.5, got ", p)
	}
}

func TestDirichletMultinomialNormalized(tst *testing.T) {
	// Without the multinomial coefficient the probabilities of all
	// ordered draw sequences of a given length sum to one.
	alpha := []float64{0.3, 2.0, 1.0, 0.7}
	for _, coverage := range []int{1, 2, 3} {
		sum := 0.0
		for _, c := range reads.EnumerateCounts(coverage) {
			counts := []float64{float64(c[0]), float64(c[1]), float64(c[2]), float64(c[3])}
			sum += math.Exp(DirichletMultinomialLogProb(alpha, counts))
		}
		tst.Log("coverage=", coverage, " sum=", sum)
		if !appreq(sum, 1) {
			tst.Error("Coverage ", coverage, ": sequence probabilities sum to ", sum)
		}
	}
}

func TestDirichletMultinomialZeroCounts(tst *testing.T) {
	alpha := []float64{2, 2, 2, 2}
	if l := DirichletMultinomialLogProb(alpha, []float64{0, 0, 0, 0}); !appreq(l, 0) {
		tst.Error("Empty observation should have log-probability 0, got ", l)
	}
}

func TestSurvivalChi2(tst *testing.T) {
	// With two degrees of freedom the survival function is exp(-x/2).
	for _, x := range []float64{0.5, 1, 2, 5} {
		got := SurvivalChi2(x, 2)
		want := math.Exp(-x / 2)
		if !appreq(got, want) {
			tst.Error("df=2 x=", x, ": expected ", want, ", got ", got)
		}
	}
	// 95th percentile of chi-square with one degree of freedom.
	if p := SurvivalChi2(3.841459, 1); math.Abs(p-0.05) > 1e-4 {
		tst.Error("Expected 0.05, got ", p)
	}
	if SurvivalChi2(0, 3) != 1 || SurvivalChi2(-1, 3) != 1 {
		tst.Error("Survival at or below zero should be 1")
	}
}

func TestLnBeta(tst *testing.T) {
	// B(1, q) = 1/q
	if l := LnBeta(1, 4); !appreq(l, math.Log(0.25)) {
		tst.Error("Expected log(1/4), got ", l)
	}
	// Symmetry of the Beta function.
	if !appreq(LnBeta(2.5, 0.7), LnBeta(0.7, 2.5)) {
		tst.Error("Beta function should be symmetric")
	}
}

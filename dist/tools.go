// Package dist implements distribution functions for the mutation
// model: the Dirichlet-multinomial likelihood of nucleotide read
// counts and chi-square helpers for the calibration report.
package dist

import (
	"math"

	"github.com/gonum/mathext"
)

/*

DirichletMultinomialLogProb returns the log-probability of the
observed counts under a Dirichlet-multinomial distribution with the
given pseudocounts:

  lgamma(sum a) - lgamma(n + sum a) + sum_i [lgamma(a_i + n_i) - lgamma(a_i)]

The multinomial coefficient is omitted; over ordered draw sequences
the probabilities still sum to one, and the coefficient cancels in
every ratio the model forms.

*/
func DirichletMultinomialLogProb(alpha, counts []float64) float64 {
	sumAlpha := 0.0
	n := 0.0
	for i := range alpha {
		sumAlpha += alpha[i]
		n += counts[i]
	}
	res, _ := math.Lgamma(sumAlpha)
	t, _ := math.Lgamma(n + sumAlpha)
	res -= t
	for i := range alpha {
		t, _ = math.Lgamma(alpha[i] + counts[i])
		res += t
		t, _ = math.Lgamma(alpha[i])
		res -= t
	}
	return res
}

/*

IncompleteGamma returns the incomplete gamma ratio I(x,alpha) where x
is the upper limit of the integration and alpha is the shape
parameter.

*/
func IncompleteGamma(x, alpha float64) (gin float64) {
	return mathext.GammaInc(alpha, x)
}

// SurvivalChi2 returns the upper tail probability P(X > x) for a
// chi-square distribution with df degrees of freedom.
func SurvivalChi2(x, df float64) float64 {
	if x <= 0 {
		return 1
	}
	return 1 - IncompleteGamma(x/2, df/2)
}

// LnBeta returns log of Beta function.
func LnBeta(p, q float64) float64 {
	lgp, _ := math.Lgamma(p)
	lgq, _ := math.Lgamma(q)
	lgpq, _ := math.Lgamma(p + q)
	return lgp + lgq - lgpq
}

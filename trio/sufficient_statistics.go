package trio

import (
	"fmt"
	"math"

	"github.com/kaeldai/novo-muta/reads"
)

// SufficientStatistics accumulates the expected complete-data counts
// of one expectation step over a set of sites.
type SufficientStatistics struct {
	// E, Hom and Het are the expected numbers of mismatching,
	// homozygous-matching and heterozygous-matching reads.
	E   float64
	Hom float64
	Het float64
	// Som and Germ are the expected numbers of somatic and germline
	// mutations.
	Som  float64
	Germ float64
	// NSites is the number of sites accumulated.
	NSites float64
	// LogLik is the total marginal log-likelihood of the accumulated
	// sites.
	LogLik float64
	// SkippedSites counts sites left out because their marginal
	// likelihood degenerated.
	SkippedSites int
}

// NewSufficientStatistics creates empty statistics.
func NewSufficientStatistics() *SufficientStatistics {
	return &SufficientStatistics{}
}

// Update clears the statistics and accumulates the expectations of
// every site under the model's current parameters.
func (s *SufficientStatistics) Update(m *TrioModel, sites []reads.Trio) {
	s.Clear()
	for _, t := range sites {
		d := m.Evaluate(t)
		if d.Degenerate() {
			s.SkippedSites++
			log.Debugf("skipping degenerate site %v", t)
			continue
		}
		s.E += m.MismatchStatistic(d)
		s.Hom += m.HomozygousStatistic(d)
		s.Het += m.HeterozygousStatistic(d)
		s.Som += m.SomaticStatistic(d)
		s.Germ += m.GermlineStatistic(d)
		s.LogLik += d.LogMarginal()
		s.NSites++
	}
	if s.SkippedSites > 0 {
		log.Warningf("%d of %d sites had degenerate likelihoods and were skipped",
			s.SkippedSites, len(sites))
	}
}

// MaxGermlineMutationRate returns the closed-form maximizer of the
// expected complete-data likelihood: germline mutations per
// transmitted allele, two transmissions per site.
func (s *SufficientStatistics) MaxGermlineMutationRate() float64 {
	return s.Germ / (2 * s.NSites)
}

// MaxSomaticMutationRate returns somatic mutations per somatic
// allele: three individuals with two alleles each per site.
func (s *SufficientStatistics) MaxSomaticMutationRate() float64 {
	return s.Som / (6 * s.NSites)
}

// MaxSequencingErrorRate maximizes the expected complete-data
// log-likelihood
//
//	Hom*log(1-e) + E*log(e/3) + Het*log(1/2 - e/3)
//
// whose stationary condition is the quadratic
// 2(Hom+Het+E)e^2 - (3Hom+2Het+5E)e + 3E = 0; the smaller root is
// the maximum in [0, 1].
func (s *SufficientStatistics) MaxSequencingErrorRate() float64 {
	a := 2 * (s.Hom + s.Het + s.E)
	b := -(3*s.Hom + 2*s.Het + 5*s.E)
	c := 3 * s.E
	return (-b - math.Sqrt(b*b-4*a*c)) / (2 * a)
}

// IsNaN reports whether any accumulator is NaN.
func (s *SufficientStatistics) IsNaN() bool {
	return math.IsNaN(s.E + s.Hom + s.Het + s.Som + s.Germ + s.NSites + s.LogLik)
}

// Clear resets all accumulators.
func (s *SufficientStatistics) Clear() {
	*s = SufficientStatistics{}
}

// String formats the statistics for logging.
func (s *SufficientStatistics) String() string {
	return fmt.Sprintf("e=%g hom=%g het=%g som=%g germ=%g n=%g lnL=%f skipped=%d",
		s.E, s.Hom, s.Het, s.Som, s.Germ, s.NSites, s.LogLik, s.SkippedSites)
}

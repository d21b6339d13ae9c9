package trio

import (
	"math"
	"testing"

	"github.com/kaeldai/novo-muta/reads"
)

func TestMaxGermlineMutationRate(tst *testing.T) {
	s := SufficientStatistics{Germ: 4, NSites: 100}
	if got := s.MaxGermlineMutationRate(); math.Abs(got-0.02) > smallDiff {
		tst.Error("Expected 0.02, got ", got)
	}
}

func TestMaxSomaticMutationRate(tst *testing.T) {
	s := SufficientStatistics{Som: 6, NSites: 100}
	if got := s.MaxSomaticMutationRate(); math.Abs(got-0.01) > smallDiff {
		tst.Error("Expected 0.01, got ", got)
	}
}

func TestMaxSequencingErrorRate(tst *testing.T) {
	// Only homozygous matches: no errors.
	s := SufficientStatistics{Hom: 90}
	if got := s.MaxSequencingErrorRate(); math.Abs(got) > smallDiff {
		tst.Error("Matches only: expected 0, got ", got)
	}
	// Ten mismatches per ninety homozygous matches: the error rate is
	// the mismatch fraction.
	s = SufficientStatistics{Hom: 90, E: 10}
	if got := s.MaxSequencingErrorRate(); math.Abs(got-0.1) > smallDiff {
		tst.Error("Expected 0.1, got ", got)
	}
	// Heterozygous matches absorb a third of the error rate:
	// E/e = Het/(3/2-e) gives e = 0.15.
	s = SufficientStatistics{Het: 90, E: 10}
	if got := s.MaxSequencingErrorRate(); math.Abs(got-0.15) > smallDiff {
		tst.Error("Expected 0.15, got ", got)
	}
	// Only mismatches: the rate runs to the boundary.
	s = SufficientStatistics{E: 10}
	if got := s.MaxSequencingErrorRate(); math.Abs(got-1) > smallDiff {
		tst.Error("Mismatches only: expected 1, got ", got)
	}
}

func TestUpdate(tst *testing.T) {
	m := NewDefaultTrioModel()
	sites := sampleTrios()
	s := NewSufficientStatistics()
	s.Update(m, sites)

	if s.NSites != float64(len(sites)) || s.SkippedSites != 0 {
		tst.Error("Expected ", len(sites), " sites, got ", s.NSites, " with ", s.SkippedSites, " skipped")
	}
	if s.IsNaN() {
		tst.Fatal("Statistics should be finite: ", s)
	}
	// Every read is a homozygous match, a heterozygous match or a
	// mismatch.
	total := 0.0
	for _, t := range sites {
		total += float64(t[reads.Child].Sum() + t[reads.Mother].Sum() + t[reads.Father].Sum())
	}
	if math.Abs(s.E+s.Hom+s.Het-total) > 1e-8 {
		tst.Error("Read statistics sum to ", s.E+s.Hom+s.Het, ", expected ", total)
	}
	if s.LogLik >= 0 {
		tst.Error("Total log-likelihood should be negative, got ", s.LogLik)
	}
	if s.Som < 0 || s.Germ < 0 {
		tst.Error("Mutation expectations should be nonnegative: ", s.Som, s.Germ)
	}

	s.Clear()
	if s.NSites != 0 || s.E != 0 || s.LogLik != 0 {
		tst.Error("Clear should reset the accumulators: ", s)
	}
}

func TestStatisticsString(tst *testing.T) {
	s := SufficientStatistics{E: 1, Hom: 2, Het: 3, NSites: 4}
	if s.String() == "" {
		tst.Error("Expected a non-empty summary")
	}
	tst.Log(&s)
}

package trio

import (
	"math"
	"testing"

	"github.com/kaeldai/novo-muta/reads"
)

func sampleTrios() []reads.Trio {
	return []reads.Trio{
		{{4, 0, 0, 0}, {4, 0, 0, 0}, {4, 0, 0, 0}},
		{{0, 4, 0, 0}, {4, 0, 0, 0}, {4, 0, 0, 0}},
		{{2, 2, 0, 0}, {2, 2, 0, 0}, {4, 0, 0, 0}},
		{{1, 1, 1, 1}, {0, 0, 4, 0}, {0, 0, 0, 4}},
		{{3, 1, 0, 0}, {4, 0, 0, 0}, {2, 0, 2, 0}},
	}
}

func TestSequencingLikelihoodScaling(tst *testing.T) {
	m := NewDefaultTrioModel()
	for _, t := range sampleTrios() {
		d := m.Evaluate(t)
		for i := 0; i < reads.NumIndividuals; i++ {
			row := d.SeqLik.RawRowView(i)
			max := 0.0
			for _, v := range row {
				if v < 0 || v > 1+smallDiff {
					tst.Error("Rescaled likelihood out of range: ", v)
				}
				if v > max {
					max = v
				}
			}
			if math.Abs(max-1) > smallDiff {
				tst.Error("Row maximum should be one after rescaling, got ", max)
			}
		}
	}
}

func TestMutationProbabilityRange(tst *testing.T) {
	m := NewDefaultTrioModel()
	for _, t := range sampleTrios() {
		d := m.Evaluate(t)
		if d.Degenerate() {
			tst.Fatal("Unexpected degenerate site ", t)
		}
		p := d.MutationProbability()
		if p < 0 || p > 1 {
			tst.Error("Probability out of range for ", t, ": ", p)
		}
		if d.Numerator.Sum > d.Denominator.Sum+smallDiff {
			tst.Error("Restricted peel exceeds the full peel for ", t)
		}
		tst.Log(t, " -> ", p)
	}
}

func TestMutationProbabilityZeroRates(tst *testing.T) {
	m := NewDefaultTrioModel()
	m.SetRates(0, 0, m.Params().SequencingErrorRate)
	for _, t := range sampleTrios() {
		p := m.MutationProbability(t)
		if math.Abs(p) > smallDiff {
			tst.Error("With zero mutation rates the probability should vanish, got ", p, " for ", t)
		}
	}
}

func TestMutationProbabilityDiscordantChild(tst *testing.T) {
	m := NewDefaultTrioModel()
	concordant := reads.Trio{{4, 0, 0, 0}, {4, 0, 0, 0}, {4, 0, 0, 0}}
	discordant := reads.Trio{{0, 4, 0, 0}, {4, 0, 0, 0}, {4, 0, 0, 0}}
	pc := m.MutationProbability(concordant)
	pd := m.MutationProbability(discordant)
	tst.Log("concordant=", pc, " discordant=", pd)
	if pc > 1e-4 {
		tst.Error("Concordant reads should give a negligible probability, got ", pc)
	}
	if pd < 0.9 {
		tst.Error("A child contradicting both parents should give a probability near one, got ", pd)
	}
	if pd <= pc {
		tst.Error("Discordant reads should outrank concordant reads")
	}
}

// The three individuals share one somatic rate and the two parents one
// germline kernel, so swapping the parents' reads cannot change the
// result.
func TestMutationProbabilityParentSymmetry(tst *testing.T) {
	m := NewDefaultTrioModel()
	pairs := [][2]reads.Trio{
		{
			{{4, 0, 0, 0}, {3, 1, 0, 0}, {4, 0, 0, 0}},
			{{4, 0, 0, 0}, {4, 0, 0, 0}, {3, 1, 0, 0}},
		},
		{
			{{2, 2, 0, 0}, {2, 2, 0, 0}, {0, 0, 4, 0}},
			{{2, 2, 0, 0}, {0, 0, 4, 0}, {2, 2, 0, 0}},
		},
	}
	for _, p := range pairs {
		pa := m.MutationProbability(p[0])
		pb := m.MutationProbability(p[1])
		if math.Abs(pa-pb) > smallDiff {
			tst.Error("Parent swap changed the probability for ", p[0], ": ", pa, " vs ", pb)
		}
	}
}

func TestLogMarginal(tst *testing.T) {
	m := NewDefaultTrioModel()
	for _, t := range sampleTrios() {
		l := m.Evaluate(t).LogMarginal()
		if math.IsNaN(l) || math.IsInf(l, 0) {
			tst.Error("Marginal log-likelihood should be finite, got ", l)
		}
		if l >= 0 {
			tst.Error("Read probabilities should be below one, got log ", l)
		}
	}
}

// At coverage one every count vector is a single read, so the
// marginal probabilities of all 4^3 trios must sum to one.
func TestMarginalNormalization(tst *testing.T) {
	m := NewDefaultTrioModel()
	sum := 0.0
	for _, t := range reads.EnumerateTrios(1) {
		sum += math.Exp(m.Evaluate(t).LogMarginal())
	}
	if math.Abs(sum-1) > 1e-10 {
		tst.Error("Coverage-one marginals sum to ", sum)
	}
}

// The same holds at higher coverage when trios are enumerated as
// ordered read sequences instead of count vectors.
func TestMarginalNormalizationSequences(tst *testing.T) {
	if testing.Short() {
		tst.Skip("skipping sequence-level normalization in short mode")
	}
	m := NewDefaultTrioModel()
	seqs := reads.EnumerateCounts(2)
	sum := 0.0
	for _, c := range seqs {
		for _, mo := range seqs {
			for _, fa := range seqs {
				sum += math.Exp(m.Evaluate(reads.Trio{c, mo, fa}).LogMarginal())
			}
		}
	}
	if math.Abs(sum-1) > 1e-9 {
		tst.Error("Coverage-two sequence marginals sum to ", sum)
	}
}

func BenchmarkEvaluate(b *testing.B) {
	m := NewDefaultTrioModel()
	t := reads.Trio{{3, 1, 0, 0}, {4, 0, 0, 0}, {2, 0, 2, 0}}
	m.Evaluate(t)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Evaluate(t)
	}
}

package trio

import (
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"

	"github.com/kaeldai/novo-muta/dist"
	"github.com/kaeldai/novo-muta/genotype"
	"github.com/kaeldai/novo-muta/reads"
)

// TreePeels holds the vectors of one variable-elimination pass over
// the pedigree, leaves to root.
type TreePeels struct {
	// Child, Mother and Father are the zygotic likelihoods of the
	// three individuals after the somatic step.
	Child  []float64
	Mother []float64
	Father []float64
	// ChildGermline is the child likelihood lifted to parent-pair
	// space through the germline matrix.
	ChildGermline []float64
	// Parent combines ChildGermline with both parents' zygotic
	// likelihoods.
	Parent []float64
	// Root weights Parent by the population priors.
	Root []float64
	// Sum is the total over Root.
	Sum float64
}

// ReadDependentData holds everything the engine derives from one
// site's read counts.
type ReadDependentData struct {
	// Reads are the counts the site was evaluated at.
	Reads reads.Trio
	// MaxLogLik are the per-individual log-likelihood maxima removed
	// from the sequencing likelihoods before exponentiation.
	MaxLogLik [reads.NumIndividuals]float64
	// SeqLik is the 3x16 rescaled sequencing likelihood matrix; every
	// row has maximum 1.
	SeqLik *mat64.Dense
	// Denominator is the peel under the full model, Numerator the
	// peel restricted to mutation-free paths. Both share SeqLik.
	Denominator TreePeels
	Numerator   TreePeels
}

// sequencingLikelihood fills the 3x16 matrix of P(reads | genotype)
// with each individual's row rescaled by its maximum log-likelihood.
func (m *TrioModel) sequencingLikelihood(t reads.Trio) (*mat64.Dense, [reads.NumIndividuals]float64) {
	alphas := m.Alphas()
	seq := mat64.NewDense(reads.NumIndividuals, genotype.NumGenotypes, nil)
	var maxes [reads.NumIndividuals]float64
	ll := make([]float64, genotype.NumGenotypes)
	for i := 0; i < reads.NumIndividuals; i++ {
		counts := countFloats(t[i])
		for g := 0; g < genotype.NumGenotypes; g++ {
			ll[g] = dist.DirichletMultinomialLogProb(alphas.RawRowView(g), counts)
		}
		max := floats.Max(ll)
		row := seq.RawRowView(i)
		for g, l := range ll {
			row[g] = math.Exp(l - max)
		}
		maxes[i] = max
	}
	return seq, maxes
}

// peel runs one elimination pass. The somatic and germline arguments
// choose the configuration: the full matrices give the marginal
// likelihood, the mutation-free restrictions the likelihood of the
// no-mutation event.
func peel(seq *mat64.Dense, somatic, germline *mat64.Dense, priors []float64) TreePeels {
	p := TreePeels{
		Child:  make([]float64, genotype.NumGenotypes),
		Mother: make([]float64, genotype.NumGenotypes),
		Father: make([]float64, genotype.NumGenotypes),
	}

	childSeq := seq.RawRowView(reads.Child)
	motherSeq := seq.RawRowView(reads.Mother)
	fatherSeq := seq.RawRowView(reads.Father)
	for x := 0; x < genotype.NumGenotypes; x++ {
		srow := somatic.RawRowView(x)
		sc, sm, sf := 0.0, 0.0, 0.0
		for y := 0; y < genotype.NumGenotypes; y++ {
			sc += srow[y] * childSeq[y]
			sm += srow[y] * motherSeq[y]
			sf += srow[y] * fatherSeq[y]
		}
		p.Child[x] = sc
		p.Mother[x] = sm
		p.Father[x] = sf
	}

	p.ChildGermline = make([]float64, genotype.NumParentPairs)
	for x := 0; x < genotype.NumGenotypes; x++ {
		cx := p.Child[x]
		if cx == 0 {
			continue
		}
		grow := germline.RawRowView(x)
		for pp := 0; pp < genotype.NumParentPairs; pp++ {
			p.ChildGermline[pp] += grow[pp] * cx
		}
	}

	p.Parent = KroneckerVec(p.Mother, p.Father)
	floats.Mul(p.Parent, p.ChildGermline)

	p.Root = append([]float64(nil), p.Parent...)
	floats.Mul(p.Root, priors)
	p.Sum = floats.Sum(p.Root)
	return p
}

// Evaluate peels the pedigree at one site's read counts under the
// current parameters. The sequencing likelihood is computed once and
// shared by both peels.
func (m *TrioModel) Evaluate(t reads.Trio) *ReadDependentData {
	seq, maxes := m.sequencingLikelihood(t)
	d := &ReadDependentData{
		Reads:     t,
		MaxLogLik: maxes,
		SeqLik:    seq,
	}
	priors := m.PopulationPriors()
	d.Denominator = peel(seq, m.SomaticTransition(false), m.GermlineTransition(false), priors)
	d.Numerator = peel(seq, m.SomaticTransition(true), m.GermlineTransition(true), priors)
	return d
}

// Degenerate reports that the marginal likelihood vanished or
// overflowed, so no posterior quantity can be formed at this site.
func (d *ReadDependentData) Degenerate() bool {
	return !(d.Denominator.Sum > 0) || math.IsNaN(d.Numerator.Sum) || math.IsInf(d.Denominator.Sum, 0)
}

// MutationProbability returns the posterior probability of at least
// one mutation anywhere in the trio: one minus the ratio of the
// no-mutation likelihood to the marginal likelihood. NaN when the
// site is degenerate.
func (d *ReadDependentData) MutationProbability() float64 {
	if d.Degenerate() {
		return math.NaN()
	}
	return 1 - d.Numerator.Sum/d.Denominator.Sum
}

// LogMarginal returns log P(reads) with the per-individual rescaling
// restored.
func (d *ReadDependentData) LogMarginal() float64 {
	l := math.Log(d.Denominator.Sum)
	for _, m := range d.MaxLogLik {
		l += m
	}
	return l
}

// MutationProbability evaluates the model at one site and returns the
// posterior probability of at least one mutation in the trio.
func (m *TrioModel) MutationProbability(t reads.Trio) float64 {
	return m.Evaluate(t).MutationProbability()
}

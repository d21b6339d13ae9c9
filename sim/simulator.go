/*

Package sim draws synthetic trio sites from the generative mutation
model: a parent pair from the population prior, Mendelian inheritance
with germline substitution, independent somatic substitution for all
three individuals, and Dirichlet-multinomial sequencing reads. Each
site carries its true mutation status so the probabilities produced by
the engine can be validated against known ground truth.

*/
package sim

import (
	"errors"

	"github.com/op/go-logging"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kaeldai/novo-muta/genotype"
	"github.com/kaeldai/novo-muta/reads"
	"github.com/kaeldai/novo-muta/trio"
)

// log is the global logging variable.
var log = logging.MustGetLogger("sim")

// Simulator draws sites one at a time. It exclusively owns its random
// generator and is not safe for concurrent use; the sampling
// distributions snapshot the model parameters at creation time.
type Simulator struct {
	model    *trio.TrioModel
	coverage int
	src      rand.Source
	rng      *rand.Rand

	// hasMutation marks whether the last simulated site carried a
	// germline or somatic mutation.
	hasMutation bool

	pair      distuv.Categorical
	germline  []distuv.Categorical
	somatic   []distuv.Categorical
	dirichlet []*distmv.Dirichlet
}

// NewSimulator creates a simulator for the model at the given
// per-individual coverage, seeding its private generator.
func NewSimulator(m *trio.TrioModel, coverage int, seed uint64) (*Simulator, error) {
	if coverage < 1 {
		return nil, errors.New("coverage must be at least one")
	}
	if m.Params().SequencingErrorRate <= 0 {
		// Zero error gives zero Dirichlet pseudocounts on the off
		// alleles, which the sampler cannot represent.
		return nil, errors.New("sequencing error rate must be positive to simulate reads")
	}
	src := rand.NewSource(seed)
	s := &Simulator{
		model:     m,
		coverage:  coverage,
		src:       src,
		rng:       rand.New(src),
		germline:  make([]distuv.Categorical, genotype.NumGenotypes),
		somatic:   make([]distuv.Categorical, genotype.NumGenotypes),
		dirichlet: make([]*distmv.Dirichlet, genotype.NumGenotypes),
	}

	s.pair = distuv.NewCategorical(m.PopulationPriors(), src)
	p := m.Params()
	germKernel := trio.SubstitutionMatrix(p.GermlineMutationRate)
	somKernel := m.SomaticTransition(false)
	alphas := m.Alphas()
	for g := 0; g < genotype.NumGenotypes; g++ {
		s.germline[g] = distuv.NewCategorical(germKernel.RawRowView(g), src)
		s.somatic[g] = distuv.NewCategorical(somKernel.RawRowView(g), src)
		s.dirichlet[g] = distmv.NewDirichlet(alphas.RawRowView(g), src)
	}
	return s, nil
}

// Model returns the model the simulator scores sites with.
func (s *Simulator) Model() *trio.TrioModel {
	return s.model
}

// Coverage returns the per-individual read coverage.
func (s *Simulator) Coverage() int {
	return s.coverage
}

// HasMutation reports whether the last site drawn by Site carried a
// mutation.
func (s *Simulator) HasMutation() bool {
	return s.hasMutation
}

// pickAllele returns one of the two alleles of a genotype, each with
// probability one half.
func (s *Simulator) pickAllele(g int) int {
	return genotype.Table[g][s.rng.Intn(2)]
}

// substitute draws the post-substitution genotype from the kernel row
// of g and records a mutation when the draw differs from g. Every
// off-diagonal draw changes at least one allele, so the comparison
// flags exactly the real substitution events.
func (s *Simulator) substitute(kernel []distuv.Categorical, g int) int {
	mutated := int(kernel[g].Rand())
	if mutated != g {
		s.hasMutation = true
	}
	return mutated
}

// sample draws the nucleotide frequencies of one individual from the
// Dirichlet of its somatic genotype, then coverage reads from those
// frequencies.
func (s *Simulator) sample(g int) reads.Count {
	theta := s.dirichlet[g].Rand(nil)
	d := distuv.NewCategorical(theta, s.src)
	var c reads.Count
	for i := 0; i < s.coverage; i++ {
		c[int(d.Rand())]++
	}
	return c
}

// Site draws one site: parent genotypes, the child's Mendelian
// assembly, germline and somatic substitutions, and reads for all
// three individuals. The mutation flag is reset first, so after the
// call HasMutation refers to this site only.
func (s *Simulator) Site() reads.Trio {
	s.hasMutation = false

	pp := int(s.pair.Rand())
	mother := genotype.PairMother(pp)
	father := genotype.PairFather(pp)

	// The child's first allele comes from the mother, the second from
	// the father; the germline kernel is applied conditionally on the
	// assembled genotype.
	mendelian := genotype.FromAlleles(s.pickAllele(mother), s.pickAllele(father))
	zygote := s.substitute(s.germline, mendelian)

	var t reads.Trio
	t[reads.Child] = s.sample(s.substitute(s.somatic, zygote))
	t[reads.Mother] = s.sample(s.substitute(s.somatic, mother))
	t[reads.Father] = s.sample(s.substitute(s.somatic, father))
	return t
}

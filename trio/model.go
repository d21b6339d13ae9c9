package trio

import (
	"github.com/gonum/matrix/mat64"
)

// TrioModel holds the parameters of the mutation model together with
// the matrices derived from them. Matrices are rebuilt lazily when a
// parameter they depend on changes.
type TrioModel struct {
	params Params

	// genotype and parent-pair priors
	priors     []float64
	pairPriors []float64
	priorsDone bool

	// somatic transition and its mutation-free restriction
	somatic      *mat64.Dense
	somaticNoMut *mat64.Dense
	somaticDone  bool

	// germline transitions, full and mutation-free, with the
	// single-parent matrices they are built from
	germlineSingleMat   *mat64.Dense
	germline            *mat64.Dense
	germlineSingleNoMut *mat64.Dense
	germlineNoMut       *mat64.Dense
	germlineDone        bool

	// sequencing pseudocounts
	alphas     *mat64.Dense
	alphasDone bool
}

// NewTrioModel validates the parameters and creates a model.
func NewTrioModel(p Params) (*TrioModel, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &TrioModel{params: p.Copy()}, nil
}

// NewDefaultTrioModel creates a model with the default parameters.
func NewDefaultTrioModel() *TrioModel {
	m, err := NewTrioModel(DefaultParams())
	if err != nil {
		panic(err)
	}
	return m
}

// Copy returns an independent model with the same parameters.
func (m *TrioModel) Copy() *TrioModel {
	return &TrioModel{params: m.params.Copy()}
}

// Params returns a copy of the current parameters.
func (m *TrioModel) Params() Params {
	return m.params.Copy()
}

// SetGermlineMutationRate invalidates the germline matrices.
func (m *TrioModel) SetGermlineMutationRate(rate float64) {
	if m.params.GermlineMutationRate == rate {
		return
	}
	m.params.GermlineMutationRate = rate
	m.germlineDone = false
}

// SetSomaticMutationRate invalidates the somatic matrices.
func (m *TrioModel) SetSomaticMutationRate(rate float64) {
	if m.params.SomaticMutationRate == rate {
		return
	}
	m.params.SomaticMutationRate = rate
	m.somaticDone = false
}

// SetSequencingErrorRate invalidates the pseudocount matrix.
func (m *TrioModel) SetSequencingErrorRate(rate float64) {
	if m.params.SequencingErrorRate == rate {
		return
	}
	m.params.SequencingErrorRate = rate
	m.alphasDone = false
}

// SetRates sets the three estimated rates at once.
func (m *TrioModel) SetRates(germline, somatic, seqError float64) {
	m.SetGermlineMutationRate(germline)
	m.SetSomaticMutationRate(somatic)
	m.SetSequencingErrorRate(seqError)
}

// SetPopulationMutationRate invalidates the priors.
func (m *TrioModel) SetPopulationMutationRate(theta float64) {
	if m.params.PopulationMutationRate == theta {
		return
	}
	m.params.PopulationMutationRate = theta
	m.priorsDone = false
}

// SetDirichletDispersion invalidates the pseudocount matrix.
func (m *TrioModel) SetDirichletDispersion(dispersion float64) {
	if m.params.DirichletDispersion == dispersion {
		return
	}
	m.params.DirichletDispersion = dispersion
	m.alphasDone = false
}

func (m *TrioModel) updatePriors() {
	m.priors = genotypePriors(m.params.PopulationMutationRate, m.params.NucleotideFrequencies)
	m.pairPriors = KroneckerVec(m.priors, m.priors)
	m.priorsDone = true
}

func (m *TrioModel) updateSomatic() {
	rate := m.params.SomaticMutationRate
	m.somatic = somaticTransition(rate, false)
	m.somaticNoMut = somaticTransition(rate, true)
	m.somaticDone = true
}

func (m *TrioModel) updateGermline() {
	rate := m.params.GermlineMutationRate
	m.germlineSingleMat = germlineSingle(rate, false)
	m.germline = KroneckerSquare(m.germlineSingleMat)
	m.germlineSingleNoMut = germlineSingle(rate, true)
	m.germlineNoMut = KroneckerSquare(m.germlineSingleNoMut)
	m.germlineDone = true
}

func (m *TrioModel) updateAlphas() {
	m.alphas = alphaMatrix(m.params.SequencingErrorRate, m.params.DirichletDispersion)
	m.alphasDone = true
}

// GenotypePriors returns the 16-entry prior over ordered genotypes.
func (m *TrioModel) GenotypePriors() []float64 {
	if !m.priorsDone {
		m.updatePriors()
	}
	return m.priors
}

// PopulationPriors returns the 256-entry prior over ordered parent
// pairs: the Kronecker product of the genotype prior with itself.
func (m *TrioModel) PopulationPriors() []float64 {
	if !m.priorsDone {
		m.updatePriors()
	}
	return m.pairPriors
}

// SomaticTransition returns the 16x16 somatic matrix; with noMutation
// it is restricted to the mutation-free diagonal.
func (m *TrioModel) SomaticTransition(noMutation bool) *mat64.Dense {
	if !m.somaticDone {
		m.updateSomatic()
	}
	if noMutation {
		return m.somaticNoMut
	}
	return m.somatic
}

// GermlineSingle returns the 4x16 single-parent germline matrix; with
// noMutation only the unmutated inheritance paths are kept.
func (m *TrioModel) GermlineSingle(noMutation bool) *mat64.Dense {
	if !m.germlineDone {
		m.updateGermline()
	}
	if noMutation {
		return m.germlineSingleNoMut
	}
	return m.germlineSingleMat
}

// GermlineTransition returns the 16x256 two-parent germline matrix;
// with noMutation only the unmutated inheritance paths are kept.
func (m *TrioModel) GermlineTransition(noMutation bool) *mat64.Dense {
	if !m.germlineDone {
		m.updateGermline()
	}
	if noMutation {
		return m.germlineNoMut
	}
	return m.germline
}

// Alphas returns the 16x4 Dirichlet pseudocount matrix of the
// sequencing model.
func (m *TrioModel) Alphas() *mat64.Dense {
	if !m.alphasDone {
		m.updateAlphas()
	}
	return m.alphas
}

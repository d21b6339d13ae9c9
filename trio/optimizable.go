package trio

import (
	"math"

	"github.com/kaeldai/novo-muta/optimize"
	"github.com/kaeldai/novo-muta/reads"
)

// MLFit adapts the trio model to the optimize package so the three
// rates can be fitted by direct likelihood maximization.
type MLFit struct {
	model      *TrioModel
	sites      []reads.Trio
	parameters optimize.FloatParameters

	germline float64
	somatic  float64
	seqError float64
}

// NewMLFit creates an optimizable likelihood over the given sites,
// starting from the model's current rates.
func NewMLFit(m *TrioModel, sites []reads.Trio) *MLFit {
	p := m.Params()
	f := &MLFit{
		model:    m,
		sites:    sites,
		germline: p.GermlineMutationRate,
		somatic:  p.SomaticMutationRate,
		seqError: p.SequencingErrorRate,
	}
	f.setupParameters()
	return f
}

func (f *MLFit) setupParameters() {
	germline := optimize.NewBasicFloatParameter(&f.germline, "germline")
	germline.SetMin(0)
	germline.SetMax(1)
	germline.SetPriorFunc(optimize.UniformPrior(0, 1, true, true))
	germline.SetProposalFunc(optimize.NormalProposal(0.01))
	germline.SetOnChange(func() {
		f.model.SetGermlineMutationRate(f.germline)
	})

	somatic := optimize.NewBasicFloatParameter(&f.somatic, "somatic")
	somatic.SetMin(0)
	somatic.SetMax(1)
	somatic.SetPriorFunc(optimize.UniformPrior(0, 1, true, true))
	somatic.SetProposalFunc(optimize.NormalProposal(0.01))
	somatic.SetOnChange(func() {
		f.model.SetSomaticMutationRate(f.somatic)
	})

	seqError := optimize.NewBasicFloatParameter(&f.seqError, "error")
	seqError.SetMin(0)
	seqError.SetMax(1)
	seqError.SetPriorFunc(optimize.UniformPrior(0, 1, true, true))
	seqError.SetProposalFunc(optimize.NormalProposal(0.01))
	seqError.SetOnChange(func() {
		f.model.SetSequencingErrorRate(f.seqError)
	})

	f.parameters.Append(germline)
	f.parameters.Append(somatic)
	f.parameters.Append(seqError)
}

// GetFloatParameters returns the adjustable parameters.
func (f *MLFit) GetFloatParameters() optimize.FloatParameters {
	return f.parameters
}

// Copy returns an independent fit over the same sites.
func (f *MLFit) Copy() optimize.Optimizable {
	c := f.model.Copy()
	c.SetRates(f.germline, f.somatic, f.seqError)
	return NewMLFit(c, f.sites)
}

// Likelihood returns the total marginal log-likelihood of the sites;
// minus infinity when any site degenerates.
func (f *MLFit) Likelihood() float64 {
	l := 0.0
	for _, t := range f.sites {
		d := f.model.Evaluate(t)
		if d.Degenerate() {
			return math.Inf(-1)
		}
		l += d.LogMarginal()
	}
	return l
}

package optimize

import (
	"math"
	"math/rand"
)

// MH is a Metropolis-Hastings sampler. With annealing enabled it
// maximizes the likelihood instead of sampling from the posterior.
type MH struct {
	BaseOptimizer
	// AccPeriod is the number of iterations between acceptance rate
	// reports.
	AccPeriod int
	annealing bool
	// iterations to skip before annealing
	annealingSkip int
}

// NewMH creates a new MH sampler.
func NewMH(annealing bool, annealingSkip int) *MH {
	return &MH{
		BaseOptimizer: BaseOptimizer{
			repPeriod: 10,
		},
		AccPeriod:     10,
		annealing:     annealing,
		annealingSkip: annealingSkip,
	}
}

// Run starts sampling.
func (m *MH) Run(iterations int) {
	m.l = m.Likelihood()
	m.calls++
	m.maxL = m.l
	m.maxLPar = m.parameters.ValuesString()
	m.PrintHeader()
	accepted := 0
Iter:
	for m.i = 0; m.i < iterations; m.i++ {
		var T float64
		if m.annealing && m.i >= m.annealingSkip {
			T = math.Pow(0.9, float64(m.i-m.annealingSkip)/float64(iterations-m.annealingSkip)*100)
		} else {
			T = 1
		}
		if m.i > 0 && m.i%m.AccPeriod == 0 {
			log.Infof("Acceptance rate %.2f%%", 100*float64(accepted)/float64(m.AccPeriod))
			accepted = 0
		}

		m.PrintLine()
		if m.annealing && m.i%m.repPeriod == 0 {
			log.Debugf("%d: L=%f, T=%f", m.i, m.l, T)
		}

		p := rand.Intn(len(m.parameters))
		par := m.parameters[p]
		par.Propose()
		newL := m.Likelihood()
		m.calls++

		var a float64
		if m.annealing {
			a = math.Exp((newL - m.l) / T)
		} else {
			a = math.Exp(par.Prior() - par.OldPrior() + newL - m.l)
		}

		if a > 1 || rand.Float64() < a {
			m.l = newL
			par.Accept(m.i)
			accepted++
			if m.l > m.maxL {
				m.maxL = m.l
				m.maxLPar = m.parameters.ValuesString()
			}
		} else {
			par.Reject()
		}

		select {
		case s := <-m.sig:
			log.Warningf("Received signal %v, exiting.", s)
			break Iter
		default:
		}
	}

	if !m.Quiet {
		log.Info("Finished MCMC")
		log.Infof("Maximum likelihood: %v", m.maxL)
		log.Infof("Likelihood function calls: %v", m.calls)
		log.Infof("Parameter  names: %v", m.parameters.NamesString())
		log.Infof("Parameter values: %v", m.GetMaxLParameters())
	}
	m.PrintFinal()
}

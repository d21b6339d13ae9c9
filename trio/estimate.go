package trio

import (
	"errors"
	"math"

	"github.com/kaeldai/novo-muta/checkpoint"
	"github.com/kaeldai/novo-muta/reads"
)

// EM estimates the germline, somatic and sequencing error rates by
// expectation maximization over a set of sites.
type EM struct {
	model         *TrioModel
	sites         []reads.Trio
	maxIterations int
	tolerance     float64
	ckp           *checkpoint.CheckpointIO

	stats     SufficientStatistics
	logLik    float64
	iter      int
	converged bool
}

// NewEM creates an estimator; tolerance is the log-likelihood
// improvement below which the run is considered converged.
func NewEM(m *TrioModel, sites []reads.Trio, maxIterations int, tolerance float64) *EM {
	return &EM{
		model:         m,
		sites:         sites,
		maxIterations: maxIterations,
		tolerance:     tolerance,
	}
}

// SetCheckpointIO attaches checkpoint storage; pass nil to disable.
func (em *EM) SetCheckpointIO(ckp *checkpoint.CheckpointIO) {
	em.ckp = ckp
}

// Model returns the model being estimated.
func (em *EM) Model() *TrioModel {
	return em.model
}

// Iterations returns the number of completed iterations.
func (em *EM) Iterations() int {
	return em.iter
}

// LogLikelihood returns the marginal log-likelihood of the last
// expectation step.
func (em *EM) LogLikelihood() float64 {
	return em.logLik
}

// Converged reports whether the run stopped on the tolerance rather
// than on the iteration limit.
func (em *EM) Converged() bool {
	return em.converged
}

// Statistics returns the sufficient statistics of the last
// expectation step.
func (em *EM) Statistics() *SufficientStatistics {
	return &em.stats
}

func (em *EM) saveCheckpoint(final bool) {
	if em.ckp == nil {
		return
	}
	p := em.model.Params()
	err := em.ckp.Save(&checkpoint.CheckpointData{
		GermlineMutationRate: p.GermlineMutationRate,
		SomaticMutationRate:  p.SomaticMutationRate,
		SequencingErrorRate:  p.SequencingErrorRate,
		LogLikelihood:        em.logLik,
		Iter:                 em.iter,
		Final:                final,
	})
	if err != nil {
		log.Warning("Failed to save checkpoint: ", err)
	}
}

func (em *EM) restoreCheckpoint() (final bool, err error) {
	if em.ckp == nil {
		return false, nil
	}
	data, err := em.ckp.Load()
	if err != nil || data == nil {
		return false, err
	}
	em.model.SetRates(data.GermlineMutationRate, data.SomaticMutationRate, data.SequencingErrorRate)
	em.logLik = data.LogLikelihood
	em.iter = data.Iter
	return data.Final, nil
}

// Run iterates expectation and maximization until the log-likelihood
// improvement drops below the tolerance or the iteration limit is
// reached.
func (em *EM) Run() error {
	final, err := em.restoreCheckpoint()
	if err != nil {
		return err
	}
	if final {
		em.converged = true
		log.Noticef("Estimation already finished; %s", em.model.Params())
		return nil
	}

	prev := math.Inf(-1)
	if em.iter > 0 {
		// resumed run: continue from the stored likelihood
		prev = em.logLik
	}

	for em.iter < em.maxIterations {
		em.stats.Update(em.model, em.sites)
		if em.stats.NSites == 0 {
			return errors.New("no usable sites: all marginal likelihoods degenerate")
		}
		if em.stats.IsNaN() {
			return errors.New("NaN in sufficient statistics")
		}
		em.logLik = em.stats.LogLik
		em.iter++

		germline := em.stats.MaxGermlineMutationRate()
		somatic := em.stats.MaxSomaticMutationRate()
		seqError := em.stats.MaxSequencingErrorRate()
		log.Infof("iter=%d lnL=%f germline=%g somatic=%g error=%g",
			em.iter, em.logLik, germline, somatic, seqError)
		log.Debugf("statistics: %s", &em.stats)
		em.model.SetRates(germline, somatic, seqError)

		if math.Abs(em.logLik-prev) < em.tolerance {
			em.converged = true
			break
		}
		prev = em.logLik

		if em.ckp != nil && em.ckp.Old() {
			em.saveCheckpoint(false)
		}
	}

	em.saveCheckpoint(em.converged)
	if em.converged {
		log.Noticef("Converged after %d iterations; %s", em.iter, em.model.Params())
	} else {
		log.Noticef("Stopped at the iteration limit (%d); %s", em.iter, em.model.Params())
	}
	return nil
}

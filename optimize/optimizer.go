// Package optimize provides bounded maximum-likelihood optimization
// of model parameters.
package optimize

import (
	"os"
	"os/signal"

	"github.com/op/go-logging"
)

// log is a global logging variable.
var log = logging.MustGetLogger("optimize")

// Optimizable is a model whose likelihood can be maximized over its
// float parameters. Copy must return an independent model so the
// optimizer can probe parameter values without disturbing the
// original.
type Optimizable interface {
	GetFloatParameters() FloatParameters
	Copy() Optimizable
	Likelihood() float64
}

// Optimizer maximizes the likelihood of an Optimizable.
type Optimizer interface {
	SetOptimizable(Optimizable)
	WatchSignals(...os.Signal)
	SetReportPeriod(period int)
	Run(iterations int)
	GetL() float64
	GetMaxL() float64
	GetMaxLParameters() string
}

// BaseOptimizer contains the state and reporting shared by the
// optimizers.
type BaseOptimizer struct {
	Optimizable
	parameters FloatParameters
	i          int
	l          float64
	maxL       float64
	maxLPar    string
	calls      int
	repPeriod  int
	sig        chan os.Signal
	Quiet      bool
}

// SetOptimizable sets the model to optimize.
func (o *BaseOptimizer) SetOptimizable(opt Optimizable) {
	o.Optimizable = opt
	o.parameters = opt.GetFloatParameters()
}

// WatchSignals makes the optimizer stop on the given signals.
func (o *BaseOptimizer) WatchSignals(sigs ...os.Signal) {
	o.sig = make(chan os.Signal, 1)
	signal.Notify(o.sig, sigs...)
}

// SetReportPeriod sets the number of iterations between trajectory
// lines.
func (o *BaseOptimizer) SetReportPeriod(period int) {
	o.repPeriod = period
}

// PrintHeader logs the trajectory header.
func (o *BaseOptimizer) PrintHeader() {
	if !o.Quiet {
		log.Infof("iteration\tlikelihood\t%s", o.parameters.NamesString())
	}
}

// PrintLine logs one trajectory line.
func (o *BaseOptimizer) PrintLine() {
	if !o.Quiet && (o.repPeriod <= 1 || o.i%o.repPeriod == 0) {
		log.Infof("%d\t%f\t%s", o.i, o.l, o.parameters.ValuesString())
	}
}

// PrintFinal logs the final parameter values.
func (o *BaseOptimizer) PrintFinal() {
	if !o.Quiet {
		for _, par := range o.parameters {
			log.Noticef("%s=%v", par.Name(), par.Get())
		}
	}
}

// GetL returns the last likelihood value.
func (o *BaseOptimizer) GetL() float64 {
	return o.l
}

// GetMaxL returns the maximum likelihood value seen.
func (o *BaseOptimizer) GetMaxL() float64 {
	return o.maxL
}

// GetMaxLParameters returns the parameter values at the maximum
// likelihood.
func (o *BaseOptimizer) GetMaxLParameters() string {
	return o.maxLPar
}

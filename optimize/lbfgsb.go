package optimize

import (
	"math"

	lbfgsb "github.com/idavydov/go-lbfgsb"
)

// LBFGSB is a bounded quasi-Newton optimizer with a numerical
// central-difference gradient.
type LBFGSB struct {
	BaseOptimizer
	dH   float64
	grad []float64
}

// NewLBFGSB creates a new LBFGSB optimizer.
func NewLBFGSB() *LBFGSB {
	return &LBFGSB{
		BaseOptimizer: BaseOptimizer{
			repPeriod: 1,
		},
		dH: 1e-6,
	}
}

// Logger reports the optimizer progress after every iteration.
func (l *LBFGSB) Logger(info *lbfgsb.OptimizationIterationInformation) {
	l.i = info.Iteration
	l.parameters.SetValues(info.X)
	l.l = -info.F
	l.PrintLine()
	select {
	case s := <-l.sig:
		log.Fatal("Received signal, exiting: ", s)
	default:
	}
}

// EvaluateFunction returns the negated log-likelihood at point x.
func (l *LBFGSB) EvaluateFunction(x []float64) float64 {
	if !l.parameters.ValuesInRange(x) {
		return math.Inf(+1)
	}

	l.parameters.SetValues(x)

	L := l.Likelihood()
	l.calls++
	if L > l.maxL {
		l.maxL = L
		l.maxLPar = l.parameters.ValuesString()
	}
	return -L
}

// EvaluateGradient computes a central-difference gradient on
// independent copies of the model; at a boundary the difference
// degrades to one-sided so the probe never leaves the feasible
// region.
func (l *LBFGSB) EvaluateGradient(x []float64) (grad []float64) {
	if l.grad == nil {
		l.grad = make([]float64, len(x))
	}
	grad = l.grad

	for i := range x {
		v1 := x[i] - l.dH
		v2 := x[i] + l.dH
		if !l.parameters[i].ValueInRange(v1) {
			v1 = x[i]
		}
		if !l.parameters[i].ValueInRange(v2) {
			v2 = x[i]
		}
		if v1 == v2 {
			grad[i] = 0
			continue
		}

		no1 := l.Optimizable.Copy()
		par1 := no1.GetFloatParameters()
		par1.SetValues(x)
		par1[i].Set(v1)
		l1 := -no1.Likelihood()
		l.calls++

		no2 := no1.Copy()
		par2 := no2.GetFloatParameters()
		par2[i].Set(v2)
		l2 := -no2.Likelihood()
		l.calls++

		grad[i] = (l2 - l1) / (v2 - v1)
	}

	select {
	case s := <-l.sig:
		log.Fatal("Received signal, exiting: ", s)
	default:
	}
	return
}

// Run runs the optimization; the iteration limit is handled by the
// underlying library tolerances.
func (l *LBFGSB) Run(iterations int) {
	l.maxL = math.Inf(-1)
	l.PrintHeader()
	bounds := make([][2]float64, len(l.parameters))

	for i, par := range l.parameters {
		bounds[i][0] = par.GetMin()
		bounds[i][1] = par.GetMax()
	}

	opt := new(lbfgsb.Lbfgsb)
	opt.SetApproximationSize(10)
	opt.SetFTolerance(1e-9)
	opt.SetGTolerance(1e-9)

	opt.SetBounds(bounds)
	opt.SetLogger(l.Logger)

	_, exitStatus := opt.Minimize(l, l.parameters.Values(nil))

	log.Info("Exit status: ", exitStatus)

	if !l.Quiet {
		log.Info("Finished LBFGSB")
		log.Infof("Maximum likelihood: %v", l.maxL)
		log.Infof("Likelihood function calls: %v", l.calls)
		log.Infof("Parameter  names: %v", l.parameters.NamesString())
		log.Infof("Parameter values: %v", l.GetMaxLParameters())
	}
	l.PrintFinal()
}

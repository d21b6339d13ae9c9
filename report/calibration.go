package report

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/kaeldai/novo-muta/dist"
)

// Calibration is a goodness-of-fit summary of predicted mutation
// probabilities: in a calibrated run the fraction of truly mutated
// sites in a bin matches the bin midpoint.
type Calibration struct {
	// Statistic is the chi-square over the non-empty bins,
	// DegreesOfFreedom their number.
	Statistic        float64
	DegreesOfFreedom int
	// PValue is the upper tail of the chi-square distribution; small
	// values flag miscalibrated probabilities.
	PValue float64
}

// midpoint returns the center probability of a bin.
func midpoint(bin int) float64 {
	return (float64(bin) + 0.5) / NumBins
}

// Calibration compares the observed mutation fraction of every
// non-empty bin against the bin midpoint.
func (b *FlaggedBins) Calibration() Calibration {
	c := Calibration{}
	for i := 0; i < NumBins; i++ {
		if b.Totals[i] == 0 {
			continue
		}
		n := float64(b.Totals[i])
		mid := midpoint(i)
		expected := n * mid
		diff := float64(b.Counts[i]) - expected
		c.Statistic += diff * diff / (expected * (1 - mid))
		c.DegreesOfFreedom++
	}
	c.PValue = dist.SurvivalChi2(c.Statistic, float64(c.DegreesOfFreedom))
	return c
}

// String formats the calibration for reports.
func (c Calibration) String() string {
	return fmt.Sprintf("chi2=%.4f df=%d p=%.4g", c.Statistic, c.DegreesOfFreedom, c.PValue)
}

// PlotCalibration saves a plot of the observed mutation fraction
// against the bin midpoint, with the diagonal as the calibrated
// reference.
func (b *FlaggedBins) PlotCalibration(fileName string) error {
	p := plot.New()
	p.X.Label.Text = "predicted probability"
	p.Y.Label.Text = "observed mutation fraction"

	observed := make(plotter.XYs, 0, NumBins)
	for i := 0; i < NumBins; i++ {
		if b.Totals[i] == 0 {
			continue
		}
		observed = append(observed, plotter.XY{
			X: midpoint(i),
			Y: float64(b.Counts[i]) / float64(b.Totals[i]),
		})
	}
	if len(observed) == 0 {
		return errors.New("no sites to plot")
	}

	ideal := plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}}
	if err := plotutil.AddLinePoints(p, "observed", observed, "calibrated", ideal); err != nil {
		return err
	}
	if err := p.Save(4*vg.Inch, 4*vg.Inch, fileName); err != nil {
		return err
	}
	log.Infof("saved calibration plot to %s", fileName)
	return nil
}

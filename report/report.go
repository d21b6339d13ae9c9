/*

Package report summarizes simulation output: probabilities are sorted
into ten 10%-wide bins and compared against the true mutation flags or
against empirical per-trio counts. The text reports follow the layout
of the probability bins:

	BIN   0        1         2        ...   9
	%    [0, 10), [10, 20), [20, 30), ..., [90, 100]

A probability of exactly one goes into bin 9.

*/
package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/op/go-logging"
)

// log is the global logging variable.
var log = logging.MustGetLogger("report")

// NumBins is the number of probability bins.
const NumBins = 10

// DefaultCut is the probability above which a site is reported as a
// mutation candidate.
const DefaultCut = 0.1

// Bin returns the bin of a probability: the digit in the tenths
// place, capped at the top bin. Negative probabilities give a
// negative bin.
func Bin(p float64) int {
	return int(math.Min(math.Floor(p*NumBins), NumBins-1))
}

// splitLine breaks one input line into at least want fields.
func splitLine(line string, want, lineNo int) ([]string, error) {
	fields := strings.Fields(line)
	if len(fields) < want {
		return nil, fmt.Errorf("line %d: expected %d fields, got %d", lineNo, want, len(fields))
	}
	return fields, nil
}

// FlaggedBins counts sites per probability bin together with how many
// of them truly carry a mutation.
type FlaggedBins struct {
	// Counts holds the flagged sites per bin, Totals all sites.
	Counts [NumBins]int
	Totals [NumBins]int
}

// ReadFlaggedBins parses probability and mutation-flag lines.
func ReadFlaggedBins(r io.Reader) (*FlaggedBins, error) {
	b := &FlaggedBins{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		fields, err := splitLine(scanner.Text(), 2, lineNo)
		if err != nil {
			return nil, err
		}
		p, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", lineNo, err)
		}
		flag, err := strconv.Atoi(fields[1])
		if err != nil || (flag != 0 && flag != 1) {
			return nil, fmt.Errorf("line %d: bad mutation flag %q", lineNo, fields[1])
		}
		bin := Bin(p)
		if bin < 0 {
			return nil, fmt.Errorf("line %d: negative probability %v", lineNo, p)
		}
		b.Totals[bin]++
		if flag == 1 {
			b.Counts[bin]++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

// Write reports per bin what fraction of its sites carry a mutation.
func (b *FlaggedBins) Write(w io.Writer) error {
	for i := 0; i < NumBins; i++ {
		var err error
		if b.Totals[i] > 0 {
			percent := float64(b.Counts[i]) / float64(b.Totals[i]) * 100
			_, err = fmt.Fprintf(w, "%.2f%% or %d/%d sites in bin %d contain a mutation.\n",
				percent, b.Counts[i], b.Totals[i], i)
		} else {
			_, err = fmt.Fprintf(w, "There are no sites in bin %d.\n", i)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ProbabilityBins counts sites per probability bin from
// probability-only input; negative probabilities are grouped in one
// extra bin instead of rejected.
type ProbabilityBins struct {
	Counts   [NumBins]int
	Negative int
	// Above counts sites whose probability exceeds the cut.
	Above int
	Total int
	Cut   float64
}

// ReadProbabilityBins parses one probability per line; cut is the
// candidate threshold (DefaultCut when negative).
func ReadProbabilityBins(r io.Reader, cut float64) (*ProbabilityBins, error) {
	if cut < 0 {
		cut = DefaultCut
	}
	b := &ProbabilityBins{Cut: cut}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		fields, err := splitLine(scanner.Text(), 1, lineNo)
		if err != nil {
			return nil, err
		}
		p, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", lineNo, err)
		}
		b.Total++
		if p > cut {
			b.Above++
		}
		if bin := Bin(p); bin < 0 {
			b.Negative++
		} else {
			b.Counts[bin]++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

// Write reports the candidate fraction and the bin distribution.
func (b *ProbabilityBins) Write(w io.Writer) error {
	percent := float64(b.Above) / float64(b.Total) * 100
	if _, err := fmt.Fprintf(w, "%.2f%% or %d/%d sites have a probability greater than %.2f.\n",
		percent, b.Above, b.Total, b.Cut); err != nil {
		return err
	}
	if b.Negative > 0 {
		percent = float64(b.Negative) / float64(b.Total) * 100
		if _, err := fmt.Fprintf(w, "%.2f%% or %d/%d sites in bin %d.\n",
			percent, b.Negative, b.Total, -1); err != nil {
			return err
		}
	}
	for i := 0; i < NumBins; i++ {
		var err error
		if b.Counts[i] > 0 {
			percent = float64(b.Counts[i]) / float64(b.Total) * 100
			_, err = fmt.Fprintf(w, "%.2f%% or %d/%d sites in bin %d.\n",
				percent, b.Counts[i], b.Total, i)
		} else {
			_, err = fmt.Fprintf(w, "There are no sites in bin %d.\n", i)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// parseCountLine extracts index, mutation count and no-mutation count
// from one trio-count line.
func parseCountLine(line string, lineNo int) (index, with, without int, err error) {
	fields, err := splitLine(line, 3, lineNo)
	if err != nil {
		return 0, 0, 0, err
	}
	for i, v := range []*int{&index, &with, &without} {
		*v, err = strconv.Atoi(fields[i])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("line %d: %v", lineNo, err)
		}
	}
	if with < 0 || without < 0 {
		return 0, 0, 0, fmt.Errorf("line %d: negative count", lineNo)
	}
	return index, with, without, nil
}

// LineProbabilities turns trio-count lines into empirical mutation
// probabilities, one per input line: mutations over total, zero for
// empty lines of counts.
func LineProbabilities(r io.Reader) ([]float64, error) {
	var probs []float64
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		_, with, without, err := parseCountLine(scanner.Text(), lineNo)
		if err != nil {
			return nil, err
		}
		p := 0.0
		if with+without > 0 {
			p = float64(with) / float64(with+without)
		}
		probs = append(probs, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return probs, nil
}

// IndexProbabilities aggregates trio-count lines by trio index before
// dividing, so outputs of parallel runs can be concatenated. The
// result has size entries, zero for indices never seen.
func IndexProbabilities(r io.Reader, size int) ([]float64, error) {
	with := make([]int, size)
	totals := make([]int, size)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		index, w, wo, err := parseCountLine(scanner.Text(), lineNo)
		if err != nil {
			return nil, err
		}
		if index < 0 || index >= size {
			return nil, fmt.Errorf("line %d: trio index %d outside [0, %d)", lineNo, index, size)
		}
		with[index] += w
		totals[index] += w + wo
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	probs := make([]float64, size)
	for i := range probs {
		if with[i] > 0 {
			probs[i] = float64(with[i]) / float64(totals[i])
		}
	}
	return probs, nil
}

// WriteProbabilities writes one probability per line.
func WriteProbabilities(w io.Writer, probs []float64) error {
	for _, p := range probs {
		if _, err := fmt.Fprintf(w, "%g\n", p); err != nil {
			return err
		}
	}
	return nil
}

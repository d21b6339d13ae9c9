package sim

import (
	"bufio"
	"bytes"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/op/go-logging"

	"github.com/kaeldai/novo-muta/reads"
	"github.com/kaeldai/novo-muta/trio"
)

func init() {
	logging.SetLevel(logging.WARNING, "sim")
	logging.SetLevel(logging.WARNING, "trio")
}

func newTestSimulator(tst *testing.T, germline, somatic float64, coverage int, seed uint64) *Simulator {
	m := trio.NewDefaultTrioModel()
	m.SetRates(germline, somatic, m.Params().SequencingErrorRate)
	s, err := NewSimulator(m, coverage, seed)
	if err != nil {
		tst.Fatal("Failed to create the simulator: ", err)
	}
	return s
}

func TestNewSimulatorErrors(tst *testing.T) {
	m := trio.NewDefaultTrioModel()
	if _, err := NewSimulator(m, 0, 1); err == nil {
		tst.Error("Zero coverage should be rejected")
	}
	m.SetSequencingErrorRate(0)
	if _, err := NewSimulator(m, 4, 1); err == nil {
		tst.Error("Zero error rate should be rejected")
	}
}

func TestSiteCoverage(tst *testing.T) {
	s := newTestSimulator(tst, 1e-3, 1e-3, 4, 1)
	for i := 0; i < 100; i++ {
		t := s.Site()
		for j := 0; j < reads.NumIndividuals; j++ {
			if t[j].Sum() != 4 {
				tst.Fatal("Individual ", j, " has coverage ", t[j].Sum(), " in ", t)
			}
		}
	}
}

func TestSiteDeterministic(tst *testing.T) {
	a := newTestSimulator(tst, 1e-3, 1e-3, 4, 42)
	b := newTestSimulator(tst, 1e-3, 1e-3, 4, 42)
	for i := 0; i < 50; i++ {
		ta, tb := a.Site(), b.Site()
		if ta != tb || a.HasMutation() != b.HasMutation() {
			tst.Fatal("Same seed should reproduce site ", i, ": ", ta, " vs ", tb)
		}
	}
}

func TestNoMutationAtZeroRates(tst *testing.T) {
	s := newTestSimulator(tst, 0, 0, 4, 7)
	for i := 0; i < 500; i++ {
		s.Site()
		if s.HasMutation() {
			tst.Fatal("Mutation flagged with both rates zero at site ", i)
		}
	}
}

func TestMutationsAtHighRates(tst *testing.T) {
	s := newTestSimulator(tst, 0.5, 0, 4, 7)
	flagged := 0
	for i := 0; i < 200; i++ {
		s.Site()
		if s.HasMutation() {
			flagged++
		}
	}
	// Two transmissions at rate 0.5 leave only a quarter of the sites
	// untouched.
	if flagged < 100 {
		tst.Error("Expected most sites flagged at rate 0.5, got ", flagged, "/200")
	}
}

func TestWriteProbability(tst *testing.T) {
	s := newTestSimulator(tst, 1e-3, 1e-3, 4, 3)
	var buf bytes.Buffer
	if err := s.WriteProbability(&buf, 50); err != nil {
		tst.Fatal("WriteProbability failed: ", err)
	}

	lines := 0
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			tst.Fatal("Expected two fields, got ", scanner.Text())
		}
		p, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			tst.Fatal("Bad probability: ", err)
		}
		if p < 0 || p > 1 || math.IsNaN(p) {
			tst.Error("Probability out of range: ", p)
		}
		if fields[1] != "0" && fields[1] != "1" {
			tst.Error("Bad flag: ", fields[1])
		}
		lines++
	}
	if lines != 50 {
		tst.Error("Expected 50 lines, got ", lines)
	}
}

func TestCountMutations(tst *testing.T) {
	if testing.Short() {
		tst.Skip("skipping universe aggregation in short mode")
	}
	u := reads.NewUniverse()
	counts := NewMutationCounts(u)
	s := newTestSimulator(tst, 1e-3, 1e-3, 4, 11)
	if err := s.CountMutations(counts, 40); err != nil {
		tst.Fatal("CountMutations failed: ", err)
	}

	var buf bytes.Buffer
	if err := counts.WriteCounts(&buf); err != nil {
		tst.Fatal("WriteCounts failed: ", err)
	}
	total := 0
	lines := 0
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 3 {
			tst.Fatal("Expected three fields, got ", scanner.Text())
		}
		with, _ := strconv.Atoi(fields[1])
		without, _ := strconv.Atoi(fields[2])
		total += with + without
		lines++
	}
	if lines != u.Len() {
		tst.Error("Expected ", u.Len(), " lines, got ", lines)
	}
	if total != 40 {
		tst.Error("Counts should cover every simulated site, got ", total)
	}
}

func TestCountMutationsCoverage(tst *testing.T) {
	if testing.Short() {
		tst.Skip("skipping universe construction in short mode")
	}
	u := reads.NewUniverse()
	s := newTestSimulator(tst, 1e-3, 1e-3, 2, 1)
	if err := s.CountMutations(NewMutationCounts(u), 1); err == nil {
		tst.Error("Coverage mismatch should be an error")
	}
	if err := NewMutationCounts(u).Add(reads.Trio{{2, 0, 0, 0}, {2, 0, 0, 0}, {2, 0, 0, 0}}, false); err == nil {
		tst.Error("A trio outside the universe should be rejected")
	}
}

func TestWriteTrioProbabilities(tst *testing.T) {
	if testing.Short() {
		tst.Skip("skipping whole-universe evaluation in short mode")
	}
	m := trio.NewDefaultTrioModel()
	u := reads.NewUniverse()
	var buf bytes.Buffer
	if err := WriteTrioProbabilities(&buf, m, u); err != nil {
		tst.Fatal("WriteTrioProbabilities failed: ", err)
	}
	lines := 0
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		p, err := strconv.ParseFloat(scanner.Text(), 64)
		if err != nil {
			tst.Fatal("Bad probability: ", err)
		}
		if p < 0 || p > 1 {
			tst.Error("Probability out of range: ", p)
		}
		lines++
	}
	if lines != u.Len() {
		tst.Error("Expected ", u.Len(), " lines, got ", lines)
	}
}

// Estimating back the rates that generated the data closes the loop
// between the simulator and the estimator.
func TestEstimationRoundTrip(tst *testing.T) {
	if testing.Short() {
		tst.Skip("skipping round trip in short mode")
	}
	const (
		germline = 5e-3
		somatic  = 5e-3
		seqError = 1e-2
		nSites   = 2000
	)
	truth := trio.NewDefaultTrioModel()
	truth.SetRates(germline, somatic, seqError)
	s, err := NewSimulator(truth, 4, 13)
	if err != nil {
		tst.Fatal("Failed to create the simulator: ", err)
	}
	sites := make([]reads.Trio, nSites)
	for i := range sites {
		sites[i] = s.Site()
	}

	fit := trio.NewDefaultTrioModel()
	fit.SetRates(1e-4, 1e-4, 0.03)
	em := trio.NewEM(fit, sites, 200, 1e-6)
	if err := em.Run(); err != nil {
		tst.Fatal("EM failed: ", err)
	}
	p := fit.Params()
	tst.Log("estimated ", p)

	if p.SequencingErrorRate < seqError/2 || p.SequencingErrorRate > seqError*2 {
		tst.Error("Error rate off: got ", p.SequencingErrorRate, ", simulated ", seqError)
	}
	if p.GermlineMutationRate < germline/3 || p.GermlineMutationRate > germline*3 {
		tst.Error("Germline rate off: got ", p.GermlineMutationRate, ", simulated ", germline)
	}
	if p.SomaticMutationRate < somatic/3 || p.SomaticMutationRate > somatic*3 {
		tst.Error("Somatic rate off: got ", p.SomaticMutationRate, ", simulated ", somatic)
	}
}

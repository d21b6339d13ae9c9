/*

Novo-sim draws trio read counts from the mutation model and writes
the mutation probability the model assigns to every simulated site
together with a flag recording whether a mutation actually happened.
The output lets the probabilities be checked against the simulated
truth.

The basic usage of novo-sim looks like this:

	novo-sim -sites 10000 -germline 1e-6 >probs.txt

, this will simulate 10000 sites at the given germline mutation rate
and write one "probability<TAB>flag" line per site.

Simulated sites can also be aggregated by their read-count index:

	novo-sim -sites 100000 -counts counts.txt -universe universe.txt

, this writes per-index mutation counts plus the model probability of
every possible read-count combination, so the two files can be
compared index by index.

To see all the options run:

	novo-sim -h

*/
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"

	"github.com/kaeldai/novo-muta/reads"
	"github.com/kaeldai/novo-muta/sim"
	"github.com/kaeldai/novo-muta/trio"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("novo-sim")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("novo-sim", "trio read count simulator").Version(version)

	// model parameters
	paramsFileName = app.Flag("params", "read model parameters from a YAML file").ExistingFile()
	theta          = app.Flag("theta", "population mutation rate (overrides the parameters file)").Default("-1").Float64()
	germline       = app.Flag("germline", "germline mutation rate (overrides the parameters file)").Default("-1").Float64()
	somatic        = app.Flag("somatic", "somatic mutation rate (overrides the parameters file)").Default("-1").Float64()
	seqError       = app.Flag("error", "sequencing error rate (overrides the parameters file)").Default("-1").Float64()
	dispersion     = app.Flag("dispersion", "Dirichlet-multinomial dispersion (overrides the parameters file)").Default("-1").Float64()

	// simulation parameters
	nSites   = app.Flag("sites", "number of sites to simulate").Default("10000").Int()
	coverage = app.Flag("coverage", "number of reads per individual").Default("4").Int()
	seed     = app.Flag("seed", "random generator seed, default time based").Default("-1").Int64()

	// input/output
	outLogF = app.Flag("log", "write log to a file").String()
	outF    = app.Flag("out", "write probabilities and mutation flags to a file").String()
	countsF = app.Flag("counts", "write mutation counts per read-count index to a file "+
		"(requires coverage 4)").String()
	universeF = app.Flag("universe", "write the model mutation probability of every "+
		"read-count combination to a file (requires coverage 4)").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
	jsonF = app.Flag("json", "write json output to a file").String()
)

// loadModel builds the trio model from the parameters file and the
// command-line overrides.
func loadModel() *trio.TrioModel {
	params := trio.DefaultParams()
	if *paramsFileName != "" {
		var err error
		params, err = trio.LoadParams(*paramsFileName, params)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *theta >= 0 {
		params.PopulationMutationRate = *theta
	}
	if *germline >= 0 {
		params.GermlineMutationRate = *germline
	}
	if *somatic >= 0 {
		params.SomaticMutationRate = *somatic
	}
	if *seqError >= 0 {
		params.SequencingErrorRate = *seqError
	}
	if *dispersion >= 0 {
		params.DirichletDispersion = *dispersion
	}

	m, err := trio.NewTrioModel(params)
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("Simulation parameters: %v", params)
	return m
}

func run() (summary *SimSummary) {
	startTime := time.Now()
	summary = &SimSummary{
		NSites:   *nSites,
		Coverage: *coverage,
	}

	m := loadModel()
	p := m.Params()
	summary.GermlineMutationRate = p.GermlineMutationRate
	summary.SomaticMutationRate = p.SomaticMutationRate
	summary.SequencingErrorRate = p.SequencingErrorRate

	s, err := sim.NewSimulator(m, *coverage, uint64(*seed))
	if err != nil {
		log.Fatal(err)
	}

	f := os.Stdout
	if *outF != "" {
		f, err = os.Create(*outF)
		if err != nil {
			log.Fatal("Error creating output file:", err)
		}
		defer f.Close()
	}
	if err := s.WriteProbability(f, *nSites); err != nil {
		log.Fatal("Error writing probabilities:", err)
	}

	var u *reads.Universe
	if *countsF != "" || *universeF != "" {
		u = reads.NewUniverse()
	}

	if *countsF != "" {
		counts := sim.NewMutationCounts(u)
		if err := s.CountMutations(counts, *nSites); err != nil {
			log.Fatal(err)
		}
		f, err := os.Create(*countsF)
		if err != nil {
			log.Fatal("Error creating counts file:", err)
		}
		defer f.Close()
		if err := counts.WriteCounts(f); err != nil {
			log.Fatal("Error writing counts:", err)
		}
		log.Infof("Wrote mutation counts for %d read-count combinations to %s", u.Len(), *countsF)
	}

	if *universeF != "" {
		f, err := os.Create(*universeF)
		if err != nil {
			log.Fatal("Error creating universe file:", err)
		}
		defer f.Close()
		if err := sim.WriteTrioProbabilities(f, m, u); err != nil {
			log.Fatal("Error writing universe probabilities:", err)
		}
		log.Infof("Wrote %d model probabilities to %s", u.Len(), *universeF)
	}

	endTime := time.Now()

	deltaT := endTime.Sub(startTime)
	log.Noticef("Running time: %v", deltaT)
	summary.Time = deltaT.Seconds()

	return
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	logging.SetLevel(level, "novo-sim")
	logging.SetLevel(level, "trio")
	logging.SetLevel(level, "sim")

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	if *seed == -1 {
		*seed = time.Now().UnixNano()
		log.Debug("Random seed from time")
	}
	log.Infof("Random seed=%v", *seed)

	summary := run()
	summary.Version = version
	summary.CommandLine = os.Args
	summary.Seed = *seed

	// output summary in json format
	if *jsonF != "" {
		j, err := json.Marshal(summary)
		if err != nil {
			log.Error(err)
		} else {
			log.Debug(string(j))
			f, err := os.Create(*jsonF)
			if err != nil {
				log.Error("Error creating json output file:", err)
			} else {
				f.Write(j)
				f.Close()
			}
		}
	}
}

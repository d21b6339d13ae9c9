/*

Novo-muta estimates trio mutation parameters and calls de novo
mutations from read counts. Every input site is a line of twelve
nucleotide read counts (child, mother and father ACGT counts); the
model peels a Dirichlet-multinomial likelihood over the trio pedigree
and reports the posterior probability that the site carries a
mutation absent from both parental zygotes.

The basic usage of novo-muta looks like this:

	novo-muta sites.txt

, this will estimate the germline mutation rate, the somatic mutation
rate and the sequencing error rate with expectation-maximization and
log the per-iteration progress.

You can change the estimation method and write per-site mutation
probabilities:

	novo-muta -method lbfgsb -out probs.txt sites.txt

To see all the options run:

	novo-muta -h

*/
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"

	"github.com/kaeldai/novo-muta/checkpoint"
	"github.com/kaeldai/novo-muta/optimize"
	"github.com/kaeldai/novo-muta/reads"
	"github.com/kaeldai/novo-muta/report"
	"github.com/kaeldai/novo-muta/trio"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("novo-muta")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("novo-muta", "trio mutation rate estimator and de novo mutation caller").Version(version)

	// input sites
	sitesFileName = app.Arg("sites", "read counts, one site per line "+
		"(child, mother and father ACGT counts)").Required().ExistingFile()

	// model parameters
	paramsFileName = app.Flag("params", "read model parameters from a YAML file").ExistingFile()
	theta          = app.Flag("theta", "population mutation rate (overrides the parameters file)").Default("-1").Float64()
	germline       = app.Flag("germline", "starting germline mutation rate (overrides the parameters file)").Default("-1").Float64()
	somatic        = app.Flag("somatic", "starting somatic mutation rate (overrides the parameters file)").Default("-1").Float64()
	seqError       = app.Flag("error", "starting sequencing error rate (overrides the parameters file)").Default("-1").Float64()
	dispersion     = app.Flag("dispersion", "Dirichlet-multinomial dispersion (overrides the parameters file)").Default("-1").Float64()

	// estimation parameters
	iterations   = app.Flag("iter", "maximum number of iterations").Default("100").Int()
	tolerance    = app.Flag("tol", "log-likelihood convergence tolerance").Default("1e-6").Float64()
	reportPeriod = app.Flag("report", "report every N iterations").Default("10").Int()
	method       = app.Flag("method", "estimation method to use "+
		"(em: expectation-maximization, "+
		"lbfgsb: limited-memory Broyden–Fletcher–Goldfarb–Shanno with bounding constraints, "+
		"mh: Metropolis-Hastings, "+
		"annealing: simulated annealing, "+
		"none: just compute likelihood, no estimation"+
		")").Default("em").String()

	// mcmc parameters
	accept = app.Flag("accept", "report acceptance rate every N iterations").Default("200").Int()
	seed   = app.Flag("seed", "random generator seed, default time based").Default("-1").Int64()

	// checkpoint parameters
	checkpointFileName = app.Flag("checkpoint", "checkpoint database file "+
		"(expectation-maximization only; resumes if the file exists)").String()
	checkpointSeconds = app.Flag("ckpperiod", "checkpoint save period in seconds").Default("30").Float64()

	// input/output
	outLogF  = app.Flag("log", "write log to a file").String()
	outF     = app.Flag("out", "write per-site mutation probabilities to a file").String()
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
	log.Infof("Starting parameters: %v", params)
	return m
}

// runEM estimates the rates by expectation-maximization.
func runEM(m *trio.TrioModel, sites []reads.Trio, summary *RunSummary) {
	em := trio.NewEM(m, sites, *iterations, *tolerance)

	if *checkpointFileName != "" {
		db, err := bolt.Open(*checkpointFileName, 0644, nil)
		if err != nil {
			log.Fatal("Error opening checkpoint file:", err)
		}
		defer db.Close()
		em.SetCheckpointIO(checkpoint.NewCheckpointIO(db, checkpoint.MAIN, *checkpointSeconds))
	}

	if err := em.Run(); err != nil {
		log.Fatal(err)
	}

	summary.LnL = em.LogLikelihood()
	summary.Iterations = em.Iterations()
	summary.Converged = em.Converged()
	summary.SkippedSites = em.Statistics().SkippedSites
	if !em.Converged() {
		log.Warningf("No convergence after %d iterations", em.Iterations())
	}
}

// runOptimizer estimates the rates by direct likelihood maximization,
// or just computes the likelihood when the method is none.
func runOptimizer(m *trio.TrioModel, sites []reads.Trio, summary *RunSummary) {
	var opt optimize.Optimizer
	switch *method {
	case "lbfgsb":
		opt = optimize.NewLBFGSB()
	case "mh":
		chain := optimize.NewMH(false, 0)
		chain.AccPeriod = *accept
		opt = chain
	case "annealing":
		chain := optimize.NewMH(true, 0)
		chain.AccPeriod = *accept
		opt = chain
	case "none":
		opt = optimize.NewNone()
	default:
		log.Fatalf("Unknown estimation method: %s", *method)
	}

	fit := trio.NewMLFit(m, sites)
	opt.SetOptimizable(fit)
	opt.WatchSignals(os.Interrupt)
	opt.SetReportPeriod(*reportPeriod)
	opt.Run(*iterations)

	summary.LnL = opt.GetMaxL()
	summary.Converged = true
}

func run() (summary *RunSummary) {
	startTime := time.Now()
	summary = &RunSummary{Method: *method}

	sites, err := reads.SitesFromFile(*sitesFileName)
	if err != nil {
		log.Fatal(err)
	}
	if len(sites) == 0 {
		log.Fatal("No sites in the input")
	}
	log.Infof("Read %d sites", len(sites))
	summary.NSites = len(sites)

	m := loadModel()

	log.Infof("Using %s estimation.", *method)
	switch *method {
	case "em":
		runEM(m, sites, summary)
	default:
		runOptimizer(m, sites, summary)
	}

	p := m.Params()
	log.Noticef("germline=%v", p.GermlineMutationRate)
	log.Noticef("somatic=%v", p.SomaticMutationRate)
	log.Noticef("error=%v", p.SequencingErrorRate)
	summary.GermlineMutationRate = p.GermlineMutationRate
	summary.SomaticMutationRate = p.SomaticMutationRate
	summary.SequencingErrorRate = p.SequencingErrorRate

	if *outF != "" {
		probs := make([]float64, len(sites))
		for i, t := range sites {
			probs[i] = m.MutationProbability(t)
		}
		f, err := os.Create(*outF)
		if err != nil {
			log.Fatal("Error creating output file:", err)
		}
		defer f.Close()
		if err := report.WriteProbabilities(f, probs); err != nil {
			log.Fatal("Error writing probabilities:", err)
		}
		log.Infof("Wrote %d mutation probabilities to %s", len(probs), *outF)
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
	logging.SetLevel(level, "novo-muta")
	logging.SetLevel(level, "trio")
	logging.SetLevel(level, "optimize")
	logging.SetLevel(level, "checkpoint")

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	if *seed == -1 {
		*seed = time.Now().UnixNano()
		log.Debug("Random seed from time")
	}
	log.Infof("Random seed=%v", *seed)

	rand.Seed(*seed)

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

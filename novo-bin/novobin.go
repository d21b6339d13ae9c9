/*

Novo-bin summarizes mutation probability files produced by novo-muta
and novo-sim. Probabilities are grouped into ten equal bins and
reported per bin, so a calibrated model shows bin occupancies that
match the bin midpoints.

The input kind selects the file format:

	flagged       "probability<TAB>flag" lines from novo-sim; reports
	              the fraction of flagged sites per bin
	probability   one probability per line from novo-muta; reports bin
	              occupancies and the sites above a cutoff
	line-counts   "index with without" lines, one per index; writes
	              one probability per line
	index-counts  "index with without" lines with repeats, aggregated
	              over the 4x coverage universe before dividing

The basic usage of novo-bin looks like this:

	novo-sim -sites 100000 -out probs.txt
	novo-bin flagged probs.txt

A calibration test and plot of the flagged bins:

	novo-bin -chi2 -plot calibration.png flagged probs.txt

To see all the options run:

	novo-bin -h

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
	"github.com/kaeldai/novo-muta/report"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("novo-bin")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("novo-bin", "mutation probability binning reports").Version(version)

	// input
	kind = app.Arg("kind", "input kind "+
		"(flagged, probability, line-counts or index-counts)").Required().String()
	inFileName = app.Arg("input", "probability or count file").Required().ExistingFile()

	// report parameters
	cut  = app.Flag("cut", "probability cutoff for the probability report").Default("0.1").Float64()
	chi2 = app.Flag("chi2", "test the flagged bins against the bin midpoints").Bool()

	// input/output
	outLogF  = app.Flag("log", "write log to a file").String()
	outF     = app.Flag("out", "write the report to a file").String()
	plotF    = app.Flag("plot", "write a calibration plot of the flagged bins to a PNG file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
	jsonF = app.Flag("json", "write json output to a file").String()
)

func run() (summary *BinSummary) {
	startTime := time.Now()
	summary = &BinSummary{Kind: *kind}

	f, err := os.Open(*inFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	out := os.Stdout
	if *outF != "" {
		out, err = os.Create(*outF)
		if err != nil {
			log.Fatal("Error creating output file:", err)
		}
		defer out.Close()
	}

	switch *kind {
	case "flagged":
		b, err := report.ReadFlaggedBins(f)
		if err != nil {
			log.Fatal(err)
		}
		if err := b.Write(out); err != nil {
			log.Fatal("Error writing report:", err)
		}
		for _, t := range b.Totals {
			summary.NSites += t
		}
		if *chi2 {
			c := b.Calibration()
			log.Notice(c)
			summary.Calibration = &c
		}
		if *plotF != "" {
			if err := b.PlotCalibration(*plotF); err != nil {
				log.Error("Error plotting calibration:", err)
			}
		}
	case "probability":
		b, err := report.ReadProbabilityBins(f, *cut)
		if err != nil {
			log.Fatal(err)
		}
		if err := b.Write(out); err != nil {
			log.Fatal("Error writing report:", err)
		}
		summary.NSites = b.Total
	case "line-counts":
		probs, err := report.LineProbabilities(f)
		if err != nil {
			log.Fatal(err)
		}
		if err := report.WriteProbabilities(out, probs); err != nil {
			log.Fatal("Error writing probabilities:", err)
		}
		summary.NSites = len(probs)
	case "index-counts":
		probs, err := report.IndexProbabilities(f, reads.UniverseSize)
		if err != nil {
			log.Fatal(err)
		}
		if err := report.WriteProbabilities(out, probs); err != nil {
			log.Fatal("Error writing probabilities:", err)
		}
		summary.NSites = len(probs)
	default:
		log.Fatalf("Unknown input kind: %s", *kind)
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
	logging.SetLevel(level, "novo-bin")
	logging.SetLevel(level, "report")

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	summary := run()
	summary.Version = version
	summary.CommandLine = os.Args

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

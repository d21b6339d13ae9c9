package main

import (
	"github.com/kaeldai/novo-muta/report"
)

// BinSummary stores the result of one report run for the JSON
// output.
type BinSummary struct {
	// Version stores the novo-bin version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// Kind is the input kind that was processed.
	Kind string `json:"kind"`
	// NSites is the number of sites covered by the input.
	NSites int `json:"nSites"`
	// Calibration holds the chi-square calibration test, when
	// requested.
	Calibration *report.Calibration `json:"calibration,omitempty"`
	// Time is the computations time in seconds.
	Time float64 `json:"time"`
}

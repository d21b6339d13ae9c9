package main

// SimSummary stores the result of one simulation run for the JSON
// output.
type SimSummary struct {
	// Version stores the novo-sim version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// Seed is the random generator seed.
	Seed int64 `json:"seed"`
	// NSites is the number of simulated sites.
	NSites int `json:"nSites"`
	// Coverage is the number of reads per individual.
	Coverage int `json:"coverage"`
	// GermlineMutationRate, SomaticMutationRate and SequencingErrorRate
	// are the rates the sites were simulated with.
	GermlineMutationRate float64 `json:"germlineMutationRate"`
	SomaticMutationRate  float64 `json:"somaticMutationRate"`
	SequencingErrorRate  float64 `json:"sequencingErrorRate"`
	// Time is the computations time in seconds.
	Time float64 `json:"time"`
}

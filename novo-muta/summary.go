package main

// RunSummary stores the result of one estimation run for the JSON
// output.
type RunSummary struct {
	// Version stores the novo-muta version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// Method is the estimation method used.
	Method string `json:"method"`
	// Seed is the random generator seed.
	Seed int64 `json:"seed"`
	// NSites is the number of sites read from the input.
	NSites int `json:"nSites"`
	// SkippedSites is the number of sites with degenerate likelihoods.
	SkippedSites int `json:"skippedSites,omitempty"`
	// GermlineMutationRate, SomaticMutationRate and SequencingErrorRate
	// are the final rate values.
	GermlineMutationRate float64 `json:"germlineMutationRate"`
	SomaticMutationRate  float64 `json:"somaticMutationRate"`
	SequencingErrorRate  float64 `json:"sequencingErrorRate"`
	// LnL is the final marginal log-likelihood.
	LnL float64 `json:"lnL"`
	// Iterations is the number of iterations performed.
	Iterations int `json:"iterations,omitempty"`
	// Converged reports whether the estimation hit its tolerance.
	Converged bool `json:"converged"`
	// Time is the computations time in seconds.
	Time float64 `json:"time"`
}

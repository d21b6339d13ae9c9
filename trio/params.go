package trio

import (
	"fmt"
	"io/ioutil"
	"math"

	"gopkg.in/yaml.v2"

	"github.com/kaeldai/novo-muta/genotype"
)

// Params holds the model parameters.
type Params struct {
	// PopulationMutationRate is theta, the scaled population mutation
	// rate behind the genotype prior.
	PopulationMutationRate float64 `yaml:"population_mutation_rate"`
	// GermlineMutationRate is the probability that a transmitted
	// allele mutates.
	GermlineMutationRate float64 `yaml:"germline_mutation_rate"`
	// SomaticMutationRate is the probability that an allele mutates
	// somatically; the same rate applies to all three individuals.
	SomaticMutationRate float64 `yaml:"somatic_mutation_rate"`
	// SequencingErrorRate is the probability that a read supports a
	// wrong nucleotide.
	SequencingErrorRate float64 `yaml:"sequencing_error_rate"`
	// DirichletDispersion scales the sequencing pseudocounts; large
	// values approach a plain multinomial.
	DirichletDispersion float64 `yaml:"dirichlet_dispersion"`
	// NucleotideFrequencies are the population frequencies of A, C,
	// G and T.
	NucleotideFrequencies []float64 `yaml:"nucleotide_frequencies"`
}

// DefaultParams returns the standard parameter values.
func DefaultParams() Params {
	return Params{
		PopulationMutationRate: 1e-3,
		GermlineMutationRate:   2e-8,
		SomaticMutationRate:    2e-8,
		SequencingErrorRate:    5e-3,
		DirichletDispersion:    1000,
		NucleotideFrequencies:  []float64{0.25, 0.25, 0.25, 0.25},
	}
}

// Copy returns a deep copy of the parameters.
func (p Params) Copy() Params {
	n := p
	n.NucleotideFrequencies = append([]float64(nil), p.NucleotideFrequencies...)
	return n
}

// Validate checks that every probability parameter lies in [0, 1],
// the dispersion is positive and the frequencies are usable.
func (p Params) Validate() error {
	rates := []struct {
		name  string
		value float64
	}{
		{"population mutation rate", p.PopulationMutationRate},
		{"germline mutation rate", p.GermlineMutationRate},
		{"somatic mutation rate", p.SomaticMutationRate},
		{"sequencing error rate", p.SequencingErrorRate},
	}
	for _, r := range rates {
		if math.IsNaN(r.value) || r.value < 0 || r.value > 1 {
			return fmt.Errorf("%s %v outside [0, 1]", r.name, r.value)
		}
	}
	if !(p.DirichletDispersion > 0) {
		return fmt.Errorf("dirichlet dispersion %v is not positive", p.DirichletDispersion)
	}
	if len(p.NucleotideFrequencies) != genotype.NumNucleotides {
		return fmt.Errorf("expected %d nucleotide frequencies, got %d",
			genotype.NumNucleotides, len(p.NucleotideFrequencies))
	}
	sum := 0.0
	for i, f := range p.NucleotideFrequencies {
		if math.IsNaN(f) || f < 0 {
			return fmt.Errorf("frequency of %c is %v", genotype.Alphabet[i], f)
		}
		sum += f
	}
	if sum <= 0 {
		return fmt.Errorf("nucleotide frequencies sum to %v", sum)
	}
	return nil
}

// String formats the parameters for logging.
func (p Params) String() string {
	return fmt.Sprintf("theta=%g, germline=%g, somatic=%g, error=%g, dispersion=%g, freqs=%v",
		p.PopulationMutationRate, p.GermlineMutationRate, p.SomaticMutationRate,
		p.SequencingErrorRate, p.DirichletDispersion, p.NucleotideFrequencies)
}

// LoadParams reads parameter values from a YAML file on top of the
// passed-in values; fields absent from the file are left unchanged.
func LoadParams(filename string, p Params) (Params, error) {
	p = p.Copy()
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("%s: %v", filename, err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("%s: %v", filename, err)
	}
	return p, nil
}

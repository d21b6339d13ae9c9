package trio

import (
	"io/ioutil"
	"path"
	"testing"
)

func TestValidate(tst *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		tst.Error("Default parameters should validate: ", err)
	}

	bad := DefaultParams()
	bad.GermlineMutationRate = -1e-9
	if bad.Validate() == nil {
		tst.Error("Negative rate should be rejected")
	}

	bad = DefaultParams()
	bad.SequencingErrorRate = 1.5
	if bad.Validate() == nil {
		tst.Error("Rate above one should be rejected")
	}

	bad = DefaultParams()
	bad.DirichletDispersion = 0
	if bad.Validate() == nil {
		tst.Error("Zero dispersion should be rejected")
	}

	bad = DefaultParams()
	bad.NucleotideFrequencies = []float64{1, 1, 1}
	if bad.Validate() == nil {
		tst.Error("Three frequencies should be rejected")
	}

	bad = DefaultParams()
	bad.NucleotideFrequencies = []float64{0, 0, 0, 0}
	if bad.Validate() == nil {
		tst.Error("All-zero frequencies should be rejected")
	}
}

func TestParamsCopy(tst *testing.T) {
	p := DefaultParams()
	c := p.Copy()
	c.NucleotideFrequencies[0] = 0.7
	if p.NucleotideFrequencies[0] != 0.25 {
		tst.Error("Copy should not share the frequency slice")
	}
}

func TestLoadParams(tst *testing.T) {
	fn := path.Join(tst.TempDir(), "params.yaml")
	text := []byte("germline_mutation_rate: 1e-7\nsequencing_error_rate: 0.01\n")
	if err := ioutil.WriteFile(fn, text, 0644); err != nil {
		tst.Fatal("Failed to write the file: ", err)
	}

	p, err := LoadParams(fn, DefaultParams())
	if err != nil {
		tst.Fatal("LoadParams failed: ", err)
	}
	if p.GermlineMutationRate != 1e-7 || p.SequencingErrorRate != 0.01 {
		tst.Error("File values not applied: ", p)
	}
	// Untouched fields keep their defaults.
	if p.PopulationMutationRate != 1e-3 || p.DirichletDispersion != 1000 {
		tst.Error("Defaults lost: ", p)
	}
}

func TestLoadParamsErrors(tst *testing.T) {
	if _, err := LoadParams(path.Join(tst.TempDir(), "missing.yaml"), DefaultParams()); err == nil {
		tst.Error("A missing file should be an error")
	}

	fn := path.Join(tst.TempDir(), "bad.yaml")
	if err := ioutil.WriteFile(fn, []byte("somatic_mutation_rate: 2\n"), 0644); err != nil {
		tst.Fatal("Failed to write the file: ", err)
	}
	if _, err := LoadParams(fn, DefaultParams()); err == nil {
		tst.Error("Out-of-range values should be rejected")
	}
}

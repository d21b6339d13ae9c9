package sim

import (
	"fmt"
	"io"
	"os"

	"github.com/kaeldai/novo-muta/reads"
	"github.com/kaeldai/novo-muta/trio"
)

// WriteProbability simulates sites and writes one line per site: the
// engine's mutation probability and the true mutation flag, tab
// separated.
func (s *Simulator) WriteProbability(w io.Writer, sites int) error {
	for i := 0; i < sites; i++ {
		t := s.Site()
		flag := 0
		if s.HasMutation() {
			flag = 1
		}
		p := s.model.MutationProbability(t)
		if _, err := fmt.Fprintf(w, "%g\t%d\n", p, flag); err != nil {
			return err
		}
	}
	return nil
}

// WriteTrioProbabilities writes the mutation probability of every trio
// in the universe under the model, one per line, in universe order.
func WriteTrioProbabilities(w io.Writer, m *trio.TrioModel, u *reads.Universe) error {
	for i := 0; i < u.Len(); i++ {
		if _, err := fmt.Fprintf(w, "%g\n", m.MutationProbability(u.At(i))); err != nil {
			return err
		}
	}
	return nil
}

// MutationCounts aggregates simulated sites by their position in the
// read universe: how many sites with that exact read-count trio
// carried a mutation and how many did not.
type MutationCounts struct {
	universe *reads.Universe
	with     []int
	without  []int
}

// NewMutationCounts creates empty counts over the universe.
func NewMutationCounts(u *reads.Universe) *MutationCounts {
	return &MutationCounts{
		universe: u,
		with:     make([]int, u.Len()),
		without:  make([]int, u.Len()),
	}
}

// Add records one site. Sites outside the universe (wrong coverage)
// are reported as an error and left uncounted.
func (c *MutationCounts) Add(t reads.Trio, hasMutation bool) error {
	i := c.universe.Index(t)
	if i < 0 {
		return fmt.Errorf("trio %v is not part of the universe", t)
	}
	if hasMutation {
		c.with[i]++
	} else {
		c.without[i]++
	}
	return nil
}

// WriteCounts writes one line per universe trio: index, sites with a
// mutation, sites without. Lines from parallel runs can be
// concatenated and summed by index downstream.
func (c *MutationCounts) WriteCounts(w io.Writer) error {
	for i := range c.with {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%d\n", i, c.with[i], c.without[i]); err != nil {
			return err
		}
	}
	return nil
}

// PrintCounts writes the counts to standard output.
func (c *MutationCounts) PrintCounts() error {
	return c.WriteCounts(os.Stdout)
}

// CountMutations simulates sites at the universe coverage and
// aggregates them into counts.
func (s *Simulator) CountMutations(counts *MutationCounts, sites int) error {
	if s.coverage != reads.UniverseCoverage {
		return fmt.Errorf("universe counts need coverage %d, simulator has %d",
			reads.UniverseCoverage, s.coverage)
	}
	for i := 0; i < sites; i++ {
		t := s.Site()
		if err := counts.Add(t, s.HasMutation()); err != nil {
			log.Warning("Skipping site: ", err)
		}
	}
	return nil
}

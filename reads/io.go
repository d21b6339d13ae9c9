package reads

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kaeldai/novo-muta/genotype"
)

// ParseSites reads one site per line: twelve whitespace-separated
// counts, child ACGT then mother ACGT then father ACGT. Blank lines
// are skipped; anything else malformed is an error.
func ParseSites(r io.Reader) ([]Trio, error) {
	var sites []Trio
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != NumIndividuals*genotype.NumNucleotides {
			return nil, fmt.Errorf("line %d: expected %d counts, got %d",
				lineno, NumIndividuals*genotype.NumNucleotides, len(fields))
		}
		var t Trio
		for i, f := range fields {
			n, err := strconv.ParseUint(f, 10, 16)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad count %q: %v", lineno, f, err)
			}
			t[i/genotype.NumNucleotides][i%genotype.NumNucleotides] = uint16(n)
		}
		sites = append(sites, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sites, nil
}

// SitesFromFile loads a sites file (see ParseSites for the format).
func SitesFromFile(filename string) ([]Trio, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sites, err := ParseSites(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", filename, err)
	}
	return sites, nil
}

// Package genotype defines the ordered diploid genotype state space
// shared by the mutation model, the simulator and the reporting tools.
package genotype

const (
	// NumNucleotides is the size of the nucleotide alphabet.
	NumNucleotides = 4
	// NumGenotypes is the number of ordered diploid genotypes
	// (AA, AC, ..., TT).
	NumGenotypes = NumNucleotides * NumNucleotides
	// NumParentPairs is the number of ordered mother/father genotype
	// pairs.
	NumParentPairs = NumGenotypes * NumGenotypes
)

// Alphabet lists the nucleotides in canonical order; every index in the
// package refers to this order.
var Alphabet = [NumNucleotides]byte{'A', 'C', 'G', 'T'}

var (
	// Table maps a genotype index to its ordered allele pair. The
	// genotype index is firstAllele*NumNucleotides + secondAllele, so
	// the table rows are AA, AC, AG, AT, CA, ....
	Table [NumGenotypes][2]int
	// Names maps a genotype index to its two-letter name ("AA".."TT").
	Names [NumGenotypes]string
	// AlleleCounts maps a genotype index to the number of copies of
	// each nucleotide it carries (each row sums to 2).
	AlleleCounts [NumGenotypes][NumNucleotides]float64
	// PairAlleleCounts maps an ordered mother/father genotype pair to
	// the combined allele counts of the four parental alleles (each
	// entry sums to 4).
	PairAlleleCounts [NumGenotypes][NumGenotypes][NumNucleotides]float64
)

func init() {
	for a1 := 0; a1 < NumNucleotides; a1++ {
		for a2 := 0; a2 < NumNucleotides; a2++ {
			g := FromAlleles(a1, a2)
			Table[g][0] = a1
			Table[g][1] = a2
			Names[g] = string([]byte{Alphabet[a1], Alphabet[a2]})
			AlleleCounts[g][a1]++
			AlleleCounts[g][a2]++
		}
	}
	for m := 0; m < NumGenotypes; m++ {
		for f := 0; f < NumGenotypes; f++ {
			for a := 0; a < NumNucleotides; a++ {
				PairAlleleCounts[m][f][a] = AlleleCounts[m][a] + AlleleCounts[f][a]
			}
		}
	}
}

// FromAlleles returns the genotype index of an ordered allele pair.
func FromAlleles(a1, a2 int) int {
	return a1*NumNucleotides + a2
}

// IsHomozygous returns true if both alleles of genotype g are equal.
func IsHomozygous(g int) bool {
	return Table[g][0] == Table[g][1]
}

// PairIndex returns the ordered parent-pair index of a mother and a
// father genotype (mother-major).
func PairIndex(mother, father int) int {
	return mother*NumGenotypes + father
}

// PairMother returns the mother genotype of parent pair pp.
func PairMother(pp int) int {
	return pp / NumGenotypes
}

// PairFather returns the father genotype of parent pair pp.
func PairFather(pp int) int {
	return pp % NumGenotypes
}

// Distance returns the number of allele positions at which two
// genotypes differ (0, 1 or 2).
func Distance(g1, g2 int) int {
	d := 0
	if Table[g1][0] != Table[g2][0] {
		d++
	}
	if Table[g1][1] != Table[g2][1] {
		d++
	}
	return d
}

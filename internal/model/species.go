package model

import "strings"

// Species identifies a genome supported for off-target analysis.
type Species string

const (
	Human     Species = "human"
	Mouse     Species = "mouse"
	Rat       Species = "rat"
	Zebrafish Species = "zebrafish"
	Celegans  Species = "celegans"

	DefaultSpecies = Human
)

// SupportedSpecies lists the accepted identifiers in display order.
var SupportedSpecies = []Species{Human, Mouse, Rat, Zebrafish, Celegans}

var speciesDisplay = map[Species]string{
	Human:     "Homo sapiens",
	Mouse:     "Mus musculus",
	Rat:       "Rattus norvegicus",
	Zebrafish: "Danio rerio",
	Celegans:  "Caenorhabditis elegans",
}

// ParseSpecies matches s case-insensitively against the supported set.
func ParseSpecies(s string) (Species, bool) {
	sp := Species(strings.ToLower(strings.TrimSpace(s)))
	_, ok := speciesDisplay[sp]
	return sp, ok
}

// DisplayName returns the scientific name, or the identifier itself when unknown.
func (s Species) DisplayName() string {
	if name, ok := speciesDisplay[s]; ok {
		return name
	}
	return string(s)
}

func (s Species) String() string { return string(s) }

// SpeciesList joins the supported identifiers with ", ".
func SpeciesList() string {
	names := make([]string, 0, len(SupportedSpecies))
	for _, s := range SupportedSpecies {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

package features

// Package features turns one raw UniProtKB entry into the flat set of
// textual fields written to the corpus.

// Field identifies one output column. The declaration order is the order of
// keys in every corpus line.
type Field int

const (
	Accession Field = iota
	Sequence
	Organism
	Family
	Domain
	Location
	Subunit
	Activity
	Cofactor
	PTM
	Pathway
	Tissue
	Induction
	Description
	numFields
)

var fieldNames = [numFields]string{
	Accession:   "accession",
	Sequence:    "sequence",
	Organism:    "organism",
	Family:      "family",
	Domain:      "domain",
	Location:    "location",
	Subunit:     "subunit",
	Activity:    "activity",
	Cofactor:    "cofactor",
	PTM:         "ptm",
	Pathway:     "pathway",
	Tissue:      "tissue",
	Induction:   "induction",
	Description: "description",
}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return "unknown"
	}
	return fieldNames[f]
}

// Fields lists every field in output order.
func Fields() []Field {
	out := make([]Field, numFields)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// Features holds the cleaned value of every field; unresolved fields are "".
type Features [numFields]string

func (fs Features) Get(f Field) string { return fs[f] }

// Line is one corpus record. Field order matches the Field enumeration.
type Line struct {
	Accession   string `json:"accession"`
	Sequence    string `json:"sequence"`
	Organism    string `json:"organism"`
	Family      string `json:"family"`
	Domain      string `json:"domain"`
	Location    string `json:"location"`
	Subunit     string `json:"subunit"`
	Activity    string `json:"activity"`
	Cofactor    string `json:"cofactor"`
	PTM         string `json:"ptm"`
	Pathway     string `json:"pathway"`
	Tissue      string `json:"tissue"`
	Induction   string `json:"induction"`
	Description string `json:"description"`
}

// Line builds the corpus record for one sequence segment; every other field
// is copied as is.
func (fs Features) Line(segment string) Line {
	return Line{
		Accession:   fs[Accession],
		Sequence:    segment,
		Organism:    fs[Organism],
		Family:      fs[Family],
		Domain:      fs[Domain],
		Location:    fs[Location],
		Subunit:     fs[Subunit],
		Activity:    fs[Activity],
		Cofactor:    fs[Cofactor],
		PTM:         fs[PTM],
		Pathway:     fs[Pathway],
		Tissue:      fs[Tissue],
		Induction:   fs[Induction],
		Description: fs[Description],
	}
}

package features

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrMissingAccession is returned when an entry has no primaryAccession; no
// other field is extracted for it.
var ErrMissingAccession = errors.New("entry has no primaryAccession")

// Separator joins several values of one field.
const Separator = " | "

// UniProtKB comment types.
const (
	commentFunction    = "FUNCTION"
	commentSimilarity  = "SIMILARITY"
	commentDomain      = "DOMAIN"
	commentLocation    = "SUBCELLULAR LOCATION"
	commentSubunit     = "SUBUNIT"
	commentCatalytic   = "CATALYTIC ACTIVITY"
	commentCofactor    = "COFACTOR"
	commentPTM         = "PTM"
	commentPathway     = "PATHWAY"
	commentTissue      = "TISSUE SPECIFICITY"
	commentInduction   = "INDUCTION"
	unknownLocationTag = "unknown"
)

// accessor resolves the raw value of one field from a decoded entry.
type accessor func(entry map[string]any) (string, error)

// Extractor maps every Field to its accessor. The table is fixed when the
// Extractor is built.
type Extractor struct {
	accessors [numFields]accessor
	logger    *log.Logger
}

func NewExtractor(logger *log.Logger) *Extractor {
	return &Extractor{
		logger: logger,
		accessors: [numFields]accessor{
			Accession:   accessionOf,
			Sequence:    sequenceOf,
			Organism:    organismOf,
			Family:      commentTexts(commentSimilarity),
			Domain:      commentTexts(commentDomain),
			Location:    subcellularLocations,
			Subunit:     commentTexts(commentSubunit),
			Activity:    reactionNames,
			Cofactor:    cofactors,
			PTM:         commentTexts(commentPTM),
			Pathway:     commentTexts(commentPathway),
			Tissue:      commentTexts(commentTissue),
			Induction:   commentTexts(commentInduction),
			Description: commentTexts(commentFunction),
		},
	}
}

// Extract resolves every field of entry and strips PubMed citations from the
// result. A field whose path cannot be followed is left empty and logged;
// only a missing accession fails the whole entry.
func (e *Extractor) Extract(entry map[string]any) (Features, error) {
	var out Features

	acc, err := accessionOf(entry)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrMissingAccession, err)
	}

	for f, get := range e.accessors {
		v, err := get(entry)
		if err != nil {
			e.logger.Warn("field not extracted", "field", Field(f), "accession", acc, "err", err)
			continue
		}
		out[f] = StripCitations(v)
	}
	return out, nil
}

func accessionOf(entry map[string]any) (string, error) {
	return lookupString(entry, "primaryAccession")
}

func sequenceOf(entry map[string]any) (string, error) {
	return lookupString(entry, "sequence", "value")
}

func organismOf(entry map[string]any) (string, error) {
	lineage, err := lookupList(entry, "organism", "lineage")
	if err != nil {
		return "", err
	}
	if len(lineage) == 0 {
		return "", errors.New("organism lineage is empty")
	}
	last, ok := lineage[len(lineage)-1].(string)
	if !ok {
		return "", errors.New("organism lineage holds a non-string")
	}
	name, err := lookupString(entry, "organism", "scientificName")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("lineage: %s, organism: %s", last, name), nil
}

// commentsOf returns the comments of entry whose commentType is kind, in
// source order.
func commentsOf(entry map[string]any, kind string) ([]any, error) {
	comments, err := lookupList(entry, "comments")
	if err != nil {
		return nil, err
	}
	var matched []any
	for _, c := range comments {
		t, err := lookupString(c, "commentType")
		if err != nil {
			return nil, err
		}
		if t == kind {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// textValues collects texts[*].value below the given keys of v.
func textValues(v any, keys ...string) ([]string, error) {
	texts, err := lookupList(v, append(keys, "texts")...)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(texts))
	for _, t := range texts {
		s, err := lookupString(t, "value")
		if err != nil {
			return nil, err
		}
		values = append(values, s)
	}
	return values, nil
}

func commentTexts(kind string) accessor {
	return func(entry map[string]any) (string, error) {
		comments, err := commentsOf(entry, kind)
		if err != nil {
			return "", err
		}
		var values []string
		for _, c := range comments {
			texts, err := textValues(c)
			if err != nil {
				return "", err
			}
			values = append(values, texts...)
		}
		return strings.Join(values, Separator), nil
	}
}

func reactionNames(entry map[string]any) (string, error) {
	comments, err := commentsOf(entry, commentCatalytic)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(comments))
	for _, c := range comments {
		name, err := lookupString(c, "reaction", "name")
		if err != nil {
			return "", err
		}
		names = append(names, name)
	}
	return strings.Join(names, Separator), nil
}

// notes collects note.texts[*].value of every comment carrying a note.
func notes(comments []any) ([]string, error) {
	var values []string
	for _, c := range comments {
		if !has(c, "note") {
			continue
		}
		texts, err := textValues(c, "note")
		if err != nil {
			return nil, err
		}
		values = append(values, texts...)
	}
	return values, nil
}

// subcellularLocations renders structured locations first, then the free
// text notes of the same comments.
func subcellularLocations(entry map[string]any) (string, error) {
	comments, err := commentsOf(entry, commentLocation)
	if err != nil {
		return "", err
	}
	var values []string
	for _, c := range comments {
		if !has(c, "subcellularLocations") {
			continue
		}
		locs, err := lookupList(c, "subcellularLocations")
		if err != nil {
			return "", err
		}
		for _, loc := range locs {
			s, err := formatLocation(loc)
			if err != nil {
				return "", err
			}
			values = append(values, s)
		}
	}
	n, err := notes(comments)
	if err != nil {
		return "", err
	}
	return strings.Join(append(values, n...), Separator), nil
}

func formatLocation(loc any) (string, error) {
	var parts [3]string
	for i, key := range [3]string{"location", "topology", "orientation"} {
		if !has(loc, key) {
			parts[i] = unknownLocationTag
			continue
		}
		v, err := lookupString(loc, key, "value")
		if err != nil {
			return "", err
		}
		parts[i] = v
	}
	return fmt.Sprintf("location: %s; topology: %s; orientation: %s", parts[0], parts[1], parts[2]), nil
}

// cofactors renders named cofactors first, then the free text notes.
func cofactors(entry map[string]any) (string, error) {
	comments, err := commentsOf(entry, commentCofactor)
	if err != nil {
		return "", err
	}
	var values []string
	for _, c := range comments {
		if !has(c, "cofactors") {
			continue
		}
		list, err := lookupList(c, "cofactors")
		if err != nil {
			return "", err
		}
		for _, cf := range list {
			name, err := lookupString(cf, "name")
			if err != nil {
				return "", err
			}
			values = append(values, name)
		}
	}
	n, err := notes(comments)
	if err != nil {
		return "", err
	}
	return strings.Join(append(values, n...), Separator), nil
}

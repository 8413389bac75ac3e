package dataset

import (
	"strings"
	"time"
)

// Kind is the value type stored in a column.
type Kind string

const (
	KindText    Kind = "text"
	KindNumeric Kind = "numeric"
	KindDate    Kind = "date"
)

// Field identifies one column of the observation schema.
type Field int

const (
	FieldID Field = iota
	FieldCommonName
	FieldScientificName
	FieldFamily
	FieldGenus
	FieldLength
	FieldWeight
	FieldAgeClass
	FieldSex
	FieldObservedOn
	FieldRegion
	FieldHabitat
	FieldConservation
	FieldObserver
	FieldNotes
	numFields
)

var fieldSpecs = [numFields]struct {
	header string
	kind   Kind
}{
	FieldID:             {"Observation ID", KindText},
	FieldCommonName:     {"Common Name", KindText},
	FieldScientificName: {"Scientific Name", KindText},
	FieldFamily:         {"Family", KindText},
	FieldGenus:          {"Genus", KindText},
	FieldLength:         {"Observed Length (m)", KindNumeric},
	FieldWeight:         {"Observed Weight (kg)", KindNumeric},
	FieldAgeClass:       {"Age Class", KindText},
	FieldSex:            {"Sex", KindText},
	FieldObservedOn:     {"Date of Observation", KindDate},
	FieldRegion:         {"Country/Region", KindText},
	FieldHabitat:        {"Habitat Type", KindText},
	FieldConservation:   {"Conservation Status", KindText},
	FieldObserver:       {"Observer Name", KindText},
	FieldNotes:          {"Notes", KindText},
}

// Header returns the column name as it appears in the source file.
func (f Field) Header() string {
	if f < 0 || f >= numFields {
		return ""
	}
	return fieldSpecs[f].header
}

// Kind returns the value type of the column.
func (f Field) Kind() Kind {
	if f < 0 || f >= numFields {
		return ""
	}
	return fieldSpecs[f].kind
}

func (f Field) String() string { return f.Header() }

// Schema returns every field in declared column order.
func Schema() []Field {
	out := make([]Field, numFields)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// FieldByHeader resolves a header name (case-insensitive, trimmed).
func FieldByHeader(name string) (Field, bool) {
	n := strings.TrimSpace(name)
	for i, s := range fieldSpecs {
		if strings.EqualFold(s.header, n) {
			return Field(i), true
		}
	}
	return 0, false
}

// Measure is a numeric cell; Valid is false when the source cell was empty.
type Measure struct {
	Value float64
	Valid bool
}

// Observation is one record of the dataset.
type Observation struct {
	ID             string
	CommonName     string
	ScientificName string
	Family         string
	Genus          string
	Length         Measure // metres
	Weight         Measure // kilograms
	AgeClass       string
	Sex            string
	ObservedOn     time.Time
	ObservedOnRaw  string
	Region         string
	Habitat        string
	Conservation   string
	Observer       string
	Notes          string
}

// Text returns the textual value of f. Numeric fields are formatted and
// empty when missing; the date field returns its source text.
func (o *Observation) Text(f Field) string {
	switch f {
	case FieldID:
		return o.ID
	case FieldCommonName:
		return o.CommonName
	case FieldScientificName:
		return o.ScientificName
	case FieldFamily:
		return o.Family
	case FieldGenus:
		return o.Genus
	case FieldLength:
		return o.Length.String()
	case FieldWeight:
		return o.Weight.String()
	case FieldAgeClass:
		return o.AgeClass
	case FieldSex:
		return o.Sex
	case FieldObservedOn:
		return o.ObservedOnRaw
	case FieldRegion:
		return o.Region
	case FieldHabitat:
		return o.Habitat
	case FieldConservation:
		return o.Conservation
	case FieldObserver:
		return o.Observer
	case FieldNotes:
		return o.Notes
	}
	return ""
}

// Number returns the numeric value of f, if f is numeric.
func (o *Observation) Number(f Field) (Measure, bool) {
	switch f {
	case FieldLength:
		return o.Length, true
	case FieldWeight:
		return o.Weight, true
	}
	return Measure{}, false
}

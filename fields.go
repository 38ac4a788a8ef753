package docpager

import (
	"strings"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
)

// Fields is a field selection. A leading "-" excludes the field, anything
// else includes it.
type Fields []string

// ParseFields splits a selection such as "email -password" or
// "email,createdAt" into Fields.
func ParseFields(s string) Fields {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// Inclusions returns the selected fields.
func (f Fields) Inclusions() []string {
	return lo.FilterMap(f, func(field string, _ int) (string, bool) {
		field = strings.TrimPrefix(field, "+")
		return field, field != "" && !strings.HasPrefix(field, "-")
	})
}

// Exclusions returns the excluded fields, without the "-" prefix.
func (f Fields) Exclusions() []string {
	return lo.FilterMap(f, func(field string, _ int) (string, bool) {
		return strings.TrimPrefix(field, "-"), len(field) > 1 && strings.HasPrefix(field, "-")
	})
}

// ToProjection converts the selection to a projection document.
func (f Fields) ToProjection() bson.D {
	if len(f) == 0 {
		return nil
	}

	ret := make(bson.D, 0, len(f))
	for _, field := range f.Inclusions() {
		ret = append(ret, bson.E{Key: field, Value: 1})
	}
	for _, field := range f.Exclusions() {
		ret = append(ret, bson.E{Key: field, Value: 0})
	}

	return ret
}

// Collation holds locale-aware string comparison rules.
type Collation struct {
	Locale          string `json:"locale" yaml:"locale"`
	CaseLevel       bool   `json:"caseLevel,omitempty" yaml:"caseLevel,omitempty"`
	CaseFirst       string `json:"caseFirst,omitempty" yaml:"caseFirst,omitempty"`
	Strength        int    `json:"strength,omitempty" yaml:"strength,omitempty"`
	NumericOrdering bool   `json:"numericOrdering,omitempty" yaml:"numericOrdering,omitempty"`
}

// IsEmpty reports whether the collation carries no rule at all.
func (c *Collation) IsEmpty() bool {
	return c == nil || *c == Collation{}
}

// Lookup is a single join against another collection.
type Lookup struct {
	From         string `json:"from" yaml:"from"`
	LocalField   string `json:"localField" yaml:"localField"`
	ForeignField string `json:"foreignField" yaml:"foreignField"`
	As           string `json:"as" yaml:"as"`
}

func (l *Lookup) IsEmpty() bool {
	return l == nil || *l == Lookup{}
}

// Stage returns the $lookup pipeline stage.
func (l *Lookup) Stage() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: l.From},
		{Key: "localField", Value: l.LocalField},
		{Key: "foreignField", Value: l.ForeignField},
		{Key: "as", Value: l.As},
	}}}
}

// Populate names a relation to resolve on fetched records.
//
// SQL executors only use Path (the association name). Document executors
// replace Path with the referenced record(s) of the From collection, matched
// on ForeignField ("_id" when empty). Unless Many is set, the relation is a
// single reference and the joined array is unwound.
type Populate struct {
	Path         string `json:"path" yaml:"path"`
	From         string `json:"from,omitempty" yaml:"from,omitempty"`
	ForeignField string `json:"foreignField,omitempty" yaml:"foreignField,omitempty"`
	Many         bool   `json:"many,omitempty" yaml:"many,omitempty"`
}

// Lookup converts the relation to a join writing into Path.
func (p Populate) Lookup() *Lookup {
	return &Lookup{
		From:         p.From,
		LocalField:   p.Path,
		ForeignField: lo.Ternary(p.ForeignField == "", "_id", p.ForeignField),
		As:           p.Path,
	}
}

package docpager

import (
	"fmt"

	"github.com/samber/lo"
)

// Field identifies one entry of the result envelope.
type Field int

const (
	FieldDocs Field = iota
	FieldTotalDocs
	FieldLimit
	FieldHasNextPage
	FieldHasPrevPage
	FieldPage
	FieldTotalPages
	FieldPrevPage
	FieldNextPage
	FieldPagingCounter

	fieldCount
)

// LabelDisabled removes a field from the result envelope.
const LabelDisabled = "-"

var _fieldNames = [fieldCount]string{
	FieldDocs:          "docs",
	FieldTotalDocs:     "totalDocs",
	FieldLimit:         "limit",
	FieldHasNextPage:   "hasNextPage",
	FieldHasPrevPage:   "hasPrevPage",
	FieldPage:          "page",
	FieldTotalPages:    "totalPages",
	FieldPrevPage:      "prevPage",
	FieldNextPage:      "nextPage",
	FieldPagingCounter: "pagingCounter",
}

// AllFields returns every envelope field in output order.
func AllFields() []Field {
	return lo.Times(int(fieldCount), func(i int) Field { return Field(i) })
}

func (f Field) Valid() bool {
	return f >= 0 && f < fieldCount
}

// String returns the canonical key of the field.
func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}

	return _fieldNames[f]
}

// ParseField maps a canonical key such as "totalDocs" to its Field.
func ParseField(s string) (Field, error) {
	idx := lo.IndexOf(_fieldNames[:], s)
	if idx == -1 {
		return 0, fmt.Errorf("unknown envelope field '%s'", s)
	}

	return Field(idx), nil
}

func (f Field) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("invalid envelope field %d", int(f))
	}

	return []byte(f.String()), nil
}

func (f *Field) UnmarshalText(text []byte) error {
	parsed, err := ParseField(string(text))
	if err != nil {
		return err
	}

	*f = parsed

	return nil
}

// Labels are per-field output key overrides. An empty value leaves the lower
// priority label in place; LabelDisabled omits the field.
type Labels map[Field]string

// ParseLabels converts canonical-key overrides, as found in config files and
// API payloads, into Labels.
func ParseLabels(raw map[string]string) (Labels, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	ret := make(Labels, len(raw))
	for key, label := range raw {
		field, err := ParseField(key)
		if err != nil {
			return nil, err
		}
		ret[field] = label
	}

	return ret, nil
}

// LabelMap is the resolved output key of every enabled envelope field.
// Disabled fields have no entry.
type LabelMap map[Field]string

// DefaultLabelMap maps every field to its canonical key.
func DefaultLabelMap() LabelMap {
	return lo.SliceToMap(AllFields(), func(f Field) (Field, string) {
		return f, f.String()
	})
}

// ResolveLabels merges label layers in ascending priority over the canonical
// keys.
func ResolveLabels(layers ...Labels) LabelMap {
	merged := map[Field]string(DefaultLabelMap())
	for _, layer := range layers {
		merged = lo.Assign(merged, lo.OmitByValues(map[Field]string(layer), []string{""}))
	}

	return lo.OmitByValues(merged, []string{LabelDisabled})
}

// Key returns the output key of the field and whether it is emitted at all.
func (m LabelMap) Key(f Field) (string, bool) {
	key, ok := m[f]
	return key, ok
}

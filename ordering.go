package docpager

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/gorm"
)

// Direction defines the sort direction for the requested dataset.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (o Direction) Valid() bool {
	return o == DirectionASC || o == DirectionDESC
}

// Normalize maps any spelling of "desc" to DirectionDESC and everything
// else, including the empty direction, to DirectionASC.
func (o Direction) Normalize() Direction {
	if strings.EqualFold(strings.TrimSpace(string(o)), string(DirectionDESC)) {
		return DirectionDESC
	}

	return DirectionASC
}

// BSON returns the numeric sort order understood by document stores.
func (o Direction) BSON() int {
	if o.Normalize() == DirectionDESC {
		return -1
	}

	return 1
}

type (
	Orderings []OrderBy
	OrderBy   struct {
		Column    string    `json:"column" yaml:"column"`
		Direction Direction `json:"direction" yaml:"direction"`
	}

	ColumnAlias = string

	// ColumnMapping maps external column aliases to internal field names.
	// Key is an external alias, value is an internal column name.
	ColumnMapping = map[ColumnAlias]string
)

var _availableColumnNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

func (o OrderBy) validate() error {
	if !o.Direction.Valid() {
		return fmt.Errorf("invalid ordering direction '%s'", o.Direction)
	}

	// Column names end up inside raw ORDER BY clauses for SQL executors.
	if len(o.Column) == 0 || !lo.Every(_availableColumnNameSymbols, []rune(o.Column)) {
		return fmt.Errorf("ordering column name contains forbidden symbols '%s'", o.Column)
	}

	return nil
}

// Normalize returns a copy with every direction normalized. Orderings
// without a column are dropped.
func (o Orderings) Normalize() Orderings {
	if len(o) == 0 {
		return nil
	}

	return lo.FilterMap(o, func(ordering OrderBy, _ int) (OrderBy, bool) {
		ordering.Column = strings.TrimSpace(ordering.Column)
		ordering.Direction = ordering.Direction.Normalize()
		return ordering, ordering.Column != ""
	})
}

// ToSQL converts Orderings to a single string
// "<order_column_1> <order_direction_1>, <order_column_2> <order_direction_2>".
// Example: for [{"a", "ASC"}, {"b", "DESC"}] returns "a ASC, b DESC".
func (o Orderings) ToSQL() string {
	return strings.Join(lo.Map(o, func(ordering OrderBy, _ int) string {
		return fmt.Sprintf("%s %s", ordering.Column, ordering.Direction)
	}), ", ")
}

// ToBSON converts Orderings to an ordered sort document.
// Example: for [{"a", "ASC"}, {"b", "DESC"}] returns {a: 1, b: -1}.
func (o Orderings) ToBSON() bson.D {
	ret := make(bson.D, 0, len(o))
	for _, ordering := range o {
		ret = append(ret, bson.E{Key: ordering.Column, Value: ordering.Direction.BSON()})
	}

	return ret
}

// Apply applies the ordering to a gorm query.
func (o Orderings) Apply(db *gorm.DB) *gorm.DB {
	if len(o) == 0 {
		return db
	}

	return db.Order(o.ToSQL())
}

// Validate checks every ordering. An empty list is valid and means "unsorted".
func (o Orderings) Validate() error {
	for _, ordering := range o {
		if err := ordering.validate(); err != nil {
			return err
		}
	}

	return nil
}

// ParseSort builds Orderings from a list of sort expressions. Each element may
// hold several whitespace separated terms in one of the forms:
//
//	"column asc|desc"
//	"column" or "+column" (ascending)
//	"-column" (descending)
//
// Column aliases are resolved via ColumnMapping. A nil mapping accepts column
// names as-is. Returns an error if an alias is not found in a non-nil mapping.
func ParseSort(stringsOrderings []string, columnMapping ColumnMapping) (Orderings, error) {
	ret := make(Orderings, 0, len(stringsOrderings))

	for _, stringOrdering := range stringsOrderings {
		terms := strings.Fields(strings.ReplaceAll(stringOrdering, ",", " "))
		for i := 0; i < len(terms); i++ {
			columnAlias, direction := terms[i], DirectionASC
			if i+1 < len(terms) {
				if d := Direction(strings.ToUpper(terms[i+1])); d.Valid() {
					direction = d
					i++
				}
			}

			switch {
			case strings.HasPrefix(columnAlias, "-"):
				columnAlias, direction = columnAlias[1:], DirectionDESC
			case strings.HasPrefix(columnAlias, "+"):
				columnAlias = columnAlias[1:]
			}

			column, err := resolveColumn(columnAlias, columnMapping)
			if err != nil {
				return nil, err
			}

			ret = append(ret, OrderBy{Column: column, Direction: direction})
		}
	}

	return ret, ret.Validate()
}

func resolveColumn(alias ColumnAlias, columnMapping ColumnMapping) (string, error) {
	if columnMapping == nil {
		return alias, nil
	}

	column := columnMapping[alias]
	if column == "" {
		return "", fmt.Errorf("invalid column alias '%s'. closest: '%s'", alias, closestAlias(alias, lo.Keys(columnMapping)))
	}

	return column, nil
}

func closestAlias(input ColumnAlias, dataSet []ColumnAlias) ColumnAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		if dist < minDist || (dist == minDist && dataSetAlias < closest) {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}

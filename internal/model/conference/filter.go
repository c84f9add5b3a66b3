package conference

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deppfellow/conference-central/internal/errs"
)

// Field is a filterable conference property.
type Field string

const (
	FieldName         Field = "name"
	FieldCity         Field = "city"
	FieldTopics       Field = "topics"
	FieldMonth        Field = "month"
	FieldMaxAttendees Field = "maxAttendees"
)

// Operator is a comparison between a property and a value.
type Operator string

const (
	OpEQ   Operator = "="
	OpGT   Operator = ">"
	OpGTEQ Operator = ">="
	OpLT   Operator = "<"
	OpLTEQ Operator = "<="
	OpNE   Operator = "!="
)

// IsInequality reports whether the operator is anything but equality.
func (o Operator) IsInequality() bool {
	return o != OpEQ
}

var filterFields = map[string]Field{
	"CITY":          FieldCity,
	"TOPIC":         FieldTopics,
	"MONTH":         FieldMonth,
	"MAX_ATTENDEES": FieldMaxAttendees,
}

var filterOperators = map[string]Operator{
	"EQ":   OpEQ,
	"GT":   OpGT,
	"GTEQ": OpGTEQ,
	"LT":   OpLT,
	"LTEQ": OpLTEQ,
	"NE":   OpNE,
}

// IsNumeric reports whether values for the field are integers.
func (f Field) IsNumeric() bool {
	return f == FieldMonth || f == FieldMaxAttendees
}

// IsRepeated reports whether the field holds a list. A filter on a repeated
// field matches when any element satisfies it.
func (f Field) IsRepeated() bool {
	return f == FieldTopics
}

// Filter is a validated condition. Value is a string, or an int for
// numeric fields.
type Filter struct {
	Field    Field
	Operator Operator
	Value    any
}

// Query is a validated set of filters combined with AND.
//
// At most one field carries inequality filters. Results are ordered by that
// field first, when present, and then by name.
type Query struct {
	Filters         []Filter
	InequalityField Field
}

// OrderBy returns the sort fields.
func (q *Query) OrderBy() []Field {
	if q.InequalityField == "" {
		return []Field{FieldName}
	}
	return []Field{q.InequalityField, FieldName}
}

var (
	invalidFilterCode   = "INVALID_FILTER"
	inequalityLimitCode = "INEQUALITY_FILTER_LIMIT"
)

// FormatFilters validates client filters and builds a Query. Field and
// operator names are case sensitive, as clients send them upper case.
func FormatFilters(in []QueryFilter) (*Query, error) {
	q := &Query{Filters: make([]Filter, 0, len(in))}

	for _, f := range in {
		field, okField := filterFields[f.Field]
		op, okOp := filterOperators[f.Operator]
		if !okField || !okOp {
			return nil, errs.NewBadRequestError("Filter contains invalid field or operator.", true, &invalidFilterCode, nil, nil)
		}

		if op.IsInequality() {
			if q.InequalityField != "" && q.InequalityField != field {
				return nil, errs.NewBadRequestError("Inequality filter is allowed on only one field.", true, &inequalityLimitCode, nil, nil)
			}
			q.InequalityField = field
		}

		filter := Filter{Field: field, Operator: op, Value: f.Value}
		if field.IsNumeric() {
			n, err := strconv.Atoi(strings.TrimSpace(f.Value))
			if err != nil {
				return nil, errs.NewBadRequestError(
					fmt.Sprintf("Filter value for %s must be an integer.", f.Field), true, &invalidFilterCode, nil, nil)
			}
			filter.Value = n
		}

		q.Filters = append(q.Filters, filter)
	}

	return q, nil
}

// PlaygroundQuery is the fixed query behind the filter playground: London
// conferences about Medical Innovations with more than ten attendees.
func PlaygroundQuery() *Query {
	return &Query{
		Filters: []Filter{
			{Field: FieldCity, Operator: OpEQ, Value: "London"},
			{Field: FieldTopics, Operator: OpEQ, Value: "Medical Innovations"},
			{Field: FieldMaxAttendees, Operator: OpGT, Value: 10},
		},
		InequalityField: FieldMaxAttendees,
	}
}

// Matches evaluates the query against c in memory. The database evaluates
// the same semantics in SQL; this is used where no database is involved.
func (q *Query) Matches(c *Conference) bool {
	for _, f := range q.Filters {
		if !f.matches(c) {
			return false
		}
	}
	return true
}

func (f Filter) matches(c *Conference) bool {
	switch f.Field {
	case FieldCity:
		return compare(strings.Compare(c.City, f.Value.(string)), f.Operator)
	case FieldMonth:
		return compare(cmpInt(c.Month, f.Value.(int)), f.Operator)
	case FieldMaxAttendees:
		return compare(cmpInt(c.MaxAttendees, f.Value.(int)), f.Operator)
	case FieldTopics:
		for _, t := range c.Topics {
			if compare(strings.Compare(t, f.Value.(string)), f.Operator) {
				return true
			}
		}
	}
	return false
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compare(c int, op Operator) bool {
	switch op {
	case OpEQ:
		return c == 0
	case OpNE:
		return c != 0
	case OpGT:
		return c > 0
	case OpGTEQ:
		return c >= 0
	case OpLT:
		return c < 0
	case OpLTEQ:
		return c <= 0
	}
	return false
}

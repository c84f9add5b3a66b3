package repository

import (
	"fmt"
	"strings"

	"github.com/deppfellow/conference-central/internal/model/conference"
	"github.com/jackc/pgx/v5"
)

var conferenceFieldColumns = map[conference.Field]string{
	conference.FieldName:         "name",
	conference.FieldCity:         "city",
	conference.FieldTopics:       "topics",
	conference.FieldMonth:        "month",
	conference.FieldMaxAttendees: "max_attendees",
}

var sqlOperators = map[conference.Operator]string{
	conference.OpEQ:   "=",
	conference.OpNE:   "<>",
	conference.OpGT:   ">",
	conference.OpGTEQ: ">=",
	conference.OpLT:   "<",
	conference.OpLTEQ: "<=",
}

// mirrored swaps the operands of a comparison: a > b is b < a.
var mirrored = map[conference.Operator]conference.Operator{
	conference.OpEQ:   conference.OpEQ,
	conference.OpNE:   conference.OpNE,
	conference.OpGT:   conference.OpLT,
	conference.OpGTEQ: conference.OpLTEQ,
	conference.OpLT:   conference.OpGT,
	conference.OpLTEQ: conference.OpGTEQ,
}

// buildConferenceQuery renders q as a WHERE ... ORDER BY clause. Column
// names and operators come from fixed tables; values are always bound.
//
// A filter on the topics array matches when any element satisfies it,
// which Postgres spells "value <mirrored op> ANY(topics)".
func buildConferenceQuery(q *conference.Query) (string, pgx.NamedArgs, error) {
	var (
		conds []string
		args  = pgx.NamedArgs{}
	)

	for i, f := range q.Filters {
		column, ok := conferenceFieldColumns[f.Field]
		if !ok {
			return "", nil, fmt.Errorf("unsupported conference filter field %q", f.Field)
		}
		op, ok := sqlOperators[f.Operator]
		if !ok {
			return "", nil, fmt.Errorf("unsupported conference filter operator %q", f.Operator)
		}

		arg := fmt.Sprintf("f%d", i)
		args[arg] = f.Value

		if f.Field.IsRepeated() {
			conds = append(conds, fmt.Sprintf("@%s %s ANY(%s)", arg, sqlOperators[mirrored[f.Operator]], column))
		} else {
			conds = append(conds, fmt.Sprintf("%s %s @%s", column, op, arg))
		}
	}

	order := make([]string, 0, 3)
	for _, f := range q.OrderBy() {
		column, ok := conferenceFieldColumns[f]
		if !ok {
			return "", nil, fmt.Errorf("unsupported conference order field %q", f)
		}
		order = append(order, column)
	}
	order = append(order, "id")

	var b strings.Builder
	if len(conds) > 0 {
		b.WriteString("WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
		b.WriteByte(' ')
	}
	b.WriteString("ORDER BY ")
	b.WriteString(strings.Join(order, ", "))

	return b.String(), args, nil
}

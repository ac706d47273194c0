// Package querysql renders an ir.Query as parameterized SQL text.
//
// All values are parameterized (never interpolated). Each retained leaf
// renders one "?" placeholder, and Args returns the bound values in the same
// order, so position i in the argument list binds to the i-th placeholder.
//
// Identifiers (table, field names) are written verbatim. Escaping and
// validation are the caller's responsibility.
package querysql

import (
	"strconv"
	"strings"

	"github.com/fndome/zxb/internal/ir"
)

// Placeholder is the positional marker written for each bound value.
// Converting it to another driver's style ($1, :name) is left to the caller.
const Placeholder = "?"

// Compile renders the SELECT statement for q:
//
//	SELECT * FROM <table>
//	[ WHERE <key> <op> ? [AND ...]]
//	[ ORDER BY <field> <ASC|DESC>[, ...]]
//	[ LIMIT <n>]
//	[ OFFSET <n>]
func Compile(q *ir.Query) string {
	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(q.Table)
	writeWhere(&sb, q)

	if len(q.Sorts) > 0 {
		sb.WriteString(" ORDER BY ")
		for i, s := range q.Sorts {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(s.Field)
			sb.WriteByte(' ')
			sb.WriteString(s.Dir.String())
		}
	}

	if q.HasLimit() {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(q.Limit))
	}
	if q.HasOffset() {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(q.Offset))
	}
	return sb.String()
}

// Count renders a COUNT(*) statement with the same WHERE clause as Compile.
// Sorts, limit and offset are left out so the count covers every matching row.
// It binds the same Args as Compile.
func Count(q *ir.Query) string {
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) FROM ")
	sb.WriteString(q.Table)
	writeWhere(&sb, q)
	return sb.String()
}

// Args returns the values bound to the placeholders written by Compile.
//
// A Null leaf renders a literal NULL and binds nothing. Builder mutators
// never store filtered values, so for builder state every leaf contributes
// exactly one argument. For hand-built queries the pairing with Compile still
// holds: a leaf is skipped here exactly when it writes no placeholder.
func Args(q *ir.Query) []ir.Value {
	var args []ir.Value
	for _, c := range q.Leaves() {
		if placeholderFor(c.Value) != Placeholder {
			continue
		}
		args = append(args, c.Value)
	}
	return args
}

// Params converts bound values to database/sql driver arguments.
func Params(args []ir.Value) []any {
	return ir.Natives(args)
}

// writeWhere writes " WHERE a = ? AND b > ?" for the leaves of q.
// Compound nodes are not rendered.
func writeWhere(sb *strings.Builder, q *ir.Query) {
	leaves := q.Leaves()
	if len(leaves) == 0 {
		return
	}

	sb.WriteString(" WHERE ")
	for i, c := range leaves {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		sb.WriteString(c.Key)
		sb.WriteByte(' ')
		sb.WriteString(c.Op)
		sb.WriteByte(' ')
		sb.WriteString(placeholderFor(c.Value))
	}
}

// placeholderFor returns the token written for v. Null has no argument to
// bind, so it is written as a literal.
func placeholderFor(v ir.Value) string {
	if v == nil || v.Kind() == ir.KindNull {
		return "NULL"
	}
	return Placeholder
}

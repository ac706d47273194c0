// Package backend defines the pluggable generation contract a Builder can
// delegate to, and the reference backends.
//
// A backend turns the accumulated query state into exactly one of two
// artifact shapes:
//
//	*Relational - SQL text, ordered arguments, optional COUNT query
//	*Document   - an opaque serialized document for a non-relational target
//
// Result is a sealed interface using the marker method pattern, so callers
// can switch on it exhaustively:
//
//	switch r := res.(type) {
//	case *backend.Relational:
//	    rows, err := db.Query(r.SQL, r.Params()...)
//	case *backend.Document:
//	    resp, err := http.Post(url, "application/json", bytes.NewReader(r.Body))
//	}
//
// Backends never execute anything; running the artifact is the caller's job.
package backend

import (
	"fmt"

	"github.com/fndome/zxb/internal/ir"
	"github.com/fndome/zxb/internal/querysql"
)

// Backend generates a target-specific artifact from query state.
//
// Generate must not retain or modify q.
type Backend interface {
	Name() string
	Generate(q *ir.Query) (Result, error)
}

// Result is the artifact produced by a Backend.
// Only *Relational and *Document implement it.
type Result interface {
	result() // Marker method - seals interface to this package
}

// Relational is a parameterized SQL statement.
type Relational struct {
	SQL  string
	Args []ir.Value // one per placeholder in SQL, left to right

	// CountSQL counts every row matching the same filter, ignoring sort,
	// limit and offset. It binds the same Args. Empty when not produced.
	CountSQL string
}

func (*Relational) result() {}

// Params returns Args as database/sql driver arguments.
func (r *Relational) Params() []any {
	return querysql.Params(r.Args)
}

// Document is a serialized document for a non-relational target.
type Document struct {
	Body []byte
}

func (*Document) result() {}

func (d *Document) String() string {
	return string(d.Body)
}

// Compile runs the default relational generator over q.
func Compile(q *ir.Query) *Relational {
	return &Relational{
		SQL:      querysql.Compile(q),
		Args:     querysql.Args(q),
		CountSQL: querysql.Count(q),
	}
}

// Names lists the backends ByName resolves.
var Names = []string{"default", "mysql", "qdrant"}

// ByName returns a zero-configured backend by name.
func ByName(name string) (Backend, error) {
	switch name {
	case "", "default":
		return Default{}, nil
	case "mysql":
		return MySQL{}, nil
	case "qdrant":
		return NewQdrant(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q: must be one of %v", name, Names)
	}
}

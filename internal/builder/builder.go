package builder

import (
	"log/slog"

	"github.com/fndome/zxb/internal/backend"
	"github.com/fndome/zxb/internal/ir"
)

// Builder accumulates filter conditions, sorts and pagination bounds for a
// single table.
//
// Comparison mutators drop values that count as "not set" (see
// ir.Value.ShouldFilter), so optional request parameters can be chained in
// without nil checks:
//
//	b := builder.New("users").
//		Eq("status", ir.Int(req.Status)).     // skipped when 0
//		Eq("name", ir.Text(req.Name)).        // skipped when ""
//		Gte("age", ir.Int(18)).
//		Sort("created_at", ir.Desc).
//		Limit(10)
//
// A zero or empty value therefore cannot be used as a filter. Bool is the
// exception: Eq("active", ir.Bool(false)) is kept.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	query    ir.Query
	patterns []string // LIKE patterns built by Like / LikeLeft
	backend  backend.Backend
	logger   *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithBackend attaches a backend that Generate delegates to.
func WithBackend(b backend.Backend) Option {
	return func(bld *Builder) {
		bld.backend = b
	}
}

// WithLogger sets the logger used for debug output.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(bld *Builder) {
		if l != nil {
			bld.logger = l
		}
	}
}

// New creates a Builder selecting from table.
// The table name is written verbatim into generated SQL.
func New(table string, opts ...Option) *Builder {
	b := &Builder{
		query:  ir.Query{Table: table},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Use attaches b as the generation backend, replacing any previous one.
// A nil backend restores default generation.
func (bld *Builder) Use(b backend.Backend) *Builder {
	bld.backend = b
	return bld
}

// Backend returns the attached backend, or nil.
func (bld *Builder) Backend() backend.Backend {
	return bld.backend
}

// Eq appends "key = ?" unless v should be filtered.
func (bld *Builder) Eq(key string, v ir.Value) *Builder {
	return bld.compare(ir.OpEq, key, v)
}

// Ne appends "key != ?" unless v should be filtered.
func (bld *Builder) Ne(key string, v ir.Value) *Builder {
	return bld.compare(ir.OpNe, key, v)
}

// Gt appends "key > ?" unless v should be filtered.
func (bld *Builder) Gt(key string, v ir.Value) *Builder {
	return bld.compare(ir.OpGt, key, v)
}

// Gte appends "key >= ?" unless v should be filtered.
func (bld *Builder) Gte(key string, v ir.Value) *Builder {
	return bld.compare(ir.OpGte, key, v)
}

// Lt appends "key < ?" unless v should be filtered.
func (bld *Builder) Lt(key string, v ir.Value) *Builder {
	return bld.compare(ir.OpLt, key, v)
}

// Lte appends "key <= ?" unless v should be filtered.
func (bld *Builder) Lte(key string, v ir.Value) *Builder {
	return bld.compare(ir.OpLte, key, v)
}

func (bld *Builder) compare(op, key string, v ir.Value) *Builder {
	if v == nil || v.ShouldFilter() {
		bld.logger.Debug("condition filtered",
			"table", bld.query.Table,
			"key", key,
			"op", op)
		return bld
	}
	bld.query.Conditions = append(bld.query.Conditions, ir.Leaf(op, key, v))
	return bld
}

// Like appends "key LIKE ?" bound to %text% (contains).
// Empty text is a no-op.
func (bld *Builder) Like(key, text string) *Builder {
	return bld.like(key, text, "%"+text+"%")
}

// LikeLeft appends "key LIKE ?" bound to text% (prefix match, which an
// index can serve). Empty text is a no-op.
//
// There is deliberately no suffix variant: %text cannot use an index.
func (bld *Builder) LikeLeft(key, text string) *Builder {
	return bld.like(key, text, text+"%")
}

func (bld *Builder) like(key, text, pattern string) *Builder {
	if text == "" {
		bld.logger.Debug("condition filtered",
			"table", bld.query.Table,
			"key", key,
			"op", ir.OpLike)
		return bld
	}
	bld.patterns = append(bld.patterns, pattern)
	bld.query.Conditions = append(bld.query.Conditions, ir.Leaf(ir.OpLike, key, ir.Text(pattern)))
	return bld
}

// Sort appends an ORDER BY term. Sorts are never filtered.
func (bld *Builder) Sort(field string, dir ir.Direction) *Builder {
	bld.query.Sorts = append(bld.query.Sorts, ir.Sort{Field: field, Dir: dir})
	return bld
}

// Limit sets LIMIT n. Non-positive n leaves the current limit unchanged.
func (bld *Builder) Limit(n int) *Builder {
	if n > 0 {
		bld.query.Limit = n
	}
	return bld
}

// Offset sets OFFSET n. Non-positive n leaves the current offset unchanged.
func (bld *Builder) Offset(n int) *Builder {
	if n > 0 {
		bld.query.Offset = n
	}
	return bld
}

// Table returns the table name.
func (bld *Builder) Table() string {
	return bld.query.Table
}

// Conditions returns a copy of the retained conditions in append order.
func (bld *Builder) Conditions() []ir.Node {
	q := bld.query.Clone()
	return q.Conditions
}

// Patterns returns a copy of the LIKE patterns built so far.
func (bld *Builder) Patterns() []string {
	return append([]string(nil), bld.patterns...)
}

// Query returns a deep copy of the accumulated state.
func (bld *Builder) Query() ir.Query {
	return bld.query.Clone()
}

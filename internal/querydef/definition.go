package querydef

import (
	"fmt"
	"math"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/fndome/zxb/internal/backend"
	"github.com/fndome/zxb/internal/ir"
)

// Condition operator names accepted in definition files.
const (
	OpEq       = "eq"
	OpNe       = "ne"
	OpGt       = "gt"
	OpGte      = "gte"
	OpLt       = "lt"
	OpLte      = "lte"
	OpLike     = "like"
	OpLikeLeft = "like_left"
)

// Ops lists the accepted operator names in documentation order.
var Ops = []string{OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpLike, OpLikeLeft}

// Definition is a query described in a YAML or CUE file.
type Definition struct {
	// Table is the table selected from. Required.
	Table string `yaml:"table"`

	// Where lists filter conditions in append order.
	Where []Condition `yaml:"where,omitempty"`

	// Sort lists ORDER BY terms.
	Sort []SortTerm `yaml:"sort,omitempty"`

	// Limit and Offset follow builder semantics: non-positive means unset.
	Limit  int `yaml:"limit,omitempty"`
	Offset int `yaml:"offset,omitempty"`

	BackendConfig BackendConfig `yaml:"backend,omitempty"`

	// Source is the file the definition was read from, if any.
	Source string `yaml:"-"`

	// Pos is the CUE position of the definition struct. Invalid for YAML.
	Pos token.Pos `yaml:"-"`
}

// Condition is one where entry. Value is whatever the decoder produced and is
// converted to an ir.Value before anything touches a builder.
type Condition struct {
	Field string    `yaml:"field"`
	Op    string    `yaml:"op"`
	Value any       `yaml:"value"`
	Pos   token.Pos `yaml:"-"`
}

// SortTerm is one sort entry. An empty Dir sorts ascending.
type SortTerm struct {
	Field string    `yaml:"field"`
	Dir   string    `yaml:"dir,omitempty"`
	Pos   token.Pos `yaml:"-"`
}

// BackendConfig selects and tunes the generation backend.
type BackendConfig struct {
	Name   string       `yaml:"name,omitempty"`
	MySQL  MySQLConfig  `yaml:"mysql,omitempty"`
	Qdrant QdrantConfig `yaml:"qdrant,omitempty"`
	Pos    token.Pos    `yaml:"-"`
}

type MySQLConfig struct {
	Upsert bool `yaml:"upsert,omitempty"`
	Ignore bool `yaml:"ignore,omitempty"`
}

type QdrantConfig struct {
	HNSWEf         int     `yaml:"hnsw_ef,omitempty"`
	ScoreThreshold float64 `yaml:"score_threshold,omitempty"`
	WithVector     bool    `yaml:"with_vector,omitempty"`
}

// Step is a where entry after value conversion.
type Step struct {
	Field string
	Op    string

	// Value is the converted comparison value. For like operators it holds
	// the search text as ir.Text.
	Value ir.Value

	// Filtered reports whether the builder will drop this condition.
	Filtered bool
}

// Steps converts every where entry. It fails on the first entry that cannot
// be converted and touches nothing.
func (d *Definition) Steps() ([]Step, error) {
	steps := make([]Step, 0, len(d.Where))
	for i, c := range d.Where {
		s, err := c.step(fmt.Sprintf("where[%d]", i))
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func (c Condition) step(field string) (Step, *DefinitionError) {
	op := strings.ToLower(strings.TrimSpace(c.Op))
	if !isOp(op) {
		return Step{}, &DefinitionError{
			Code:    ErrCodeUnknownOp,
			Field:   field + ".op",
			Message: fmt.Sprintf("unknown operator %q: must be one of %v", c.Op, Ops),
			Pos:     c.Pos,
		}
	}

	v, err := toValue(c.Value)
	if err != nil {
		return Step{}, &DefinitionError{
			Code:    ErrCodeValueType,
			Field:   field + ".value",
			Message: err.Error(),
			Pos:     c.Pos,
		}
	}

	if op == OpLike || op == OpLikeLeft {
		if v.Kind() != ir.KindText && v.Kind() != ir.KindNull {
			return Step{}, &DefinitionError{
				Code:    ErrCodeLikeText,
				Field:   field + ".value",
				Message: fmt.Sprintf("%s requires a string value, got %s", op, v.Kind()),
				Pos:     c.Pos,
			}
		}
		if v.Kind() == ir.KindNull {
			v = ir.Text("")
		}
	}

	return Step{Field: c.Field, Op: op, Value: v, Filtered: v.ShouldFilter()}, nil
}

func isOp(op string) bool {
	for _, o := range Ops {
		if o == op {
			return true
		}
	}
	return false
}

// toValue maps decoded YAML/CUE scalars onto ir values.
func toValue(raw any) (ir.Value, error) {
	switch v := raw.(type) {
	case nil:
		return ir.Null{}, nil
	case ir.Value:
		return v, nil
	case string:
		return ir.Text(v), nil
	case bool:
		return ir.Bool(v), nil
	case int:
		return ir.Int(v), nil
	case int64:
		return ir.Int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", v)
		}
		return ir.Int(int64(v)), nil
	case float64:
		return ir.Float(v), nil
	case unsupportedValue:
		return nil, fmt.Errorf("unsupported value kind %s: must be string, number, bool or null", v)
	default:
		return nil, fmt.Errorf("unsupported value type %T: must be string, number, bool or null", raw)
	}
}

// Validate reports every problem in d. A nil result means Apply will succeed.
func (d *Definition) Validate() []*DefinitionError {
	var errs []*DefinitionError

	if strings.TrimSpace(d.Table) == "" {
		errs = append(errs, &DefinitionError{
			Code:    ErrCodeMissingTable,
			Field:   "table",
			Message: "table is required",
			Pos:     d.Pos,
		})
	}

	for i, c := range d.Where {
		if _, err := c.step(fmt.Sprintf("where[%d]", i)); err != nil {
			errs = append(errs, err)
		}
	}

	for i, s := range d.Sort {
		if _, err := s.direction(); err != nil {
			errs = append(errs, &DefinitionError{
				Code:    ErrCodeSortDir,
				Field:   fmt.Sprintf("sort[%d].dir", i),
				Message: err.Error(),
				Pos:     s.Pos,
			})
		}
	}

	if _, err := d.BackendConfig.build(); err != nil {
		errs = append(errs, err)
	}

	return errs
}

func (s SortTerm) direction() (ir.Direction, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return ir.Asc, nil
	}
	return ir.ParseDirection(s.Dir)
}

// Backend builds the configured backend. An empty name selects the default
// generator.
func (d *Definition) Backend() (backend.Backend, error) {
	b, err := d.BackendConfig.build()
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (c BackendConfig) build() (backend.Backend, *DefinitionError) {
	b, err := backend.ByName(strings.ToLower(strings.TrimSpace(c.Name)))
	if err != nil {
		return nil, &DefinitionError{
			Code:    ErrCodeBackend,
			Field:   "backend.name",
			Message: err.Error(),
			Pos:     c.Pos,
		}
	}

	switch b := b.(type) {
	case backend.MySQL:
		b.Upsert = c.MySQL.Upsert
		b.Ignore = c.MySQL.Ignore
		return b, nil
	case backend.Qdrant:
		if c.Qdrant.HNSWEf > 0 {
			b.HNSWEf = c.Qdrant.HNSWEf
		}
		b.ScoreThreshold = c.Qdrant.ScoreThreshold
		b.WithVector = c.Qdrant.WithVector
		return b, nil
	}
	return b, nil
}

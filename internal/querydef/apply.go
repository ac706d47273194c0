package querydef

import (
	"errors"
	"fmt"

	"github.com/fndome/zxb/internal/builder"
	"github.com/fndome/zxb/internal/ir"
)

// Apply builds a Builder from def.
//
// Every value is converted and every field validated before the builder is
// created, so a rejected definition never produces a partially built query.
// The configured backend is attached first; opts may replace it.
func Apply(def *Definition, opts ...builder.Option) (*builder.Builder, error) {
	if errs := def.Validate(); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return nil, errors.Join(joined...)
	}

	steps, err := def.Steps()
	if err != nil {
		return nil, err
	}
	sorts := make([]ir.Sort, 0, len(def.Sort))
	for _, s := range def.Sort {
		dir, err := s.direction()
		if err != nil {
			return nil, err
		}
		sorts = append(sorts, ir.Sort{Field: s.Field, Dir: dir})
	}
	be, err := def.Backend()
	if err != nil {
		return nil, err
	}

	b := builder.New(def.Table, append([]builder.Option{builder.WithBackend(be)}, opts...)...)
	for _, s := range steps {
		if err := applyStep(b, s); err != nil {
			return nil, err
		}
	}
	for _, s := range sorts {
		b.Sort(s.Field, s.Dir)
	}
	return b.Limit(def.Limit).Offset(def.Offset), nil
}

func applyStep(b *builder.Builder, s Step) error {
	switch s.Op {
	case OpEq:
		b.Eq(s.Field, s.Value)
	case OpNe:
		b.Ne(s.Field, s.Value)
	case OpGt:
		b.Gt(s.Field, s.Value)
	case OpGte:
		b.Gte(s.Field, s.Value)
	case OpLt:
		b.Lt(s.Field, s.Value)
	case OpLte:
		b.Lte(s.Field, s.Value)
	case OpLike:
		b.Like(s.Field, likeText(s.Value))
	case OpLikeLeft:
		b.LikeLeft(s.Field, likeText(s.Value))
	default:
		return fmt.Errorf("unhandled operator %q", s.Op)
	}
	return nil
}

func likeText(v ir.Value) string {
	if t, ok := v.(ir.Text); ok {
		return string(t)
	}
	return ""
}

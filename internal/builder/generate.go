package builder

import (
	"fmt"

	"github.com/fndome/zxb/internal/backend"
	"github.com/fndome/zxb/internal/ir"
	"github.com/fndome/zxb/internal/querysql"
)

// SQL renders the default SELECT statement. It ignores any attached backend.
func (bld *Builder) SQL() string {
	return querysql.Compile(&bld.query)
}

// Args returns the values bound to the placeholders in SQL, in order.
func (bld *Builder) Args() []ir.Value {
	return querysql.Args(&bld.query)
}

// CountSQL renders a COUNT(*) statement over the same filter as SQL.
// It binds the same Args.
func (bld *Builder) CountSQL() string {
	return querysql.Count(&bld.query)
}

// Build renders the statement, its arguments and the count query together.
// The result equals calling SQL, Args and CountSQL separately.
func (bld *Builder) Build() *backend.Relational {
	return backend.Compile(&bld.query)
}

// Generate delegates to the attached backend, or returns Build() when none
// is attached.
func (bld *Builder) Generate() (backend.Result, error) {
	if bld.backend == nil {
		return bld.Build(), nil
	}

	bld.logger.Debug("delegating to backend",
		"table", bld.query.Table,
		"backend", bld.backend.Name(),
		"conditions", len(bld.query.Conditions))

	q := bld.query.Clone()
	res, err := bld.backend.Generate(&q)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", bld.backend.Name(), err)
	}
	return res, nil
}

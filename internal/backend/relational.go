package backend

import "github.com/fndome/zxb/internal/ir"

// Default renders the plain SELECT statement.
type Default struct{}

func (Default) Name() string { return "default" }

func (Default) Generate(q *ir.Query) (Result, error) {
	return Compile(q), nil
}

// MySQL is the vendor extension point for MySQL statements.
//
// Upsert and Ignore select INSERT ... ON DUPLICATE KEY UPDATE and
// INSERT IGNORE forms. They are carried but not wired to output yet:
// Generate forwards to the default generator unchanged.
type MySQL struct {
	Upsert bool
	Ignore bool
}

func (MySQL) Name() string { return "mysql" }

func (MySQL) Generate(q *ir.Query) (Result, error) {
	// TODO: emit upsert / ignore keywords once the builder grows write statements.
	return Compile(q), nil
}

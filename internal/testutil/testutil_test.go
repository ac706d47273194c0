package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedTraceGenerator_ReturnsSameID(t *testing.T) {
	gen := NewFixedTraceGenerator("trace-123")

	assert.Equal(t, "trace-123", gen.Generate())
	assert.Equal(t, "trace-123", gen.Generate())
}

func TestFixedTraceGenerator_EmptyIDDefault(t *testing.T) {
	gen := NewFixedTraceGenerator("")
	assert.Equal(t, "test-trace-default", gen.Generate())
}

func TestOpenSQLite_Seeded(t *testing.T) {
	db := OpenSQLite(t)

	assert.Equal(t, int64(5), QueryCount(t, db, "SELECT COUNT(*) FROM users"))
	assert.Equal(t, int64(4), QueryCount(t, db, "SELECT COUNT(*) FROM products"))
}

func TestQueryIDs_PreservesRowOrder(t *testing.T) {
	db := OpenSQLite(t)

	ids := QueryIDs(t, db, "SELECT * FROM users WHERE status = ? ORDER BY age DESC", int64(1))
	assert.Equal(t, []int64{5, 1, 4, 2}, ids)
}

func TestQueryIDs_NoRows(t *testing.T) {
	db := OpenSQLite(t)

	ids := QueryIDs(t, db, "SELECT * FROM users WHERE name = ?", "Nobody")
	assert.Empty(t, ids)
}

package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// fixtureSQL seeds the tables the builder tests query against.
const fixtureSQL = `
CREATE TABLE users (
	id         INTEGER PRIMARY KEY,
	status     INTEGER NOT NULL,
	name       TEXT    NOT NULL,
	age        INTEGER NOT NULL,
	email      TEXT    NOT NULL,
	active     BOOLEAN NOT NULL,
	created_at TEXT    NOT NULL
);

INSERT INTO users (id, status, name, age, email, active, created_at) VALUES
	(1, 1, 'Alice', 30, 'alice@example.com',  1, '2024-01-03'),
	(2, 1, 'Bob',   17, 'bob@example.com',    0, '2024-01-02'),
	(3, 2, 'Alice', 25, 'alice@example.org',  1, '2024-01-05'),
	(4, 1, 'Alice', 18, 'alice3@example.com', 0, '2024-01-04'),
	(5, 1, 'Carol', 40, 'carol@example.com',  1, '2024-01-01');

CREATE TABLE products (
	id          INTEGER PRIMARY KEY,
	name        TEXT    NOT NULL,
	description TEXT,
	stock       INTEGER NOT NULL,
	price       REAL    NOT NULL
);

INSERT INTO products (id, name, description, stock, price) VALUES
	(1, 'Widget',    'A widget', 0, 99.5),
	(2, 'Gadget',    '',         5, 100.0),
	(3, 'Gizmo',     'Shiny',    2, 250.0),
	(4, 'Doohickey', NULL,       0, 150.0);
`

// OpenSQLite opens an in-memory SQLite database seeded with the users and
// products fixture tables. The database is closed when the test ends.
//
// The pool is limited to one connection: every new :memory: connection
// would otherwise see its own empty database.
func OpenSQLite(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(fixtureSQL); err != nil {
		t.Fatalf("seed fixture: %v", err)
	}
	return db
}

// QueryIDs runs query and returns the "id" column of every row, in row order.
func QueryIDs(t testing.TB, db *sql.DB, query string, args ...any) []int64 {
	t.Helper()

	rows, err := db.Query(query, args...)
	if err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	idCol := -1
	for i, c := range cols {
		if c == "id" {
			idCol = i
		}
	}
	if idCol < 0 {
		t.Fatalf("query %q has no id column", query)
	}

	ids := []int64{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			t.Fatalf("scan: %v", err)
		}
		id, ok := vals[idCol].(int64)
		if !ok {
			t.Fatalf("id column has type %T", vals[idCol])
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}
	return ids
}

// QueryCount runs a single-value COUNT query.
func QueryCount(t testing.TB, db *sql.DB, query string, args ...any) int64 {
	t.Helper()

	var n int64
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count %q: %v", query, err)
	}
	return n
}

// Package querydef loads query definitions from YAML or CUE files and
// applies them to a builder.Builder.
//
// A definition names a table, where conditions using the operator names
// eq, ne, gt, gte, lt, lte, like and like_left, sort terms, pagination and
// an optional backend. Conditions whose values count as "not set" are kept
// in the definition and dropped by the builder, exactly as in code.
package querydef

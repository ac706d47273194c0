// Package builder provides the fluent query builder.
//
// A Builder collects conditions, sorts and pagination bounds and renders
// them through internal/querysql, or through an attached backend.Backend
// when one is set. Values that are "not set" (zero numbers, empty text,
// Null) are dropped at append time, so a chain of optional filters
// produces only the conditions the caller actually supplied.
package builder

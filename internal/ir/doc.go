// Package ir provides the value and condition types shared by the query
// builder, the SQL generator and the backends.
//
// Besides the types it holds the canonical JSON encoder used for request
// documents. All other internal packages import ir; ir imports nothing
// internal. This keeps IR the foundational
// layer with no circular dependencies.
//
// Key design constraints:
//   - Value is sealed: Null, Text, Int, Float, Bool and nothing else
//   - Zero values count as "not set" (see Value.ShouldFilter); Bool never does
//   - Node is a leaf comparison or a compound grouping, never both
//   - Query holds leaves in declaration order; generators rely on that order
//     to pair placeholders with arguments
package ir

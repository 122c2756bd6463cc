// Package schema compiles an ordered list of field descriptors into a
// validation schema keyed by field id. Compile is pure: the same descriptors
// always yield the same rule sets, and input order does not affect the result.
//
// A zero MinLength is treated as "no rule" rather than "minimum zero".
package schema

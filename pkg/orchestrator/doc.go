// Package orchestrator drives a single form builder session: it owns a
// builder.Store, tracks the active tab and open flag, mounts a preview engine
// against the draft values, and commits the finished form to a Host.
//
// The coarse states are derived rather than stored:
//
//	Empty       no fields
//	Editing     fields present, builder tab active
//	Previewing  fields present, preview tab active
//
// Save is the only transition with side effects outside the session. On
// success the store is reset and the builder closed.
package orchestrator

// Package engine combines a beacon store and a fibre network into one unit of
// state, the way a script or scenario sees the world.
//
// The [Engine] owns exactly one [beacon.Store] and one [fibre.Network]. Read
// queries may go straight to those fields. Mutations and route queries should
// go through the engine so they are logged, reported to the
// observability traversal hooks, and (in strict mode) followed by a full
// invariant check.
//
// # Strict Mode
//
// With [WithStrict], every mutation and query ends with a call to
// [Engine.Check]. A failed check panics: broken invariants are bugs in this
// module, never the caller's fault. Tests and the CLI's --strict flag turn it
// on; normal runs leave it off because the check is linear in the size of
// both structures.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Route queries reset per-point
// scratch state, so two traversals on the same engine must never overlap.
package engine

// Package route holds the console's declarative route table and resolves
// navigation targets into [Location] descriptors consumed by the navigation guard.
//
// # Matching
//
// Route paths use chi patterns (`/nodes/{id}/network`). The table registers each
// pattern on a private chi mux and resolves paths through Mux.Match, so the
// matching rules are exactly chi's. Trailing slashes are ignored.
//
// # Architecture boundaries
//
// This package is data plus lookup. It does NOT know whether a user is signed in
// and never decides access; the guard in the root package does.
//
// # What this package must NOT do
//
//   - Import goSession (no upward imports).
//   - Perform network I/O.
//   - Mutate a [Table] after [New] returns.
package route

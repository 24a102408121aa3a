// Package goSession provides session bootstrap and route access control for the
// Nebula manager console.
//
// One [Engine] per console process owns the shared session [Store]. The first
// navigation triggers a single profile probe through the configured [Gateway];
// every concurrent caller waits on that same probe. The [Guard] then gates
// protected routes and sends anonymous users to the login route with a
// redirect-back parameter. [Navigator] hosts the guard, follows redirects and
// commits the final location.
//
// Engine methods are safe to call from multiple goroutines after [Builder.Build].
//
// # Architecture boundaries
//
// goSession is the core. Transport lives in package gateway, route matching in
// package route, and the reference backend under internal/devbackend. None of
// them import goSession's internals.
//
// # Failure model
//
//   - Probe failures of any kind leave the session anonymous. They are logged,
//     never returned.
//   - Login failures are stored in State.Error and returned as [*LoginError].
//   - Logout failures are logged; the session is cleared regardless.
package goSession

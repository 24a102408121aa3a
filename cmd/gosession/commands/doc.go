// Package commands defines the gosession CLI.
//
// Commands
//
//   - routes       Print the route table
//   - probe        Resolve the session once and print it
//   - open         Navigate to a path and print every guarded hop
//   - shell        Interactive console holding one session
//   - dev-backend  Serve the reference auth endpoints on an in-memory Redis
//
// # Implementation
//
// The root command loads the config file and applies flag overrides before
// any subcommand runs. The engine and its HTTP gateway are built on first use,
// so commands that do not talk to a backend never construct one.
package commands

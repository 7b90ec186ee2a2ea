// Package debugserver exposes a read-only HTTP view of a record registry.
//
// The server is a gin engine behind an h2c handler, registered with the
// bootstrap as a component when debug.enabled is set. Routes:
//
//	GET /records        every entry, sorted by name
//	GET /records/:name  one entry
//	GET /leases         outstanding leases, oldest first
//	GET /leases/:id     one lease
//	GET /health         aggregated component health
//	GET /version        build information
//
// Errors are rendered with errors.AppError.ToResponse.
package debugserver

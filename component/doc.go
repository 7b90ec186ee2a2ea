// Package component defines the lifecycle interfaces shared by recordkit
// parts: the record registry adapter, the debug server and system services.
//
// Components register with a Registry, which starts them in registration
// order and stops them in reverse. Optional interfaces let a component
// describe itself (Describable) or report HTTP routes (RouteProvider) for
// the bootstrap startup summary.
package component

// Package integration defines how orders leave the system for pharmacy
// vendors.
//
// A pharmacy names its vendor through its integration name. The dispatch
// layer resolves that name to an OrderDispatcher, which submits orders to
// the vendor and reads them back. Adapters live in
// internal/infrastructure/dispatch; this package only holds the ports and
// the errors callers branch on.
package integration

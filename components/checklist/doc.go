// Package checklist is a self-contained workflow tracker built on the
// hypermedia engine: reusable workflow definitions are instantiated into
// per-user workflow instances, each carrying the task instances to tick off.
//
// The component keeps its state in memory and exposes a Collection+JSON API
// (with HTML rendering for browsers) under a mount path of the host's
// choosing. It doubles as the reference consumer of the library: shapes with
// capability hooks, an embedded OpenAPI document feeding the transition
// catalog, and content negotiation through the representor.
package checklist

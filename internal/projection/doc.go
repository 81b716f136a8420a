// Package projection keeps the read views in step with the write side.
//
// Projectors never trust event payloads for view contents. They re-read the
// authoritative aggregates and rebuild whole documents, so replaying any
// event, or running a full reconcile, converges to the same read state.
package projection

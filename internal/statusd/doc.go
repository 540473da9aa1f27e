// Package statusd serves the live slot state while padlock waits.
//
// It is an optional surface, enabled with --listen, meant for stream
// overlays and other local tooling that wants to show which slots are
// occupied. Two endpoints:
//
//	GET /state   current state line as plain text
//	GET /ws      WebSocket; every state change is pushed as a text message
//
// The endpoint announces itself over mDNS as a _padlock._tcp service so
// overlay clients can find it without configuration.
//
// The reconciliation engine stays single-threaded: statusd only ever
// receives immutable rendered state strings via Publish.
package statusd

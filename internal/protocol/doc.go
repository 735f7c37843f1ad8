// Package protocol owns the session wire contract and parsing primitives.
//
// Ownership boundary:
// - fixed 8-byte message header codec
// - per-type payload encode/parse helpers
// - roster text serialization
package protocol

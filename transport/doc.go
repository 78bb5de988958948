// Package transport implements the relay channel between the host and a
// remote skill over websocket: an authenticated connect handshake, ordered
// JSON-framed activity delivery, a lazy receive stream of inbound frames and
// idempotent teardown. It also provides the skill-side Listener so a skill
// process can accept relay connections with the same credential checks.
//
// A single transport instance serves every skill; sessions are parameterized
// by endpoint and credentials taken from the skill's manifest, never by
// per-skill subtypes.
package transport

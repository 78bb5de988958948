// Package proactive enables bot-initiated messaging: an address book mapping
// a privacy-hashed user identity to the user's last reachable conversation
// endpoint, a single-consumer background worker draining a queue of delivery
// tasks, and a cron-driven scheduler enqueueing recurring pushes.
//
// User identities are stored only as one-way digests; the raw identity never
// reaches the underlying storage.
package proactive

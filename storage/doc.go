// Package storage provides core.Storage implementations: a volatile
// in-memory store for tests and ephemeral hosts, and a Redis-backed store
// for deployments that need the address book and history snapshots to
// survive restarts.
package storage

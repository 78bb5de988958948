// Package history implements the bounded per-user cache of recent
// conversation turns used to resolve ambiguous follow-up references
// ("it", "him", "that one") against what the user said recently.
//
// The cache holds at most a fixed number of entries per user. When a user is
// at the bound, one entry is evicted by the configured ReplacementPolicy
// before the new entry is appended; eviction and append are two explicit
// steps and the collection never grows past the bound.
package history

// Package testutil provides deterministic fixtures for serialization
// tests: a seeded, thread-safe RNG and builders for randomized linked
// structures whose round trips exercise deep pointer chains, shared
// references, and null fields.
package testutil

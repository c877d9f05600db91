// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (vote.go, content.go, config.go, cache.go) hold the
// shared value types and the ports implemented by the adapters. No
// implementation code lives here, only contracts.
package domain

// Package domain defines the core business entities for aidir.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Platform: A directory entry describing one AI tool or service
//   - Intent: The coarse purpose of a chat message
//   - Turn: One message in a conversation session
//   - Reply: What the chat entry point returns to a caller
//   - Interaction / AnalyticsSummary: Observational chat counters
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

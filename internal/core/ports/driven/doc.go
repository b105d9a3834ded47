// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - PlatformStore: Read-only platform directory
//   - SessionStore: Conversation history per session
//   - AnalyticsStore: Chat and page-view counters (JSON file, SQLite or PostgreSQL)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Hosted model chat. Without it, replies use the fallback composer.
//   - PromptStore: Customisable prompts. Without it, embedded defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

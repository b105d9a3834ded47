// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The chat pipeline is: IntentClassifier -> SearchService (when the intent
// is search-like) -> Responder (hosted model or FallbackComposer) ->
// AnalyticsRecorder, which observes the turn asynchronously.
package services

// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - GenerationBackend: the remote job API (prerequisites, jobs, retries, uploads)
//   - ImageProber: checks that a URL serves an image
//   - SnapshotStore: durable topic snapshot and job handle
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - JobHistoryStore: local record of finished jobs
//   - EventSink: receives orchestrator notifications for display
//   - Clipboard: reads an image from the system clipboard
//   - Normaliser: extracts the text of a downloaded document
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

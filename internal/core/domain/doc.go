// Package domain defines the core business entities for batchwriter.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TopicSet / TopicSlot: the bounded, ordered list of topics to generate
//   - Attachment: an image paired with a topic, staged or resolved
//   - Job / ResultLedger: the backend's job snapshot and its display copy
//   - PersistedSnapshot / JobHandle: what survives a restart
//   - JobRecord: a finished job kept in local history
//   - Article: the readable text of a downloaded document
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

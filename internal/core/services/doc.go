// Package services implements the driving ports on top of the driven ports.
//
// # Services
//
//   - Persistence: freshness-checked snapshot and job handle storage
//   - Workspace: the topic set being edited, persisted on every change
//   - Resolver: attachment staging, upload and URL probing
//   - Orchestrator: job submission, polling, resume and retry
//   - History: recent finished jobs
//   - Settings: validated configuration with defaults
//   - ArtifactService: downloading, reading and opening generated documents
//
// # Import Rules
//
//   - Can Import: domain, ports/driven, ports/driving, logger
//   - Cannot Import: Any adapter package
package services

// Package httpapi implements driven.GenerationBackend against the article
// generation server's JSON API.
//
// Endpoints:
//
//	GET  /api/check-pandoc              prerequisite check
//	POST /api/generate                  create a job
//	GET  /api/generate/status/{id}      job snapshot (404 when unknown)
//	POST /api/generate/retry            regenerate topics of a job
//	POST /api/upload-image              multipart image upload
//	GET  /api/download/{filename}       generated document
//
// Every request first takes a token from a shared rate limiter. A 429
// response pauses the limiter for the server's Retry-After period.
package httpapi

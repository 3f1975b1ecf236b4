package tui

import "errors"

// ErrMissingOrchestrator is returned when the job orchestrator is not provided.
var ErrMissingOrchestrator = errors.New("tui: job orchestrator is required")

// ErrInvalidPorts is returned when no ports are given.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")

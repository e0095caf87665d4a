package mcp

import (
	"github.com/docmon-labs/docmon-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Monitor manages the monitored documentation set.
	Monitor driving.MonitorService

	// Tracker detects and records content changes.
	Tracker driving.ChangeTracker

	// Retrieval serves hybrid retrieval queries.
	Retrieval driving.RetrievalService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Monitor == nil {
		return ErrMissingMonitorService
	}
	if p.Tracker == nil {
		return ErrMissingTrackerService
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}

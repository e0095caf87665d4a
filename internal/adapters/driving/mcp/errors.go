// Package mcp provides an MCP (Model Context Protocol) server adapter
// for docmon. It exposes the monitoring, change-tracking and retrieval
// pipeline to AI assistants.
package mcp

import "errors"

// Sentinel errors for missing required ports.
var (
	ErrMissingMonitorService   = errors.New("mcp: monitor service is required")
	ErrMissingTrackerService   = errors.New("mcp: change tracker is required")
	ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
)

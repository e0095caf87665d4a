package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for docmon resources.
const uriScheme = "docmon://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the monitored documentation set.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "monitored",
		Name:        "monitored",
		Description: "All documentation URLs currently being monitored",
		MIMEType:    "application/json",
	}, s.handleMonitoredResource)

	// Static resource for available source domains.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "Distinct source domains with stored content",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)
}

// handleMonitoredResource returns the active monitored documents as JSON.
func (s *Server) handleMonitoredResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Monitor.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing monitored documents: %w", err)
	}

	entries := make([]MonitoredDocOutput, len(docs))
	for i, doc := range docs {
		entries[i] = MonitoredDocOutput{
			URL:       doc.URL,
			CrawlType: doc.CrawlType.String(),
			Status:    doc.Status.String(),
			Notes:     doc.Notes,
			DateAdded: doc.DateAdded,
		}
		if !doc.LastCrawledAt.IsZero() {
			crawled := doc.LastCrawledAt
			entries[i].LastCrawledAt = &crawled
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling monitored documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSourcesResource returns the distinct source domains as JSON.
func (s *Server) handleSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sources, err := s.ports.Monitor.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	if sources == nil {
		sources = []string{}
	}

	data, err := json.Marshal(sources)
	if err != nil {
		return nil, fmt.Errorf("marshalling sources: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

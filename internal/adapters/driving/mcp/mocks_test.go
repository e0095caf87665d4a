package mcp

import (
	"context"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
)

// mockMonitorService is a mock implementation of driving.MonitorService.
type mockMonitorService struct {
	monitorResult domain.MonitorResult
	removeResult  domain.MonitorResult
	docs          []domain.MonitoredDocument
	history       []domain.ChangeRecord
	sources       []string
	err           error
}

func (m *mockMonitorService) Monitor(_ context.Context, _, _ string) domain.MonitorResult {
	return m.monitorResult
}

func (m *mockMonitorService) List(_ context.Context) ([]domain.MonitoredDocument, error) {
	return m.docs, m.err
}

func (m *mockMonitorService) Remove(_ context.Context, _ string) domain.MonitorResult {
	return m.removeResult
}

func (m *mockMonitorService) History(_ context.Context, _ string) ([]domain.ChangeRecord, error) {
	return m.history, m.err
}

func (m *mockMonitorService) Sources(_ context.Context) ([]string, error) {
	return m.sources, m.err
}

// mockTracker is a mock implementation of driving.ChangeTracker.
type mockTracker struct {
	checkResult    domain.CheckResult
	checkAllResult domain.CheckAllResult
}

func (m *mockTracker) CheckAndUpdate(_ context.Context, _ string) domain.CheckResult {
	return m.checkResult
}

func (m *mockTracker) CheckAll(_ context.Context) domain.CheckAllResult {
	return m.checkAllResult
}

// mockRetrieval is a mock implementation of driving.RetrievalService.
type mockRetrieval struct {
	results  []domain.SearchResult
	lastOpts domain.SearchOptions
}

func (m *mockRetrieval) Search(_ context.Context, _ string, opts domain.SearchOptions) []domain.SearchResult {
	m.lastOpts = opts
	return m.results
}

// validPorts returns a fully populated Ports for tests.
func validPorts() *Ports {
	return &Ports{
		Monitor:   &mockMonitorService{},
		Tracker:   &mockTracker{},
		Retrieval: &mockRetrieval{},
	}
}

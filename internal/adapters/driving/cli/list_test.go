package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
)

func TestListCmd_Use(t *testing.T) {
	assert.Equal(t, "list", listCmd.Use)
}

func TestListCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Monitoring 1 document")
	assert.Contains(t, buf.String(), "https://api.example.com/docs (webpage)")
	assert.Contains(t, buf.String(), "Added: 2025-06-01 09:00")
	assert.NotContains(t, buf.String(), "Last crawled:", "never-crawled documents omit the timestamp")
}

func TestListCmd_ShowsLastCrawledAndNotes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	monitorService.(*cliMockMonitor).listDocs = []domain.MonitoredDocument{
		{
			URL:           "https://api.example.com/docs",
			CrawlType:     domain.CrawlTypeOpenAPI,
			Status:        domain.MonitorStatusActive,
			Notes:         "payments API",
			DateAdded:     time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
			LastCrawledAt: time.Date(2025, 6, 3, 14, 30, 0, 0, time.UTC),
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Last crawled: 2025-06-03 14:30")
	assert.Contains(t, buf.String(), "Notes: payments API")
}

func TestListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	monitorService.(*cliMockMonitor).listDocs = []domain.MonitoredDocument{}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No documents are being monitored.")
}

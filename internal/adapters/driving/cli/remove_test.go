package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
)

func TestRemoveCmd_Use(t *testing.T) {
	assert.Equal(t, "remove [url]", removeCmd.Use)
}

func TestRemoveCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"remove"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestRemoveCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := monitorService.(*cliMockMonitor)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"remove", "https://api.example.com/docs"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Stopped monitoring https://api.example.com/docs")
	assert.Equal(t, "https://api.example.com/docs", mock.lastURL)
}

func TestRemoveCmd_ReportsFailure(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	monitorService.(*cliMockMonitor).removeResult = &domain.MonitorResult{
		URL:   "https://api.example.com/docs",
		Error: "URL is not monitored",
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"remove", "https://api.example.com/docs"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "URL is not monitored")
}

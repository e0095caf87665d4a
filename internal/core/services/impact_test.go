package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
)

func TestAnalyzeChangeBreakingEscalatesToHigh(t *testing.T) {
	analysis := AnalyzeChange(domain.Change{
		Type:   domain.ChangeTypeModified,
		Impact: domain.ImpactLow,
		Details: domain.ChangeDetails{
			NewContent: "The v1 token endpoint is deprecated and will be removed.",
		},
	})
	assert.Equal(t, domain.ImpactHigh, analysis.Severity)
	assert.True(t, analysis.BreakingChanges)
	assert.NotEmpty(t, analysis.Recommendations)
}

func TestAnalyzeChangeAPIModificationEscalatesToMedium(t *testing.T) {
	analysis := AnalyzeChange(domain.Change{
		Type:   domain.ChangeTypeModified,
		Impact: domain.ImpactLow,
		Details: domain.ChangeDetails{
			NewContent: "The request now accepts an optional page parameter.",
		},
	})
	assert.Equal(t, domain.ImpactMedium, analysis.Severity)
	assert.True(t, analysis.APIChanges)
	assert.False(t, analysis.BreakingChanges)
}

func TestAnalyzeChangeAPIAdditionKeepsImpact(t *testing.T) {
	analysis := AnalyzeChange(domain.Change{
		Type:   domain.ChangeTypeAdded,
		Impact: domain.ImpactLow,
		Details: domain.ChangeDetails{
			NewContent: "A new endpoint for exporting reports.",
		},
	})
	assert.Equal(t, domain.ImpactLow, analysis.Severity)
	assert.True(t, analysis.APIChanges)
}

func TestAnalyzeChangeDeletionScansNewContent(t *testing.T) {
	// Only new content is scanned, whatever the change type. A pure
	// deletion carries no new content, so keyword signals stay off.
	analysis := AnalyzeChange(domain.Change{
		Type:   domain.ChangeTypeDeleted,
		Impact: domain.ImpactMedium,
		Details: domain.ChangeDetails{
			OldContent: "Documented the batch endpoint.",
		},
	})
	assert.Equal(t, domain.ImpactMedium, analysis.Severity)
	assert.False(t, analysis.APIChanges)
	assert.NotEmpty(t, analysis.Recommendations)
}

func TestAnalyzeChangeDeletionWithBreakingNewContent(t *testing.T) {
	analysis := AnalyzeChange(domain.Change{
		Type:   domain.ChangeTypeDeleted,
		Impact: domain.ImpactLow,
		Details: domain.ChangeDetails{
			OldContent: "The v1 sync endpoint returns a cursor.",
			NewContent: "The v1 sync endpoint is deprecated.",
		},
	})
	assert.Equal(t, domain.ImpactHigh, analysis.Severity)
	assert.True(t, analysis.BreakingChanges)
	assert.True(t, analysis.APIChanges)
}

func TestAnalyzeChangePlainProse(t *testing.T) {
	analysis := AnalyzeChange(domain.Change{
		Type:   domain.ChangeTypeModified,
		Impact: domain.ImpactLow,
		Details: domain.ChangeDetails{
			NewContent: "Fixed a typo in the introduction.",
		},
	})
	assert.Equal(t, domain.ImpactLow, analysis.Severity)
	assert.False(t, analysis.APIChanges)
	assert.False(t, analysis.BreakingChanges)
	assert.Empty(t, analysis.Recommendations)
}

func TestAggregateChangesSingle(t *testing.T) {
	changeType, summary, impact := aggregateChanges([]domain.AnalyzedChange{{
		Change: domain.Change{
			Type:    domain.ChangeTypeAdded,
			Summary: "Section added: Webhooks",
		},
		Analysis: domain.ImpactAnalysis{Severity: domain.ImpactLow},
	}})
	assert.Equal(t, domain.ChangeTypeAdded, changeType)
	assert.Equal(t, "Section added: Webhooks", summary)
	assert.Equal(t, domain.ImpactLow, impact)
}

func TestAggregateChangesMultiple(t *testing.T) {
	changeType, summary, impact := aggregateChanges([]domain.AnalyzedChange{
		{
			Change:   domain.Change{Type: domain.ChangeTypeAdded},
			Analysis: domain.ImpactAnalysis{Severity: domain.ImpactLow},
		},
		{
			Change:   domain.Change{Type: domain.ChangeTypeModified},
			Analysis: domain.ImpactAnalysis{Severity: domain.ImpactHigh},
		},
		{
			Change:   domain.Change{Type: domain.ChangeTypeModified},
			Analysis: domain.ImpactAnalysis{Severity: domain.ImpactMedium},
		},
	})
	assert.Equal(t, domain.ChangeTypeMultiple, changeType)
	assert.Equal(t, "1 section added, 2 sections modified", summary)
	assert.Equal(t, domain.ImpactHigh, impact)
}

package services

import (
	"fmt"
	"strings"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
)

// apiPatterns flag API-surface language in changed content.
var apiPatterns = []string{
	"endpoint",
	"api",
	"parameter",
	"request",
	"response",
	"authentication",
	"authorization",
	"header",
	"method",
	"schema",
	"payload",
	"rate limit",
}

// breakingPatterns flag breaking-change language in changed content.
var breakingPatterns = []string{
	"breaking",
	"deprecated",
	"removed",
	"removal",
	"no longer",
	"discontinued",
	"obsolete",
	"incompatible",
	"migration required",
	"sunset",
}

// AnalyzeChange scores a single change with keyword heuristics. The
// new content is scanned for API and breaking-change language
// regardless of change type; breaking language escalates severity to
// high, API language in a modification or deletion to at least medium.
func AnalyzeChange(change domain.Change) domain.ImpactAnalysis {
	lower := strings.ToLower(change.Details.NewContent)

	analysis := domain.ImpactAnalysis{Severity: change.Impact}
	for _, p := range apiPatterns {
		if strings.Contains(lower, p) {
			analysis.APIChanges = true
			break
		}
	}
	for _, p := range breakingPatterns {
		if strings.Contains(lower, p) {
			analysis.BreakingChanges = true
			break
		}
	}

	if analysis.BreakingChanges {
		analysis.Severity = domain.ImpactHigh
		analysis.Recommendations = append(analysis.Recommendations,
			"Breaking-change language detected; review affected integrations before upgrading.")
	}
	if analysis.APIChanges {
		switch change.Type {
		case domain.ChangeTypeModified, domain.ChangeTypeDeleted:
			analysis.Severity = domain.MaxImpact(analysis.Severity, domain.ImpactMedium)
			analysis.Recommendations = append(analysis.Recommendations,
				"API surface changed; verify client request and response handling.")
		case domain.ChangeTypeAdded:
			analysis.Recommendations = append(analysis.Recommendations,
				"New API capability documented; consider adopting it.")
		}
	}
	if change.Type == domain.ChangeTypeDeleted && !analysis.BreakingChanges {
		analysis.Recommendations = append(analysis.Recommendations,
			"Content was removed; confirm the documented behaviour still exists.")
	}

	return analysis
}

// aggregateChanges folds analyzed changes into the record-level type,
// summary and impact.
func aggregateChanges(changes []domain.AnalyzedChange) (domain.ChangeType, string, domain.ChangeImpact) {
	if len(changes) == 0 {
		return "", "", ""
	}

	impact := domain.ImpactLow
	for _, c := range changes {
		impact = domain.MaxImpact(impact, c.Analysis.Severity)
	}

	if len(changes) == 1 {
		return changes[0].Type, changes[0].Summary, impact
	}

	counts := map[domain.ChangeType]int{}
	for _, c := range changes {
		counts[c.Type]++
	}
	var parts []string
	for _, t := range []domain.ChangeType{domain.ChangeTypeAdded, domain.ChangeTypeModified, domain.ChangeTypeDeleted} {
		if n := counts[t]; n > 0 {
			parts = append(parts, pluralize(n, string(t)))
		}
	}
	summary := strings.Join(parts, ", ")
	return domain.ChangeTypeMultiple, summary, impact
}

func pluralize(n int, label string) string {
	if n == 1 {
		return "1 section " + label
	}
	return fmt.Sprintf("%d sections %s", n, label)
}

package domain

import "time"

// ChangeType classifies a detected content change.
type ChangeType string

// Known change types.
const (
	ChangeTypeAdded    ChangeType = "added"
	ChangeTypeModified ChangeType = "modified"
	ChangeTypeDeleted  ChangeType = "deleted"

	// ChangeTypeMultiple aggregates more than one change in a single
	// version transition.
	ChangeTypeMultiple ChangeType = "multiple"
)

// String returns the string representation.
func (t ChangeType) String() string {
	return string(t)
}

// ChangeImpact is the severity classification assigned to a change.
type ChangeImpact string

// Impact levels, ordered low to high.
const (
	ImpactLow    ChangeImpact = "low"
	ImpactMedium ChangeImpact = "medium"
	ImpactHigh   ChangeImpact = "high"
)

// String returns the string representation.
func (i ChangeImpact) String() string {
	return string(i)
}

// rank orders impacts for max aggregation. Unknown values rank lowest.
func (i ChangeImpact) rank() int {
	switch i {
	case ImpactLow:
		return 1
	case ImpactMedium:
		return 2
	case ImpactHigh:
		return 3
	default:
		return 0
	}
}

// MaxImpact returns the higher of two impact levels.
func MaxImpact(a, b ChangeImpact) ChangeImpact {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// ChangeDetails carries the before and after content of a change.
type ChangeDetails struct {
	// OldContent is the affected text in the previous version.
	OldContent string

	// NewContent is the affected text in the new version.
	NewContent string
}

// Change is one detected difference between two document versions, as
// reported by the diff provider.
type Change struct {
	// Type classifies the change.
	Type ChangeType

	// Summary is a short human-readable description.
	Summary string

	// Impact is the provider's severity estimate. Impact analysis may
	// escalate it afterwards.
	Impact ChangeImpact

	// Details holds the affected content.
	Details ChangeDetails
}

// ImpactAnalysis is the result of keyword-heuristic impact scoring for
// a single change.
type ImpactAnalysis struct {
	// Severity is the final severity after escalation rules.
	Severity ChangeImpact

	// Recommendations are textual follow-up suggestions, one per
	// matched category and change type.
	Recommendations []string

	// BreakingChanges is true when breaking-change language was found
	// in the new content.
	BreakingChanges bool

	// APIChanges is true when API-surface language was found in the
	// new content.
	APIChanges bool
}

// AnalyzedChange pairs a reported change with its impact analysis.
type AnalyzedChange struct {
	Change
	Analysis ImpactAnalysis
}

// ChangeRecord is the persisted summary of one version transition.
// A record is written only when new content differs from the last
// stored version; version numbers are strictly increasing per URL and
// never reused.
type ChangeRecord struct {
	// URL is the monitored document location.
	URL string

	// Version is the snapshot this record describes. Starts at 1.
	Version int

	// Type is the aggregated change type (multiple when more than one
	// change was detected).
	Type ChangeType

	// Summary is a short description of the transition.
	Summary string

	// Impact is the maximum severity across all detected changes.
	Impact ChangeImpact

	// Changes lists the analyzed changes behind this record.
	Changes []AnalyzedChange

	// CreatedAt is when the record was written.
	CreatedAt time.Time
}

package domain

import "slices"

// Severity orders findings and recommendation priorities: critical > high > medium > low.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

var severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Rank returns 0 for critical up to 3 for low; unknown values sort last.
func (s Severity) Rank() int {
	if i := slices.Index(severities, s); i >= 0 {
		return i
	}
	return len(severities)
}

func (s Severity) Valid() bool { return slices.Contains(severities, s) }

type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

type Category string

const (
	CategorySEO        Category = "seo"
	CategoryConversion Category = "conversion"
	CategorySpeed      Category = "speed"
	CategoryDesign     Category = "design"
	CategoryContent    Category = "content"
)

type FindingType string

const (
	FindingBrokenLink FindingType = "broken_link"
	FindingFormError  FindingType = "form_error"
	FindingSEOGap     FindingType = "seo_gap"
	FindingSpeedIssue FindingType = "speed_issue"
	FindingDesignFlaw FindingType = "design_flaw"
	FindingContentGap FindingType = "content_gap"
)

type RecommendationStatus string

const (
	StatusNotStarted RecommendationStatus = "not_started"
	StatusInProgress RecommendationStatus = "in_progress"
	StatusCompleted  RecommendationStatus = "completed"
	StatusBlocked    RecommendationStatus = "blocked"
)

var statuses = []RecommendationStatus{StatusNotStarted, StatusInProgress, StatusCompleted, StatusBlocked}

func (s RecommendationStatus) Valid() bool { return slices.Contains(statuses, s) }

// statusTransitions lists the allowed next states for each status. Every
// status may currently move to every other one, including backwards.
var statusTransitions = map[RecommendationStatus][]RecommendationStatus{
	StatusNotStarted: statuses,
	StatusInProgress: statuses,
	StatusCompleted:  statuses,
	StatusBlocked:    statuses,
}

// CanTransition reports whether a recommendation in state from may be patched to to.
func CanTransition(from, to RecommendationStatus) bool {
	return slices.Contains(statusTransitions[from], to)
}

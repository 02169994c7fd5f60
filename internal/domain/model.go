package domain

import "time"

// Core domain models. JSON tags match the dashboard API payloads, which keep
// the snake_case column names of the audits/findings/recommendations tables.

type Audit struct {
	ID                     string    `json:"id"`
	Site                   Site      `json:"site_slug"`
	AuditDate              time.Time `json:"audit_date"`
	LighthouseScore        int       `json:"lighthouse_score"`
	LCPMs                  float64   `json:"lcp_ms"`
	CLS                    float64   `json:"cls"`
	FIDMs                  float64   `json:"fid_ms"`
	EstimatedSEOVisibility int       `json:"estimated_seo_visibility"`
	ConversionRate         float64   `json:"conversion_rate"`
	CriticalIssues         int       `json:"critical_issues"`
	HighPriorityIssues     int       `json:"high_priority_issues"`
	CreatedAt              time.Time `json:"created_at"`
}

type Finding struct {
	ID          string      `json:"id"`
	Site        Site        `json:"site_slug"`
	AuditID     string      `json:"audit_id"`
	Title       string      `json:"title"`
	Severity    Severity    `json:"severity"`
	Description string      `json:"description"`
	Type        FindingType `json:"type"`
	CreatedAt   time.Time   `json:"created_at"`
}

type Recommendation struct {
	ID           string               `json:"id"`
	Site         Site                 `json:"site_slug"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Impact       Impact               `json:"impact"`
	EffortHours  float64              `json:"effort_hours"`
	Priority     Severity             `json:"priority"`
	Status       RecommendationStatus `json:"status"`
	BlockerNotes *string              `json:"blocker_notes"`
	Category     Category             `json:"category"`
	Owner        *string              `json:"owner"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// RecommendationPatch is the only mutation allowed on a recommendation.
// A nil pointer leaves the field untouched; SetBlockerNotes/SetOwner with a
// nil value clears it.
type RecommendationPatch struct {
	Status          *RecommendationStatus
	BlockerNotes    *string
	SetBlockerNotes bool
	Owner           *string
	SetOwner        bool
}

// Apply copies the patched fields onto r and stamps UpdatedAt.
func (p RecommendationPatch) Apply(r *Recommendation, now time.Time) {
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.SetBlockerNotes {
		r.BlockerNotes = p.BlockerNotes
	}
	if p.SetOwner {
		r.Owner = p.Owner
	}
	r.UpdatedAt = now
}

// FindingFilter narrows a findings query. Zero values mean "any".
type FindingFilter struct {
	Site     Site
	Severity Severity
	Limit    int
}

// DefaultFindingLimit applies when FindingFilter.Limit is not positive.
const DefaultFindingLimit = 100

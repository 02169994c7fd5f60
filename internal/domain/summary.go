package domain

import "time"

// DashboardSummary is computed per request and never stored.
type DashboardSummary struct {
	GeneratedAt     time.Time                 `json:"generatedAt"`
	LatestAudits    map[Site]*Audit           `json:"latestAudits"`
	AuditsBySite    map[Site][]Audit          `json:"auditsBySite"`
	Recommendations []Recommendation          `json:"recommendations"`
	Findings        []Finding                 `json:"findings"`
	Trends          map[Site]map[string]Trend `json:"trends"`
	Health          Health                    `json:"health"`
}

// Trend compares a metric with its previous value.
type Trend struct {
	Label     string  `json:"label"`
	Direction string  `json:"direction"`
	Percent   float64 `json:"percent"`
}

// Health summarises whether anything needs attention right now.
type Health struct {
	AttentionRequired bool       `json:"attention_required"`
	CriticalCount     int        `json:"critical_count"`
	CriticalFindings  []Finding  `json:"critical_findings"`
	LastAudit         *time.Time `json:"last_audit"`
	NextAudit         time.Time  `json:"next_audit"`
}

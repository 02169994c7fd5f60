package ports

import (
	"context"

	"missioncontrol/internal/domain"
)

// AuditResult summarises one site of an audit run.
type AuditResult struct {
	Site       domain.Site      `json:"site"`
	Lighthouse int              `json:"lighthouse"`
	Issues     int              `json:"issues"`
	Audit      domain.Audit     `json:"-"`
	Findings   []domain.Finding `json:"-"`
}

// AuditRunner runs the weekly audit for every configured site.
type AuditRunner interface {
	Run(ctx context.Context) ([]AuditResult, error)
}

// Reporter relays audit results to chat. Implementations treat unknown sites
// as a no-op.
type Reporter interface {
	ReportAudits(ctx context.Context, results []AuditResult) error
}

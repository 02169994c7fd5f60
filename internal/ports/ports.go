package ports

import (
	"context"

	"missioncontrol/internal/domain"
)

// Metrics is the normalized output of a performance scoring run.
type Metrics struct {
	Lighthouse int
	LCP        float64
	CLS        float64
	FID        float64
}

// MetricSource scores a URL. Implementations degrade to synthetic values
// instead of failing.
type MetricSource interface {
	Measure(ctx context.Context, url string) Metrics
}

// FormHealth is the outcome of a landing page form check.
type FormHealth struct {
	HasForm bool
	Issue   *string
}

// FormChecker inspects a landing page for a form. It never fails.
type FormChecker interface {
	Check(ctx context.Context, url string) FormHealth
}

// Dashboard is the read side used by the API and the bot.
type Dashboard interface {
	LatestAudit(ctx context.Context, site domain.Site) (*domain.Audit, error)
	AuditHistory(ctx context.Context, site domain.Site, days int) ([]domain.Audit, error)
	Recommendations(ctx context.Context, site domain.Site) ([]domain.Recommendation, error)
	Findings(ctx context.Context, filter domain.FindingFilter) ([]domain.Finding, error)
	Summary(ctx context.Context) (domain.DashboardSummary, error)
	UpdateRecommendation(ctx context.Context, id string, patch domain.RecommendationPatch) (*domain.Recommendation, error)
}

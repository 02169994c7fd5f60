package ports

import (
	"context"

	"missioncontrol/internal/domain"
)

// AuditRepository reads audits.
type AuditRepository interface {
	LatestAudit(ctx context.Context, site domain.Site) (*domain.Audit, error)
	AuditHistory(ctx context.Context, site domain.Site, days int) ([]domain.Audit, error)
}

// AuditWriter persists audit results. Only the audit runner writes.
type AuditWriter interface {
	InsertAudit(ctx context.Context, a domain.Audit) (domain.Audit, error)
	InsertFinding(ctx context.Context, f domain.Finding) (domain.Finding, error)
}

// FindingRepository reads findings.
type FindingRepository interface {
	Findings(ctx context.Context, filter domain.FindingFilter) ([]domain.Finding, error)
}

// RecommendationRepository reads and patches recommendations. UpdateRecommendation
// returns (nil, nil) when no recommendation has the given id.
type RecommendationRepository interface {
	Recommendations(ctx context.Context, site domain.Site) ([]domain.Recommendation, error)
	UpdateRecommendation(ctx context.Context, id string, patch domain.RecommendationPatch) (*domain.Recommendation, error)
}

// Store is implemented by both the Postgres adapter and the in-memory fallback.
type Store interface {
	AuditRepository
	AuditWriter
	FindingRepository
	RecommendationRepository
	Close()
}

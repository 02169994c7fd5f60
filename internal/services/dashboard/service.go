package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"missioncontrol/internal/domain"
	"missioncontrol/internal/ports"
)

const (
	summaryHistoryDays   = 30
	summaryFindingsLimit = 50
	healthCriticalTop    = 5
	maxHistoryDays       = 365
)

type Service struct {
	store ports.Store
	now   func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(store ports.Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.Dashboard = (*Service)(nil)

func (s *Service) LatestAudit(ctx context.Context, site domain.Site) (*domain.Audit, error) {
	return s.store.LatestAudit(ctx, site)
}

// AuditHistory returns the audits of the last days days, oldest first.
func (s *Service) AuditHistory(ctx context.Context, site domain.Site, days int) ([]domain.Audit, error) {
	if days < 1 || days > maxHistoryDays {
		return nil, ErrInvalidDays
	}
	return s.store.AuditHistory(ctx, site, days)
}

// Recommendations lists recommendations for one site, or all when site is empty.
func (s *Service) Recommendations(ctx context.Context, site domain.Site) ([]domain.Recommendation, error) {
	return s.store.Recommendations(ctx, site)
}

func (s *Service) Findings(ctx context.Context, filter domain.FindingFilter) ([]domain.Finding, error) {
	if filter.Severity != "" && !filter.Severity.Valid() {
		return nil, ErrInvalidSeverity
	}
	if filter.Limit <= 0 {
		filter.Limit = domain.DefaultFindingLimit
	}
	return s.store.Findings(ctx, filter)
}

// UpdateRecommendation validates and applies a patch. It returns ErrNotFound
// when no recommendation has the id.
func (s *Service) UpdateRecommendation(ctx context.Context, id string, patch domain.RecommendationPatch) (*domain.Recommendation, error) {
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		recs, err := s.store.Recommendations(ctx, "")
		if err != nil {
			return nil, err
		}
		current, ok := lo.Find(recs, func(r domain.Recommendation) bool { return r.ID == id })
		if !ok {
			return nil, ErrNotFound
		}
		if !domain.CanTransition(current.Status, *patch.Status) {
			return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, *patch.Status)
		}
	}

	updated, err := s.store.UpdateRecommendation(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Summary assembles the dashboard payload. Nothing here is cached.
func (s *Service) Summary(ctx context.Context) (domain.DashboardSummary, error) {
	now := s.now()
	sum := domain.DashboardSummary{
		GeneratedAt:  now,
		LatestAudits: make(map[domain.Site]*domain.Audit, len(domain.Sites)),
		AuditsBySite: make(map[domain.Site][]domain.Audit, len(domain.Sites)),
		Trends:       make(map[domain.Site]map[string]domain.Trend, len(domain.Sites)),
	}

	for _, t := range domain.Sites {
		latest, err := s.store.LatestAudit(ctx, t.Site)
		if err != nil {
			return domain.DashboardSummary{}, fmt.Errorf("latest audit %s: %w", t.Site, err)
		}
		history, err := s.store.AuditHistory(ctx, t.Site, summaryHistoryDays)
		if err != nil {
			return domain.DashboardSummary{}, fmt.Errorf("audit history %s: %w", t.Site, err)
		}
		if history == nil {
			history = []domain.Audit{}
		}
		sum.LatestAudits[t.Site] = latest
		sum.AuditsBySite[t.Site] = history

		if latest != nil {
			var prev *domain.Audit
			if n := len(history); n >= 2 {
				prev = &history[n-2]
			}
			sum.Trends[t.Site] = AuditTrends(*latest, prev)
		}
	}

	recs, err := s.store.Recommendations(ctx, "")
	if err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("recommendations: %w", err)
	}
	findings, err := s.store.Findings(ctx, domain.FindingFilter{Limit: summaryFindingsLimit})
	if err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("findings: %w", err)
	}
	sum.Recommendations = lo.Ternary(recs == nil, []domain.Recommendation{}, recs)
	sum.Findings = lo.Ternary(findings == nil, []domain.Finding{}, findings)
	sum.Health = HealthOf(lo.Values(sum.LatestAudits), sum.Findings, now)

	return sum, nil
}

// HealthOf derives the health panel from the latest audits and recent findings.
func HealthOf(latest []*domain.Audit, findings []domain.Finding, now time.Time) domain.Health {
	critical := lo.Filter(findings, func(f domain.Finding, _ int) bool {
		return f.Severity == domain.SeverityCritical
	})

	h := domain.Health{
		AttentionRequired: len(critical) > 0,
		CriticalCount:     len(critical),
		CriticalFindings:  critical[:min(len(critical), healthCriticalTop)],
		NextAudit:         NextScheduledAudit(now),
	}

	audits := lo.Compact(latest)
	if len(audits) > 0 {
		last := lo.MaxBy(audits, func(a, b *domain.Audit) bool { return a.AuditDate.After(b.AuditDate) })
		h.LastAudit = &last.AuditDate
	}
	return h
}

// NextScheduledAudit returns 06:00 on the first Monday after now's calendar
// day, in now's location. On a Monday it is the following week's Monday.
func NextScheduledAudit(now time.Time) time.Time {
	days := (8 - int(now.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	d := now.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 6, 0, 0, 0, now.Location())
}

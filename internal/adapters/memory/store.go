// Package memory is the fallback store used when no database is configured.
// It holds the demo dataset and accepts writes for the lifetime of the process.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"missioncontrol/internal/domain"
	"missioncontrol/internal/ports"
)

type Store struct {
	mu              sync.RWMutex
	audits          []domain.Audit
	findings        []domain.Finding
	recommendations []domain.Recommendation
	now             func() time.Time
	custom          bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithData replaces the seeded dataset.
func WithData(audits []domain.Audit, findings []domain.Finding, recs []domain.Recommendation) Option {
	return func(s *Store) {
		s.audits = slices.Clone(audits)
		s.findings = slices.Clone(findings)
		s.recommendations = slices.Clone(recs)
		s.custom = true
	}
}

var _ ports.Store = (*Store)(nil)

// New returns a store seeded with the demo dataset relative to the store clock.
func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if !s.custom {
		s.audits, s.findings, s.recommendations = Seed(s.now())
	}
	return s
}

func (s *Store) Close() {}

func (s *Store) LatestAudit(_ context.Context, site domain.Site) (*domain.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	forSite := lo.Filter(s.audits, func(a domain.Audit, _ int) bool { return a.Site == site })
	if len(forSite) == 0 {
		return nil, nil
	}
	latest := lo.MaxBy(forSite, func(a, b domain.Audit) bool { return a.AuditDate.After(b.AuditDate) })
	return &latest, nil
}

func (s *Store) AuditHistory(_ context.Context, site domain.Site, days int) ([]domain.Audit, error) {
	cutoff := s.now().Add(-time.Duration(days) * 24 * time.Hour)

	s.mu.RLock()
	out := lo.Filter(s.audits, func(a domain.Audit, _ int) bool {
		return a.Site == site && !a.AuditDate.Before(cutoff)
	})
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b domain.Audit) int { return a.AuditDate.Compare(b.AuditDate) })
	return out, nil
}

func (s *Store) InsertAudit(_ context.Context, a domain.Audit) (domain.Audit, error) {
	a.ID = uuid.NewString()
	a.CreatedAt = s.now()

	s.mu.Lock()
	s.audits = append(s.audits, a)
	s.mu.Unlock()
	return a, nil
}

func (s *Store) InsertFinding(_ context.Context, f domain.Finding) (domain.Finding, error) {
	f.ID = uuid.NewString()
	f.CreatedAt = s.now()

	s.mu.Lock()
	s.findings = append(s.findings, f)
	s.mu.Unlock()
	return f, nil
}

func (s *Store) Findings(_ context.Context, filter domain.FindingFilter) ([]domain.Finding, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultFindingLimit
	}

	s.mu.RLock()
	out := lo.Filter(s.findings, func(f domain.Finding, _ int) bool {
		if filter.Site != "" && f.Site != filter.Site {
			return false
		}
		return filter.Severity == "" || f.Severity == filter.Severity
	})
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b domain.Finding) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) Recommendations(_ context.Context, site domain.Site) ([]domain.Recommendation, error) {
	s.mu.RLock()
	out := lo.Filter(s.recommendations, func(r domain.Recommendation, _ int) bool {
		return site == "" || r.Site == site
	})
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b domain.Recommendation) int {
		return cmp.Or(
			cmp.Compare(a.Priority.Rank(), b.Priority.Rank()),
			b.UpdatedAt.Compare(a.UpdatedAt),
		)
	})
	return out, nil
}

func (s *Store) UpdateRecommendation(_ context.Context, id string, patch domain.RecommendationPatch) (*domain.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, idx, found := lo.FindIndexOf(s.recommendations, func(r domain.Recommendation) bool { return r.ID == id })
	if !found {
		return nil, nil
	}
	patch.Apply(&s.recommendations[idx], s.now())
	out := s.recommendations[idx]
	return &out, nil
}

package audits

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"missioncontrol/internal/domain"
	"missioncontrol/internal/ports"
)

// Lighthouse scores below this produce a high severity finding.
const performanceTarget = 75

type Service struct {
	store   ports.AuditWriter
	metrics ports.MetricSource
	forms   ports.FormChecker
	sites   []domain.SiteTarget
	now     func() time.Time
}

type Option func(*Service)

// WithSites replaces the audited site list.
func WithSites(sites []domain.SiteTarget) Option {
	return func(s *Service) { s.sites = sites }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(store ports.AuditWriter, metrics ports.MetricSource, forms ports.FormChecker, opts ...Option) *Service {
	s := &Service{
		store:   store,
		metrics: metrics,
		forms:   forms,
		sites:   domain.Sites,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.AuditRunner = (*Service)(nil)

// Run audits every site in order. The first persistence failure aborts the
// run; audits already written for earlier sites stay.
func (s *Service) Run(ctx context.Context) ([]ports.AuditResult, error) {
	results := make([]ports.AuditResult, 0, len(s.sites))
	for _, target := range s.sites {
		res, err := s.auditSite(ctx, target)
		if err != nil {
			return results, fmt.Errorf("audit %s: %w", target.Site, err)
		}
		log.Info().
			Str("site", string(res.Site)).
			Int("lighthouse", res.Lighthouse).
			Int("issues", res.Issues).
			Msg("audit stored")
		results = append(results, res)
	}
	return results, nil
}

func (s *Service) auditSite(ctx context.Context, target domain.SiteTarget) (ports.AuditResult, error) {
	log.Debug().Str("site", string(target.Site)).Str("domain", target.RegistrableDomain()).Msg("auditing site")

	m := s.metrics.Measure(ctx, target.URL)
	form := s.forms.Check(ctx, target.URL)

	audit := Derive(target.Site, m, form, s.now())
	stored, err := s.store.InsertAudit(ctx, audit)
	if err != nil {
		return ports.AuditResult{}, fmt.Errorf("insert audit: %w", err)
	}

	var findings []domain.Finding
	for _, f := range Findings(stored, m, form) {
		saved, err := s.store.InsertFinding(ctx, f)
		if err != nil {
			return ports.AuditResult{}, fmt.Errorf("insert finding %q: %w", f.Title, err)
		}
		findings = append(findings, saved)
	}

	return ports.AuditResult{
		Site:       target.Site,
		Lighthouse: m.Lighthouse,
		Issues:     stored.CriticalIssues + stored.HighPriorityIssues,
		Audit:      stored,
		Findings:   findings,
	}, nil
}

// Derive builds the audit row for one site from its measured metrics and
// form health.
func Derive(site domain.Site, m ports.Metrics, form ports.FormHealth, now time.Time) domain.Audit {
	conversion := 0.06
	critical := 1
	if form.HasForm {
		conversion = 0.11
		critical = 0
	}
	high := 1
	if m.Lighthouse < performanceTarget {
		high = 2
	}

	return domain.Audit{
		Site:                   site,
		AuditDate:              now,
		LighthouseScore:        m.Lighthouse,
		LCPMs:                  math.Round(m.LCP),
		CLS:                    math.Round(m.CLS*1000) / 1000,
		FIDMs:                  math.Round(m.FID),
		EstimatedSEOVisibility: SEOVisibility(m.Lighthouse, form.HasForm),
		ConversionRate:         conversion,
		CriticalIssues:         critical,
		HighPriorityIssues:     high,
		CreatedAt:              now,
	}
}

// SEOVisibility estimates search visibility from the lighthouse score and
// whether the landing page has a form. The result is always within [30, 98].
func SEOVisibility(lighthouse int, hasForm bool) int {
	bonus := -10
	if hasForm {
		bonus = 10
	}
	v := int(math.Round(float64(lighthouse+bonus) * 0.75))
	return min(max(v, 30), 98)
}

// Findings returns the findings an audit raises: a critical one when the
// form check reported an issue and a high one when performance is below
// target.
func Findings(a domain.Audit, m ports.Metrics, form ports.FormHealth) []domain.Finding {
	var out []domain.Finding
	if form.Issue != nil {
		out = append(out, domain.Finding{
			Site:        a.Site,
			AuditID:     a.ID,
			Title:       "Form availability issue",
			Severity:    domain.SeverityCritical,
			Description: *form.Issue,
			Type:        domain.FindingFormError,
		})
	}
	if m.Lighthouse < performanceTarget {
		out = append(out, domain.Finding{
			Site:        a.Site,
			AuditID:     a.ID,
			Title:       "Performance below target",
			Severity:    domain.SeverityHigh,
			Description: fmt.Sprintf("Lighthouse score is %d, target is 85+", m.Lighthouse),
			Type:        domain.FindingSpeedIssue,
		})
	}
	return out
}

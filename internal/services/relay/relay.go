// Package relay posts audit reports and alerts into the per-site channels.
package relay

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"missioncontrol/internal/adapters/discord"
	"missioncontrol/internal/domain"
	"missioncontrol/internal/ports"
)

const (
	ColorCritical = 15158332
	ColorHigh     = 16776960
	ColorMedium   = 3447003

	footerText         = "Mission Control Dashboard"
	topRecommendations = 3
)

// GeneralChannel is the channel key for messages not tied to a site.
const GeneralChannel = "general"

// Sender posts a message to a channel.
type Sender interface {
	SendMessage(ctx context.Context, channelID string, payload discord.MessagePayload) error
}

// Channels maps a site slug (or GeneralChannel) to a channel id.
type Channels map[string]string

type Relay struct {
	sender   Sender
	channels Channels
	recs     ports.RecommendationRepository
	now      func() time.Time
}

type Option func(*Relay)

// WithRecommendations adds the top open recommendations to reports built by
// ReportAudits.
func WithRecommendations(recs ports.RecommendationRepository) Option {
	return func(r *Relay) { r.recs = recs }
}

func WithClock(now func() time.Time) Option {
	return func(r *Relay) {
		if now != nil {
			r.now = now
		}
	}
}

func New(sender Sender, channels Channels, opts ...Option) *Relay {
	r := &Relay{sender: sender, channels: channels, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.Reporter = (*Relay)(nil)

type Metrics struct {
	LighthouseScore int
	PageSpeedMs     float64
	SEOVisibility   int
	ConversionRate  float64
}

type RecommendationSummary struct {
	Title       string
	Impact      domain.Impact
	EffortHours float64
}

// AuditReport is the content of one site's report embed.
type AuditReport struct {
	Site              domain.Site
	Timestamp         time.Time
	Metrics           Metrics
	CriticalIssues    []string
	HighPriorityItems []string
	Recommendations   []RecommendationSummary
}

// PostAuditReport posts report to its site channel. A site without a channel
// is logged and skipped.
func (r *Relay) PostAuditReport(ctx context.Context, report AuditReport) error {
	channelID, ok := r.channels[string(report.Site)]
	if !ok || channelID == "" {
		log.Warn().Str("site", string(report.Site)).Msg("unknown site, audit report not posted")
		return nil
	}

	payload := discord.MessagePayload{
		Content: fmt.Sprintf("🚀 New %s audit report ready!", report.Site),
		Embeds:  []discord.Embed{reportEmbed(report)},
	}
	if err := r.sender.SendMessage(ctx, channelID, payload); err != nil {
		return fmt.Errorf("post %s audit report: %w", report.Site, err)
	}
	return nil
}

func reportEmbed(report AuditReport) discord.Embed {
	m := report.Metrics
	metrics := fmt.Sprintf("\n• Lighthouse Score: **%d/100**\n• Page Speed: **%sms**\n• SEO Visibility: **%d%%**\n• Conversion Rate: **%s%%**",
		m.LighthouseScore,
		strconv.FormatFloat(m.PageSpeedMs, 'f', -1, 64),
		m.SEOVisibility,
		strconv.FormatFloat(m.ConversionRate*100, 'f', 1, 64))

	recs := lo.Map(lo.Slice(report.Recommendations, 0, topRecommendations), func(rec RecommendationSummary, _ int) string {
		return fmt.Sprintf("• **%s** (Impact: %s, Effort: %sh)", rec.Title, rec.Impact, strconv.FormatFloat(rec.EffortHours, 'f', -1, 64))
	})

	return discord.Embed{
		Title:       fmt.Sprintf("📊 %s Audit Report", strings.ToUpper(string(report.Site))),
		Description: fmt.Sprintf("Weekly optimization audit for %s - %s", siteDomain(report.Site), report.Timestamp.Format("1/2/2006")),
		Color:       ColorMedium,
		Fields: []discord.EmbedField{
			{Name: "📈 Metrics", Value: metrics},
			{Name: "🔴 Critical Issues", Value: bulletList(report.CriticalIssues, "None detected")},
			{Name: "🟡 High Priority", Value: bulletList(report.HighPriorityItems, "None")},
			{Name: "💡 Top Recommendations", Value: lo.Ternary(len(recs) > 0, strings.Join(recs, "\n"), "None")},
		},
		Footer: &discord.EmbedFooter{Text: footerText},
	}
}

// siteDomain names the audited registrable domain, or the slug for sites
// outside the registry.
func siteDomain(site domain.Site) string {
	target, ok := domain.Target(site)
	if !ok {
		return string(site)
	}
	return target.RegistrableDomain()
}

func bulletList(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(lo.Map(items, func(s string, _ int) string { return "• " + s }), "\n")
}

// SeverityColor returns the embed color for an alert severity. Anything
// below high uses the medium color.
func SeverityColor(severity domain.Severity) int {
	switch severity {
	case domain.SeverityCritical:
		return ColorCritical
	case domain.SeverityHigh:
		return ColorHigh
	default:
		return ColorMedium
	}
}

// PostAlert posts the same alert to each site's channel. Sites without a
// channel are skipped. Every site is attempted; send errors come back joined.
func (r *Relay) PostAlert(ctx context.Context, sites []domain.Site, title, message string, severity domain.Severity) error {
	payload := discord.MessagePayload{
		Embeds: []discord.Embed{{
			Title:       "🚨 " + title,
			Description: message,
			Color:       SeverityColor(severity),
			Timestamp:   r.now().UTC().Format(time.RFC3339),
		}},
	}

	var errs []error
	for _, site := range sites {
		channelID, ok := r.channels[string(site)]
		if !ok || channelID == "" {
			continue
		}
		if err := r.sender.SendMessage(ctx, channelID, payload); err != nil {
			errs = append(errs, fmt.Errorf("alert %s: %w", site, err))
		}
	}
	return errors.Join(errs...)
}

// AlertCriticalFindings posts one critical alert per site whose audit
// produced critical findings. Sites without any are not alerted.
func (r *Relay) AlertCriticalFindings(ctx context.Context, results []ports.AuditResult) error {
	var errs []error
	for _, res := range results {
		critical := lo.FilterMap(res.Findings, func(f domain.Finding, _ int) (string, bool) {
			return f.Title, f.Severity == domain.SeverityCritical
		})
		if len(critical) == 0 {
			continue
		}
		title := fmt.Sprintf("%d critical issue(s) on %s", len(critical), siteDomain(res.Site))
		if err := r.PostAlert(ctx, []domain.Site{res.Site}, title, bulletList(critical, ""), domain.SeverityCritical); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ReportAudits posts one report per audit result.
func (r *Relay) ReportAudits(ctx context.Context, results []ports.AuditResult) error {
	var errs []error
	for _, res := range results {
		report, err := r.buildReport(ctx, res)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := r.PostAuditReport(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Relay) buildReport(ctx context.Context, res ports.AuditResult) (AuditReport, error) {
	titles := func(sev domain.Severity) []string {
		return lo.FilterMap(res.Findings, func(f domain.Finding, _ int) (string, bool) {
			return f.Title, f.Severity == sev
		})
	}

	report := AuditReport{
		Site:      res.Site,
		Timestamp: res.Audit.AuditDate,
		Metrics: Metrics{
			LighthouseScore: res.Audit.LighthouseScore,
			PageSpeedMs:     res.Audit.LCPMs,
			SEOVisibility:   res.Audit.EstimatedSEOVisibility,
			ConversionRate:  res.Audit.ConversionRate,
		},
		CriticalIssues:    titles(domain.SeverityCritical),
		HighPriorityItems: titles(domain.SeverityHigh),
	}
	if report.Timestamp.IsZero() {
		report.Timestamp = r.now()
	}

	if r.recs != nil {
		recs, err := r.recs.Recommendations(ctx, res.Site)
		if err != nil {
			return AuditReport{}, fmt.Errorf("recommendations for %s report: %w", res.Site, err)
		}
		open := lo.Filter(recs, func(rec domain.Recommendation, _ int) bool { return rec.Status != domain.StatusCompleted })
		report.Recommendations = lo.Map(lo.Slice(open, 0, topRecommendations), func(rec domain.Recommendation, _ int) RecommendationSummary {
			return RecommendationSummary{Title: rec.Title, Impact: rec.Impact, EffortHours: rec.EffortHours}
		})
	}
	return report, nil
}

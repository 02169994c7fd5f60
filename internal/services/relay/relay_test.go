package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missioncontrol/internal/adapters/discord"
	"missioncontrol/internal/adapters/memory"
	"missioncontrol/internal/domain"
	"missioncontrol/internal/ports"
)

type post struct {
	channel string
	payload discord.MessagePayload
}

type fakeSender struct {
	posts   []post
	failFor map[string]error
}

func (f *fakeSender) SendMessage(_ context.Context, channelID string, payload discord.MessagePayload) error {
	f.posts = append(f.posts, post{channel: channelID, payload: payload})
	return f.failFor[channelID]
}

var (
	now      = time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	channels = Channels{"bruceac": "c-bruce", "meraki": "c-meraki", GeneralChannel: "c-general"}
)

func clock() time.Time { return now }

func TestPostAuditReport(t *testing.T) {
	sender := &fakeSender{}
	r := New(sender, channels)

	err := r.PostAuditReport(context.Background(), AuditReport{
		Site:      domain.SiteMeraki,
		Timestamp: now,
		Metrics:   Metrics{LighthouseScore: 62, PageSpeedMs: 3300, SEOVisibility: 39, ConversionRate: 0.06},
		CriticalIssues: []string{
			"Form availability issue",
		},
		Recommendations: []RecommendationSummary{
			{Title: "a", Impact: domain.ImpactHigh, EffortHours: 2},
			{Title: "b", Impact: domain.ImpactLow, EffortHours: 1.5},
			{Title: "c", Impact: domain.ImpactLow, EffortHours: 1},
			{Title: "d", Impact: domain.ImpactLow, EffortHours: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, sender.posts, 1)

	p := sender.posts[0]
	assert.Equal(t, "c-meraki", p.channel)
	assert.Equal(t, "🚀 New meraki audit report ready!", p.payload.Content)
	require.Len(t, p.payload.Embeds, 1)

	e := p.payload.Embeds[0]
	assert.Equal(t, "📊 MERAKI Audit Report", e.Title)
	assert.Equal(t, "Weekly optimization audit for merakirestoration.com - 3/2/2026", e.Description)
	assert.Equal(t, ColorMedium, e.Color)
	require.NotNil(t, e.Footer)
	assert.Equal(t, "Mission Control Dashboard", e.Footer.Text)

	require.Len(t, e.Fields, 4)
	assert.Contains(t, e.Fields[0].Value, "Lighthouse Score: **62/100**")
	assert.Contains(t, e.Fields[0].Value, "Page Speed: **3300ms**")
	assert.Contains(t, e.Fields[0].Value, "Conversion Rate: **6.0%**")
	assert.Equal(t, "• Form availability issue", e.Fields[1].Value)
	assert.Equal(t, "None", e.Fields[2].Value)
	assert.Equal(t,
		"• **a** (Impact: high, Effort: 2h)\n• **b** (Impact: low, Effort: 1.5h)\n• **c** (Impact: low, Effort: 1h)",
		e.Fields[3].Value)
	assert.False(t, e.Fields[0].Inline)
}

func TestPostAuditReport_UnknownSite(t *testing.T) {
	sender := &fakeSender{}
	r := New(sender, channels)

	err := r.PostAuditReport(context.Background(), AuditReport{Site: "acme", Timestamp: now})
	assert.NoError(t, err)
	assert.Empty(t, sender.posts)
}

func TestPostAuditReport_EmptySections(t *testing.T) {
	sender := &fakeSender{}
	r := New(sender, channels)

	require.NoError(t, r.PostAuditReport(context.Background(), AuditReport{Site: domain.SiteBruceAC, Timestamp: now}))
	assert.Equal(t, "Weekly optimization audit for bruceac.com - 3/2/2026", sender.posts[0].payload.Embeds[0].Description)
	fields := sender.posts[0].payload.Embeds[0].Fields
	assert.Equal(t, "None detected", fields[1].Value)
	assert.Equal(t, "None", fields[2].Value)
	assert.Equal(t, "None", fields[3].Value)
}

func TestPostAlert(t *testing.T) {
	sender := &fakeSender{}
	r := New(sender, channels, WithClock(clock))

	err := r.PostAlert(context.Background(),
		[]domain.Site{domain.SiteBruceAC, "acme", domain.SiteMeraki},
		"Form down", "No form detected", domain.SeverityCritical)
	require.NoError(t, err)
	require.Len(t, sender.posts, 2)
	assert.Equal(t, "c-bruce", sender.posts[0].channel)
	assert.Equal(t, "c-meraki", sender.posts[1].channel)

	e := sender.posts[0].payload.Embeds[0]
	assert.Equal(t, "🚨 Form down", e.Title)
	assert.Equal(t, "No form detected", e.Description)
	assert.Equal(t, ColorCritical, e.Color)
	assert.Equal(t, "2026-03-02T06:00:00Z", e.Timestamp)
}

func TestPostAlert_AttemptsEverySite(t *testing.T) {
	sender := &fakeSender{failFor: map[string]error{"c-bruce": errors.New("forbidden")}}
	r := New(sender, channels)

	err := r.PostAlert(context.Background(), []domain.Site{domain.SiteBruceAC, domain.SiteMeraki}, "t", "m", domain.SeverityHigh)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")
	assert.Len(t, sender.posts, 2, "meraki is still attempted after bruceac fails")
	assert.Equal(t, ColorHigh, sender.posts[1].payload.Embeds[0].Color)
}

func TestSeverityColor(t *testing.T) {
	assert.Equal(t, 15158332, SeverityColor(domain.SeverityCritical))
	assert.Equal(t, 16776960, SeverityColor(domain.SeverityHigh))
	assert.Equal(t, 3447003, SeverityColor(domain.SeverityMedium))
	assert.Equal(t, 3447003, SeverityColor(domain.SeverityLow))
}

func TestReportAudits(t *testing.T) {
	sender := &fakeSender{}
	store := memory.New(memory.WithClock(clock))
	r := New(sender, channels, WithRecommendations(store))

	results := []ports.AuditResult{
		{
			Site:  domain.SiteMeraki,
			Audit: domain.Audit{Site: domain.SiteMeraki, AuditDate: now, LighthouseScore: 62, LCPMs: 3300, EstimatedSEOVisibility: 39, ConversionRate: 0.06},
			Findings: []domain.Finding{
				{Title: "Form availability issue", Severity: domain.SeverityCritical},
				{Title: "Performance below target", Severity: domain.SeverityHigh},
			},
		},
		{Site: domain.SiteBruceAC, Audit: domain.Audit{Site: domain.SiteBruceAC, AuditDate: now, LighthouseScore: 90}},
	}

	require.NoError(t, r.ReportAudits(context.Background(), results))
	require.Len(t, sender.posts, 2)

	meraki := sender.posts[0].payload.Embeds[0]
	assert.Equal(t, "• Form availability issue", meraki.Fields[1].Value)
	assert.Equal(t, "• Performance below target", meraki.Fields[2].Value)
	assert.Contains(t, meraki.Fields[3].Value, "Repair quote form email validation edge cases")
	assert.Contains(t, meraki.Fields[3].Value, "Add location pages for top ZIPs")

	bruce := sender.posts[1].payload.Embeds[0]
	assert.Contains(t, bruce.Fields[3].Value, "Fix homepage hero LCP image preload")
}

func TestSiteDomain(t *testing.T) {
	assert.Equal(t, "bruceac.com", siteDomain(domain.SiteBruceAC))
	assert.Equal(t, "merakirestoration.com", siteDomain(domain.SiteMeraki))
	assert.Equal(t, "acme", siteDomain("acme"))
}

func TestAlertCriticalFindings(t *testing.T) {
	sender := &fakeSender{}
	r := New(sender, channels, WithClock(clock))

	results := []ports.AuditResult{
		{Site: domain.SiteBruceAC, Findings: []domain.Finding{{Title: "Performance below target", Severity: domain.SeverityHigh}}},
		{Site: domain.SiteMeraki, Findings: []domain.Finding{
			{Title: "Form availability issue", Severity: domain.SeverityCritical},
			{Title: "Performance below target", Severity: domain.SeverityHigh},
		}},
	}

	require.NoError(t, r.AlertCriticalFindings(context.Background(), results))
	require.Len(t, sender.posts, 1, "only sites with critical findings are alerted")
	assert.Equal(t, "c-meraki", sender.posts[0].channel)

	e := sender.posts[0].payload.Embeds[0]
	assert.Equal(t, "🚨 1 critical issue(s) on merakirestoration.com", e.Title)
	assert.Equal(t, "• Form availability issue", e.Description)
	assert.Equal(t, ColorCritical, e.Color)
}

func TestAlertCriticalFindings_JoinsErrors(t *testing.T) {
	sender := &fakeSender{failFor: map[string]error{"c-bruce": errors.New("forbidden")}}
	r := New(sender, channels)

	critical := []domain.Finding{{Title: "Form availability issue", Severity: domain.SeverityCritical}}
	err := r.AlertCriticalFindings(context.Background(), []ports.AuditResult{
		{Site: domain.SiteBruceAC, Findings: critical},
		{Site: domain.SiteMeraki, Findings: critical},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")
	assert.Len(t, sender.posts, 2)
}

package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"missioncontrol/internal/domain"
	"missioncontrol/internal/services/dashboard"
)

const auditSchedule = "Monday 6 AM PST"

func helpText() string {
	return "**Available Commands:**\n" +
		"```\n" +
		"@Open Claw audit [site]       - Get latest audit report\n" +
		"@Open Claw status [site]      - Check current status\n" +
		"@Open Claw recommendations    - Get top recommendations\n" +
		"@Open Claw help               - Show this help message\n" +
		"```\n\n" +
		"**Sites:** `bruceac`, `meraki` (default: bruceac)\n\n" +
		"**Examples:**\n" +
		"• `@Open Claw audit meraki`\n" +
		"• `@Open Claw status`\n" +
		"• `@Open Claw recommendations bruceac`"
}

func unknownCommandText(name string) string {
	return fmt.Sprintf("❓ Unknown command: `%s`\n%s", name, helpText())
}

func errorText(err error) string {
	return fmt.Sprintf("❌ Error: %s\n\nTry `@Open Claw help` for available commands.", err)
}

// Placeholder replies used when the bot has no data source.

func auditPlaceholder(site string) string {
	return fmt.Sprintf("📊 **%s - Latest Audit**\n\n"+
		"🔄 Fetching latest audit data...\n"+
		"(Once Mission Control dashboard is live, this will show real metrics)\n\n"+
		"**Expected Next Audit:** %s", domain.DisplayName(site), auditSchedule)
}

func statusPlaceholder(site string) string {
	return fmt.Sprintf("🟢 **%s - Status**\n\n"+
		"• Bot connection: ✅ Active\n"+
		"• Audit schedule: %s\n"+
		"• Last audit: Pending (first run Monday)\n\n"+
		"Use `@Open Claw audit %s` for detailed metrics", domain.DisplayName(site), auditSchedule, site)
}

func recommendationsPlaceholder(site string) string {
	return fmt.Sprintf("💡 **%s - Top Recommendations**\n\n"+
		"🔄 Fetching recommendations...\n"+
		"(Once Mission Control dashboard is live, this will show ranked recommendations)\n\n"+
		"Visit the dashboard for detailed breakdown by priority & effort.", domain.DisplayName(site))
}

func stamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 UTC")
}

func auditText(site string, latest *domain.Audit, trends map[string]domain.Trend) string {
	name := domain.DisplayName(site)
	if latest == nil {
		return fmt.Sprintf("📊 **%s - Latest Audit**\n\nNo audit data yet for `%s`.\n\n**Expected Next Audit:** %s",
			name, site, auditSchedule)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 **%s - Latest Audit**\n\n", name)
	fmt.Fprintf(&b, "• Lighthouse Score: **%d/100** (%s)\n", latest.LighthouseScore, trends[dashboard.TrendLighthouse].Label)
	fmt.Fprintf(&b, "• LCP: **%s** (%s)\n", dashboard.Ms(latest.LCPMs), trends[dashboard.TrendLCP].Label)
	fmt.Fprintf(&b, "• SEO Visibility: **%d%%** (%s)\n", latest.EstimatedSEOVisibility, trends[dashboard.TrendSEOVisibility].Label)
	fmt.Fprintf(&b, "• Conversion Rate: **%s** (%s)\n", dashboard.Pct(latest.ConversionRate, 1), trends[dashboard.TrendConversion].Label)
	fmt.Fprintf(&b, "• Critical issues: %d, high priority: %d\n\n", latest.CriticalIssues, latest.HighPriorityIssues)
	fmt.Fprintf(&b, "Audited: %s\n**Expected Next Audit:** %s", stamp(latest.AuditDate), auditSchedule)
	return b.String()
}

func statusText(site string, latest *domain.Audit, critical int) string {
	icon := lo.Ternary(critical > 0, "🔴", "🟢")
	last := "Pending (first run Monday)"
	if latest != nil {
		last = stamp(latest.AuditDate)
	}
	return fmt.Sprintf("%s **%s - Status**\n\n"+
		"• Bot connection: ✅ Active\n"+
		"• Audit schedule: %s\n"+
		"• Last audit: %s\n"+
		"• Open critical findings: %d\n\n"+
		"Use `@Open Claw audit %s` for detailed metrics",
		icon, domain.DisplayName(site), auditSchedule, last, critical, site)
}

func recommendationsText(site string, recs []domain.Recommendation) string {
	name := domain.DisplayName(site)
	if len(recs) == 0 {
		return fmt.Sprintf("💡 **%s - Top Recommendations**\n\nNo open recommendations. 🎉", name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💡 **%s - Top Recommendations**\n\n", name)
	for i, r := range recs {
		fmt.Fprintf(&b, "%d. **%s** (%s priority, impact: %s, effort: %sh, %s)\n",
			i+1, r.Title, r.Priority, r.Impact, strconv.FormatFloat(r.EffortHours, 'f', -1, 64), r.Status)
	}
	b.WriteString("\nVisit the dashboard for detailed breakdown by priority & effort.")
	return b.String()
}

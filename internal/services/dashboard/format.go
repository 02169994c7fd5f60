package dashboard

import (
	"fmt"
	"math"
	"strconv"

	"missioncontrol/internal/domain"
)

// Pct renders a 0..1 ratio as a percentage with the given number of decimals.
func Pct(v float64, digits int) string {
	return strconv.FormatFloat(v*100, 'f', digits, 64) + "%"
}

// Ms renders a duration in whole milliseconds.
func Ms(v float64) string {
	return fmt.Sprintf("%dms", int64(math.Round(v)))
}

// TrendOf compares current with previous. A missing or zero previous value
// yields a flat trend labelled with an em dash.
func TrendOf(current float64, previous *float64) domain.Trend {
	if previous == nil || *previous == 0 {
		return domain.Trend{Label: "—", Direction: "flat", Percent: 0}
	}

	percent := (current - *previous) / math.Abs(*previous) * 100
	direction := "flat"
	sign := ""
	switch {
	case percent > 0:
		direction = "up"
		sign = "+"
	case percent < 0:
		direction = "down"
	}
	return domain.Trend{
		Label:     sign + strconv.FormatFloat(percent, 'f', 1, 64) + "%",
		Direction: direction,
		Percent:   percent,
	}
}

// Trend keys in DashboardSummary.Trends.
const (
	TrendLighthouse    = "lighthouse_score"
	TrendLCP           = "lcp_ms"
	TrendSEOVisibility = "estimated_seo_visibility"
	TrendConversion    = "conversion_rate"
)

// AuditTrends compares latest with prev across the four headline metrics.
func AuditTrends(latest domain.Audit, prev *domain.Audit) map[string]domain.Trend {
	pick := func(f func(domain.Audit) float64) *float64 {
		if prev == nil {
			return nil
		}
		v := f(*prev)
		return &v
	}
	lighthouse := func(a domain.Audit) float64 { return float64(a.LighthouseScore) }
	lcp := func(a domain.Audit) float64 { return a.LCPMs }
	seo := func(a domain.Audit) float64 { return float64(a.EstimatedSEOVisibility) }
	conv := func(a domain.Audit) float64 { return a.ConversionRate }

	return map[string]domain.Trend{
		TrendLighthouse:    TrendOf(lighthouse(latest), pick(lighthouse)),
		TrendLCP:           TrendOf(lcp(latest), pick(lcp)),
		TrendSEOVisibility: TrendOf(seo(latest), pick(seo)),
		TrendConversion:    TrendOf(conv(latest), pick(conv)),
	}
}

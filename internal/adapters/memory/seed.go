package memory

import (
	"fmt"
	"math"
	"time"

	"missioncontrol/internal/domain"
)

const seedDays = 30

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

// Seed builds the demo dataset: 30 daily audits per site ending at now, three
// recommendations and two findings.
func Seed(now time.Time) ([]domain.Audit, []domain.Finding, []domain.Recommendation) {
	audits := make([]domain.Audit, 0, seedDays*2)
	for i := range seedDays {
		date := now.AddDate(0, 0, -i)
		fi := float64(i)
		audits = append(audits,
			domain.Audit{
				ID:                     fmt.Sprintf("bruce-%d", i),
				Site:                   domain.SiteBruceAC,
				AuditDate:              date,
				LighthouseScore:        74 + (i*3)%20,
				LCPMs:                  float64(1500 + (i*70)%1200),
				CLS:                    round3(0.07 + math.Mod(fi*0.01, 0.1)),
				FIDMs:                  float64(80 + (i*9)%90),
				EstimatedSEOVisibility: 58 + (i*2)%30,
				ConversionRate:         round3(0.11 + math.Mod(fi*0.005, 0.1)),
				CriticalIssues:         boolInt(i%6 == 0),
				HighPriorityIssues:     (i + 2) % 4,
				CreatedAt:              date,
			},
			domain.Audit{
				ID:                     fmt.Sprintf("meraki-%d", i),
				Site:                   domain.SiteMeraki,
				AuditDate:              date,
				LighthouseScore:        69 + (i*4)%22,
				LCPMs:                  float64(1800 + (i*90)%1300),
				CLS:                    round3(0.09 + math.Mod(fi*0.01, 0.12)),
				FIDMs:                  float64(95 + (i*8)%100),
				EstimatedSEOVisibility: 52 + (i*3)%35,
				ConversionRate:         round3(0.09 + math.Mod(fi*0.004, 0.08)),
				CriticalIssues:         boolInt(i%5 == 0),
				HighPriorityIssues:     (i + 1) % 5,
				CreatedAt:              date,
			},
		)
	}

	ricky, content := "Ricky", "Content"
	copyDeck := "Need approved copy deck"
	recs := []domain.Recommendation{
		{
			ID:          "r1",
			Site:        domain.SiteBruceAC,
			Title:       "Fix homepage hero LCP image preload",
			Description: "Preload hero image and convert to AVIF to cut LCP by ~500ms.",
			Impact:      domain.ImpactHigh,
			EffortHours: 2,
			Priority:    domain.SeverityCritical,
			Status:      domain.StatusInProgress,
			Category:    domain.CategorySpeed,
			Owner:       &ricky,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "r2",
			Site:        domain.SiteMeraki,
			Title:       "Repair quote form email validation edge cases",
			Description: "Client-side and server-side validation mismatch drops submissions.",
			Impact:      domain.ImpactHigh,
			EffortHours: 3,
			Priority:    domain.SeverityCritical,
			Status:      domain.StatusNotStarted,
			Category:    domain.CategoryConversion,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:           "r3",
			Site:         domain.SiteMeraki,
			Title:        "Add location pages for top ZIPs",
			Description:  "Build 5 geo-targeted pages to increase local SEO coverage.",
			Impact:       domain.ImpactMedium,
			EffortHours:  5,
			Priority:     domain.SeverityHigh,
			Status:       domain.StatusBlocked,
			BlockerNotes: &copyDeck,
			Category:     domain.CategorySEO,
			Owner:        &content,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}

	findings := []domain.Finding{
		{
			ID:          "f1",
			Site:        domain.SiteBruceAC,
			AuditID:     "bruce-0",
			Title:       "Broken financing link on services page",
			Severity:    domain.SeverityCritical,
			Description: "404 on CTA path /financing",
			Type:        domain.FindingBrokenLink,
			CreatedAt:   now,
		},
		{
			ID:          "f2",
			Site:        domain.SiteMeraki,
			AuditID:     "meraki-0",
			Title:       "Quote form timeout after 12s",
			Severity:    domain.SeverityHigh,
			Description: "Form endpoint timing out under moderate load.",
			Type:        domain.FindingFormError,
			CreatedAt:   now,
		},
	}

	return audits, findings, recs
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

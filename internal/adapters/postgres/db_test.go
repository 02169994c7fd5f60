package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missioncontrol/internal/domain"
)

// testDB connects to MISSIONCONTROL_TEST_DATABASE_URL, migrates it and
// empties the tables. Tests are skipped when the variable is unset.
func testDB(t *testing.T) *DB {
	t.Helper()

	url := os.Getenv("MISSIONCONTROL_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("MISSIONCONTROL_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx))
	_, err = db.Pool.Exec(ctx, `TRUNCATE findings, audits, recommendations`)
	require.NoError(t, err)

	return db
}

func TestAudits(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	latest, err := db.LatestAudit(ctx, domain.SiteBruceAC)
	require.NoError(t, err)
	assert.Nil(t, latest)

	for i, score := range []int{70, 80, 90} {
		_, err := db.InsertAudit(ctx, domain.Audit{
			Site:                   domain.SiteBruceAC,
			AuditDate:              now.Add(-time.Duration(2-i) * 24 * time.Hour),
			LighthouseScore:        score,
			LCPMs:                  2400,
			CLS:                    0.05,
			FIDMs:                  90,
			EstimatedSEOVisibility: 60,
			ConversionRate:         0.11,
			HighPriorityIssues:     1,
		})
		require.NoError(t, err)
	}
	old, err := db.InsertAudit(ctx, domain.Audit{
		Site:                   domain.SiteBruceAC,
		AuditDate:              now.Add(-40 * 24 * time.Hour),
		LighthouseScore:        50,
		EstimatedSEOVisibility: 30,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, old.ID)

	latest, err = db.LatestAudit(ctx, domain.SiteBruceAC)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 90, latest.LighthouseScore)

	history, err := db.AuditHistory(ctx, domain.SiteBruceAC, 30)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 70, history[0].LighthouseScore)
	assert.Equal(t, 90, history[2].LighthouseScore)

	none, err := db.AuditHistory(ctx, domain.SiteMeraki, 30)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestFindings(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	a, err := db.InsertAudit(ctx, domain.Audit{
		Site:                   domain.SiteMeraki,
		AuditDate:              time.Now(),
		LighthouseScore:        60,
		EstimatedSEOVisibility: 38,
	})
	require.NoError(t, err)

	for _, sev := range []domain.Severity{domain.SeverityCritical, domain.SeverityHigh} {
		_, err := db.InsertFinding(ctx, domain.Finding{
			Site:     domain.SiteMeraki,
			AuditID:  a.ID,
			Title:    string(sev) + " finding",
			Severity: sev,
			Type:     domain.FindingSpeedIssue,
		})
		require.NoError(t, err)
	}

	all, err := db.Findings(ctx, domain.FindingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	critical, err := db.Findings(ctx, domain.FindingFilter{Site: domain.SiteMeraki, Severity: domain.SeverityCritical})
	require.NoError(t, err)
	require.Len(t, critical, 1)
	assert.Equal(t, a.ID, critical[0].AuditID)

	limited, err := db.Findings(ctx, domain.FindingFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecommendations(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	var lowID string
	require.NoError(t, db.Pool.QueryRow(ctx, `
		INSERT INTO recommendations (site_slug, title, impact, priority, category)
		VALUES ('bruceac', 'Tidy footer', 'low', 'low', 'design')
		RETURNING id
	`).Scan(&lowID))
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO recommendations (site_slug, title, impact, priority, category)
		VALUES ('bruceac', 'Fix contact form', 'high', 'critical', 'conversion'),
		       ('meraki', 'Compress hero image', 'medium', 'high', 'speed')
	`)
	require.NoError(t, err)

	recs, err := db.Recommendations(ctx, domain.SiteBruceAC)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, domain.SeverityCritical, recs[0].Priority)

	all, err := db.Recommendations(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	status := domain.StatusBlocked
	notes := "waiting on hosting access"
	updated, err := db.UpdateRecommendation(ctx, lowID, domain.RecommendationPatch{
		Status:          &status,
		BlockerNotes:    &notes,
		SetBlockerNotes: true,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, domain.StatusBlocked, updated.Status)
	require.NotNil(t, updated.BlockerNotes)
	assert.Equal(t, notes, *updated.BlockerNotes)
	assert.Nil(t, updated.Owner)

	cleared, err := db.UpdateRecommendation(ctx, lowID, domain.RecommendationPatch{Status: &status, SetBlockerNotes: true})
	require.NoError(t, err)
	require.NotNil(t, cleared)
	assert.Nil(t, cleared.BlockerNotes)

	missing, err := db.UpdateRecommendation(ctx, "00000000-0000-0000-0000-000000000000", domain.RecommendationPatch{Status: &status})
	require.NoError(t, err)
	assert.Nil(t, missing)

	notUUID, err := db.UpdateRecommendation(ctx, "r1", domain.RecommendationPatch{Status: &status})
	require.NoError(t, err)
	assert.Nil(t, notUUID)
}

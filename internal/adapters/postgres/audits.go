package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"missioncontrol/internal/domain"
)

const auditColumns = `id, site_slug, audit_date, lighthouse_score, lcp_ms, cls, fid_ms,
    estimated_seo_visibility, conversion_rate, critical_issues, high_priority_issues, created_at`

func scanAudit(row pgx.Row) (domain.Audit, error) {
	var a domain.Audit
	err := row.Scan(&a.ID, &a.Site, &a.AuditDate, &a.LighthouseScore, &a.LCPMs, &a.CLS, &a.FIDMs,
		&a.EstimatedSEOVisibility, &a.ConversionRate, &a.CriticalIssues, &a.HighPriorityIssues, &a.CreatedAt)
	return a, err
}

// LatestAudit returns the most recent audit for a site, or nil when none exists.
func (db *DB) LatestAudit(ctx context.Context, site domain.Site) (*domain.Audit, error) {
	a, err := scanAudit(db.Pool.QueryRow(ctx, `
        SELECT `+auditColumns+`
        FROM audits
        WHERE site_slug = $1
        ORDER BY audit_date DESC
        LIMIT 1
    `, site))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest audit: %w", err)
	}
	return &a, nil
}

// AuditHistory returns audits from the last days days, oldest first.
func (db *DB) AuditHistory(ctx context.Context, site domain.Site, days int) ([]domain.Audit, error) {
	cutoff := db.now().Add(-time.Duration(days) * 24 * time.Hour)
	rows, err := db.Pool.Query(ctx, `
        SELECT `+auditColumns+`
        FROM audits
        WHERE site_slug = $1 AND audit_date >= $2
        ORDER BY audit_date ASC
    `, site, cutoff)
	if err != nil {
		return nil, fmt.Errorf("audit history: %w", err)
	}
	defer rows.Close()

	out := []domain.Audit{}
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// InsertAudit writes a new audit row and returns it with its generated id.
func (db *DB) InsertAudit(ctx context.Context, a domain.Audit) (domain.Audit, error) {
	out, err := scanAudit(db.Pool.QueryRow(ctx, `
        INSERT INTO audits (site_slug, audit_date, lighthouse_score, lcp_ms, cls, fid_ms,
            estimated_seo_visibility, conversion_rate, critical_issues, high_priority_issues)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING `+auditColumns,
		a.Site, a.AuditDate, a.LighthouseScore, a.LCPMs, a.CLS, a.FIDMs,
		a.EstimatedSEOVisibility, a.ConversionRate, a.CriticalIssues, a.HighPriorityIssues))
	if err != nil {
		return domain.Audit{}, fmt.Errorf("insert audit: %w", err)
	}
	return out, nil
}

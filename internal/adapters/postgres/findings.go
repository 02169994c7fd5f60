package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"missioncontrol/internal/domain"
)

const findingColumns = `id, site_slug, audit_id, title, severity, description, type, created_at`

func scanFinding(row pgx.Row) (domain.Finding, error) {
	var f domain.Finding
	err := row.Scan(&f.ID, &f.Site, &f.AuditID, &f.Title, &f.Severity, &f.Description, &f.Type, &f.CreatedAt)
	return f, err
}

// Findings returns findings newest first, optionally narrowed by site and severity.
func (db *DB) Findings(ctx context.Context, filter domain.FindingFilter) ([]domain.Finding, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultFindingLimit
	}

	var (
		where []string
		args  []any
	)
	if filter.Site != "" {
		args = append(args, filter.Site)
		where = append(where, fmt.Sprintf("site_slug = $%d", len(args)))
	}
	if filter.Severity != "" {
		args = append(args, filter.Severity)
		where = append(where, fmt.Sprintf("severity = $%d", len(args)))
	}
	args = append(args, limit)

	query := `SELECT ` + findingColumns + ` FROM findings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list findings: %w", err)
	}
	defer rows.Close()

	out := []domain.Finding{}
	for rows.Next() {
		f, err := scanFinding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// InsertFinding appends a finding to its audit.
func (db *DB) InsertFinding(ctx context.Context, f domain.Finding) (domain.Finding, error) {
	out, err := scanFinding(db.Pool.QueryRow(ctx, `
        INSERT INTO findings (site_slug, audit_id, title, severity, description, type)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+findingColumns,
		f.Site, f.AuditID, f.Title, f.Severity, f.Description, f.Type))
	if err != nil {
		return domain.Finding{}, fmt.Errorf("insert finding: %w", err)
	}
	return out, nil
}

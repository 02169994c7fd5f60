package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"missioncontrol/internal/domain"
)

const recommendationColumns = `id, site_slug, title, description, impact, effort_hours, priority,
    status, blocker_notes, category, owner, created_at, updated_at`

// priorityRank orders critical first; a plain ORDER BY priority would sort alphabetically.
const priorityRank = `CASE priority WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END`

func scanRecommendation(row pgx.Row) (domain.Recommendation, error) {
	var r domain.Recommendation
	err := row.Scan(&r.ID, &r.Site, &r.Title, &r.Description, &r.Impact, &r.EffortHours, &r.Priority,
		&r.Status, &r.BlockerNotes, &r.Category, &r.Owner, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// Recommendations lists the backlog for a site (all sites when empty) by priority, then recency.
func (db *DB) Recommendations(ctx context.Context, site domain.Site) ([]domain.Recommendation, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT `+recommendationColumns+`
        FROM recommendations
        WHERE ($1 = '' OR site_slug = $1)
        ORDER BY `+priorityRank+`, updated_at DESC
    `, string(site))
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()

	out := []domain.Recommendation{}
	for rows.Next() {
		r, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateRecommendation applies patch and stamps updated_at. Returns (nil, nil)
// when the id does not exist.
func (db *DB) UpdateRecommendation(ctx context.Context, id string, patch domain.RecommendationPatch) (*domain.Recommendation, error) {
	if _, err := uuid.Parse(id); err != nil {
		// ids are uuids; anything else cannot match a row
		return nil, nil
	}

	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}
	r, err := scanRecommendation(db.Pool.QueryRow(ctx, `
        UPDATE recommendations SET
            status        = COALESCE($2, status),
            blocker_notes = CASE WHEN $3 THEN $4 ELSE blocker_notes END,
            owner         = CASE WHEN $5 THEN $6 ELSE owner END,
            updated_at    = $7
        WHERE id = $1
        RETURNING `+recommendationColumns,
		id, status, patch.SetBlockerNotes, patch.BlockerNotes, patch.SetOwner, patch.Owner, db.now()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update recommendation: %w", err)
	}
	return &r, nil
}

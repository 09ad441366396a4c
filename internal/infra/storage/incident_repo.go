package storage

import (
	"context"
	"database/sql"

	pq "github.com/lib/pq"
)

type IncidentRepo struct{ db *sql.DB }

func NewIncidentRepo(db *sql.DB) *IncidentRepo { return &IncidentRepo{db: db} }

func (r *IncidentRepo) Insert(ctx context.Context, in Incident) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO incidents (id, level, message, error_type, error_text, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO NOTHING
`, in.ID, in.Level, in.Message, in.ErrorType, in.ErrorText, in.CreatedAt)
	return err
}

// Recent devuelve los últimos incidentes; levels vacío = todos.
func (r *IncidentRepo) Recent(ctx context.Context, limit int, levels []string) ([]Incident, error) {
	if limit <= 0 {
		limit = 10
	}
	if levels == nil {
		levels = []string{} // nil viaja como NULL, no como '{}'
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, level, message, error_type, error_text, created_at
  FROM incidents
 WHERE cardinality($1::text[]) = 0 OR level = ANY($1)
 ORDER BY created_at DESC
 LIMIT $2
`, pq.Array(levels), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Incident
	for rows.Next() {
		var in Incident
		if err := rows.Scan(&in.ID, &in.Level, &in.Message, &in.ErrorType, &in.ErrorText, &in.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

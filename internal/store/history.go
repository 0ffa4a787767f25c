package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/pomocoin/internal/model"
)

// Fixed-width UTC timestamps keep ended_at ordering lexical.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// InsertPhase stores a finished or skipped phase. Missing id and end time are filled in.
func (s *Store) InsertPhase(ctx context.Context, rec model.PhaseRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.EndedAt.IsZero() {
		rec.EndedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO phase_history (id, preset_id, preset_name, phase, planned_seconds, points, skipped, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.PresetID,
		rec.PresetName,
		string(rec.Phase),
		rec.PlannedSeconds,
		rec.Points,
		boolToInt(rec.Skipped),
		rec.EndedAt.UTC().Format(timeLayout),
	)
	return err
}

// ListPhases returns phase history in chronological order.
func (s *Store) ListPhases(ctx context.Context, filter model.HistoryFilter) ([]model.PhaseRecord, error) {
	query := `SELECT id, preset_id, preset_name, phase, planned_seconds, points, skipped, ended_at
		FROM phase_history`
	args := []any{}
	if filter.Since != nil {
		query += ` WHERE ended_at >= ?`
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}
	query += ` ORDER BY ended_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var records []model.PhaseRecord
	for rows.Next() {
		var rec model.PhaseRecord
		var phase, endedAt string
		if err := rows.Scan(&rec.ID, &rec.PresetID, &rec.PresetName, &phase, &rec.PlannedSeconds, &rec.Points, &rec.Skipped, &endedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, endedAt)
		if err != nil {
			return nil, err
		}
		rec.Phase = model.Phase(phase)
		rec.EndedAt = parsed
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if filter.Last > 0 && len(records) > filter.Last {
		records = records[len(records)-filter.Last:]
	}
	return records, nil
}

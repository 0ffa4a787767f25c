package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/verte-zerg/pomocoin/internal/model"
)

const presetColumns = `id, name, rounds_in_session, total_sessions, focus_length, break_length, long_break_length`

// ListPresets returns all stored presets ordered by id.
func (s *Store) ListPresets(ctx context.Context) ([]model.Preset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+presetColumns+` FROM presets ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var presets []model.Preset
	for rows.Next() {
		var p model.Preset
		if err := rows.Scan(&p.ID, &p.Name, &p.RoundsInSession, &p.TotalSessions, &p.FocusLength, &p.BreakLength, &p.LongBreakLength); err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return presets, nil
}

// GetPreset returns the preset with the given id or ErrNotFound.
func (s *Store) GetPreset(ctx context.Context, id int64) (model.Preset, error) {
	var p model.Preset
	err := s.db.QueryRowContext(ctx, `SELECT `+presetColumns+` FROM presets WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.RoundsInSession, &p.TotalSessions, &p.FocusLength, &p.BreakLength, &p.LongBreakLength)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Preset{}, ErrNotFound
	}
	if err != nil {
		return model.Preset{}, err
	}
	return p, nil
}

// InsertPreset stores a new preset and returns its id.
func (s *Store) InsertPreset(ctx context.Context, p model.Preset) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO presets (name, rounds_in_session, total_sessions, focus_length, break_length, long_break_length)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.RoundsInSession, p.TotalSessions, p.FocusLength, p.BreakLength, p.LongBreakLength,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdatePreset overwrites a stored preset.
func (s *Store) UpdatePreset(ctx context.Context, p model.Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE presets SET name = ?, rounds_in_session = ?, total_sessions = ?, focus_length = ?, break_length = ?, long_break_length = ?
		 WHERE id = ?`,
		p.Name, p.RoundsInSession, p.TotalSessions, p.FocusLength, p.BreakLength, p.LongBreakLength, p.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeletePreset removes a preset.
func (s *Store) DeletePreset(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

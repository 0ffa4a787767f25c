package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/verte-zerg/pomocoin/internal/model"
)

const (
	settingCurrency    = "currency"
	settingCoinWarning = "show_coin_warning"
)

// GetSettings returns the settings record, filling defaults for unset keys.
func (s *Store) GetSettings(ctx context.Context) (model.Settings, error) {
	settings := model.DefaultSettings()
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return model.Settings{}, err
	}
	defer closeRows(rows)

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return model.Settings{}, err
		}
		switch key {
		case settingCurrency:
			n, err := strconv.Atoi(value)
			if err != nil {
				return model.Settings{}, fmt.Errorf("invalid currency value %q: %w", value, err)
			}
			settings.Currency = n
		case settingCoinWarning:
			settings.ShowCoinWarning = value == "1"
		}
	}
	if err := rows.Err(); err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}

// UpdateCurrency overwrites the balance.
func (s *Store) UpdateCurrency(ctx context.Context, amount int) error {
	if amount < 0 {
		return ErrInsufficientFunds
	}
	return setSetting(ctx, s.db, settingCurrency, strconv.Itoa(amount))
}

// AddCurrency adds delta to the balance. A debit below zero fails with ErrInsufficientFunds.
func (s *Store) AddCurrency(ctx context.Context, delta int) error {
	if delta == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := currency(ctx, tx)
		if err != nil {
			return err
		}
		next := current + delta
		if next < 0 {
			return ErrInsufficientFunds
		}
		return setSetting(ctx, tx, settingCurrency, strconv.Itoa(next))
	})
}

// UpdateCoinWarning toggles the skip warning.
func (s *Store) UpdateCoinWarning(ctx context.Context, show bool) error {
	return setSetting(ctx, s.db, settingCoinWarning, strconv.Itoa(boolToInt(show)))
}

func currency(ctx context.Context, q querier) (int, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, settingCurrency).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultSettings().Currency, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid currency value %q: %w", value, err)
	}
	return n, nil
}

func setSetting(ctx context.Context, q querier, key, value string) error {
	_, err := q.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

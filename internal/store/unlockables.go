package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/verte-zerg/pomocoin/internal/model"
)

// ListUnlockables returns the shop ordered by cost.
func (s *Store) ListUnlockables(ctx context.Context) ([]model.Unlockable, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, cost, purchased FROM unlockables ORDER BY cost ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var items []model.Unlockable
	for rows.Next() {
		var u model.Unlockable
		if err := rows.Scan(&u.ID, &u.Name, &u.Cost, &u.Purchased); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// InsertUnlockable adds an item to the shop.
func (s *Store) InsertUnlockable(ctx context.Context, u model.Unlockable) (int64, error) {
	return insertUnlockable(ctx, s.db, u)
}

// SeedUnlockables fills an empty shop with the sample prizes and returns how many were added.
func (s *Store) SeedUnlockables(ctx context.Context) (int, error) {
	added := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM unlockables`).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for _, u := range model.SampleUnlockables() {
			if _, err := insertUnlockable(ctx, tx, u); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// Purchase buys an unlockable, debiting its cost in the same transaction.
func (s *Store) Purchase(ctx context.Context, id int64) (model.Unlockable, error) {
	var item model.Unlockable
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT id, name, cost, purchased FROM unlockables WHERE id = ?`, id).
			Scan(&item.ID, &item.Name, &item.Cost, &item.Purchased)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if item.Purchased {
			return ErrAlreadyPurchased
		}
		balance, err := currency(ctx, tx)
		if err != nil {
			return err
		}
		if item.Cost > balance {
			return ErrInsufficientFunds
		}
		if err := setSetting(ctx, tx, settingCurrency, strconv.Itoa(balance-item.Cost)); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE unlockables SET purchased = 1 WHERE id = ?`, id); err != nil {
			return err
		}
		item.Purchased = true
		return nil
	})
	if err != nil {
		return model.Unlockable{}, err
	}
	return item, nil
}

func insertUnlockable(ctx context.Context, q querier, u model.Unlockable) (int64, error) {
	res, err := q.ExecContext(ctx,
		`INSERT INTO unlockables (name, cost, purchased) VALUES (?, ?, ?)`,
		u.Name, u.Cost, boolToInt(u.Purchased),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

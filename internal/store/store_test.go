package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/pomocoin/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "pomocoin.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestPresetCRUD(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	p := model.Preset{Name: "deep work", RoundsInSession: 2, TotalSessions: 1, FocusLength: 50, BreakLength: 10, LongBreakLength: 20}
	id, err := st.InsertPreset(ctx, p)
	require.NoError(t, err)

	got, err := st.GetPreset(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "deep work", got.Name)
	assert.Equal(t, 50, got.FocusLength)

	got.Name = "deeper work"
	require.NoError(t, st.UpdatePreset(ctx, got))

	list, err := st.ListPresets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "deeper work", list[0].Name)

	require.NoError(t, st.DeletePreset(ctx, id))
	_, err = st.GetPreset(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.DeletePreset(ctx, id), ErrNotFound)
}

func TestInsertPresetValidates(t *testing.T) {
	st := openTestStore(t)
	_, err := st.InsertPreset(context.Background(), model.Preset{Name: ""})
	assert.Error(t, err)
}

func TestSettingsDefaultsAndCurrency(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	settings, err := st.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)

	require.NoError(t, st.AddCurrency(ctx, 12))
	require.NoError(t, st.AddCurrency(ctx, 3))
	assert.ErrorIs(t, st.AddCurrency(ctx, -100), ErrInsufficientFunds)
	require.NoError(t, st.UpdateCoinWarning(ctx, false))

	settings, err = st.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, settings.Currency)
	assert.False(t, settings.ShowCoinWarning)

	require.NoError(t, st.UpdateCurrency(ctx, 7))
	assert.ErrorIs(t, st.UpdateCurrency(ctx, -1), ErrInsufficientFunds)
	settings, err = st.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, settings.Currency)
}

func TestPurchase(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	added, err := st.SeedUnlockables(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	added, err = st.SeedUnlockables(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	items, err := st.ListUnlockables(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	cheapest := items[0]
	assert.Equal(t, 25, cheapest.Cost)

	_, err = st.Purchase(ctx, cheapest.ID)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	require.NoError(t, st.AddCurrency(ctx, 30))
	bought, err := st.Purchase(ctx, cheapest.ID)
	require.NoError(t, err)
	assert.True(t, bought.Purchased)

	_, err = st.Purchase(ctx, cheapest.ID)
	assert.ErrorIs(t, err, ErrAlreadyPurchased)
	_, err = st.Purchase(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	settings, err := st.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, settings.Currency)
}

func TestPhaseHistory(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := model.PhaseRecord{
			PresetID:       1,
			PresetName:     "default",
			Phase:          model.PhaseFocus,
			PlannedSeconds: 1500,
			Points:         i * 10,
			EndedAt:        base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, st.InsertPhase(ctx, rec))
	}
	require.NoError(t, st.InsertPhase(ctx, model.PhaseRecord{Phase: model.PhaseShortBreak, Skipped: true, EndedAt: base.Add(-time.Hour)}))

	all, err := st.ListPhases(ctx, model.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.True(t, all[0].Skipped)
	assert.NotEmpty(t, all[0].ID)

	since := base
	recent, err := st.ListPhases(ctx, model.HistoryFilter{Since: &since, Last: 2})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 10, recent[0].Points)
	assert.Equal(t, 20, recent[1].Points)
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/pomocoin/internal/api"
	"github.com/verte-zerg/pomocoin/internal/bonus"
	"github.com/verte-zerg/pomocoin/internal/model"
	"github.com/verte-zerg/pomocoin/internal/runner"
	"github.com/verte-zerg/pomocoin/internal/store"
	"github.com/verte-zerg/pomocoin/internal/timer"
)

type timerEnvelope struct {
	Timer struct {
		Hours            string `json:"hours"`
		Minutes          string `json:"minutes"`
		Seconds          string `json:"seconds"`
		RemainingSeconds int    `json:"remainingSeconds"`
		State            string `json:"state"`
		Phase            string `json:"phase"`
		IsBreak          bool   `json:"isBreak"`
		Finished         bool   `json:"finishedPreset"`
		Activity         string `json:"activity"`
		PresetID         int64  `json:"presetId"`
		PresetName       string `json:"presetName"`
	} `json:"timer"`
}

type apiErrorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type testEnv struct {
	engine *gin.Engine
	store  *store.Store
	oracle *bonus.Oracle
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.Open(filepath.Join(t.TempDir(), "pomocoin.db"))
	require.NoError(t, err)

	oracle := bonus.NewOracle()
	session := timer.New(st, oracle, timer.Options{})
	r := runner.New(session)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = r.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = st.Close()
	})

	handler := api.NewHandler(r, st, oracle)
	return testEnv{engine: api.NewRouter(handler, []string{"http://localhost:3000"}), store: st, oracle: oracle}
}

func request(t *testing.T, engine *gin.Engine, method, path string, body any) (int, []byte) {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func timerRequest(t *testing.T, engine *gin.Engine, method, path string, body any) timerEnvelope {
	t.Helper()
	status, raw := request(t, engine, method, path, body)
	require.Equal(t, http.StatusOK, status, string(raw))
	var env timerEnvelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func decodeError(t *testing.T, raw []byte) apiErrorEnvelope {
	t.Helper()
	var env apiErrorEnvelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func TestHealth(t *testing.T) {
	env := setupTestEnv(t)
	status, raw := request(t, env.engine, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))
}

func TestTimerControls(t *testing.T) {
	env := setupTestEnv(t)

	got := timerRequest(t, env.engine, http.MethodGet, "/api/timer", nil)
	assert.Equal(t, "idle", got.Timer.State)
	assert.Equal(t, "25", got.Timer.Minutes)
	assert.Equal(t, "focus", got.Timer.Phase)
	assert.Equal(t, "default", got.Timer.PresetName)

	got = timerRequest(t, env.engine, http.MethodPost, "/api/timer/start", nil)
	assert.Equal(t, "running", got.Timer.State)

	got = timerRequest(t, env.engine, http.MethodPost, "/api/timer/pause", nil)
	assert.Equal(t, "paused", got.Timer.State)

	got = timerRequest(t, env.engine, http.MethodPut, "/api/timer/length", map[string]int{"seconds": 90})
	assert.Equal(t, "00", got.Timer.Hours)
	assert.Equal(t, "01", got.Timer.Minutes)
	assert.Equal(t, "30", got.Timer.Seconds)

	got = timerRequest(t, env.engine, http.MethodPut, "/api/timer/length", map[string]int{"seconds": -5})
	assert.Equal(t, 90, got.Timer.RemainingSeconds, "negative length is ignored")

	got = timerRequest(t, env.engine, http.MethodPost, "/api/timer/adjust", map[string]int{"seconds": -600})
	assert.Equal(t, 0, got.Timer.RemainingSeconds)

	got = timerRequest(t, env.engine, http.MethodPost, "/api/timer/skip", nil)
	assert.True(t, got.Timer.IsBreak)
	assert.Equal(t, "short_break", got.Timer.Phase)

	got = timerRequest(t, env.engine, http.MethodPost, "/api/timer/reset", nil)
	assert.False(t, got.Timer.IsBreak)
	assert.Equal(t, 25*60, got.Timer.RemainingSeconds)

	got = timerRequest(t, env.engine, http.MethodPost, "/api/timer/end", nil)
	assert.True(t, got.Timer.Finished)

	status, raw := request(t, env.engine, http.MethodPost, "/api/timer/adjust", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_seconds", decodeError(t, raw).Error.Code)
}

func TestRejectsOutOfRangeSeconds(t *testing.T) {
	env := setupTestEnv(t)
	before := timerRequest(t, env.engine, http.MethodGet, "/api/timer", nil)

	for _, tc := range []struct {
		method, path string
		seconds      int64
	}{
		{http.MethodPut, "/api/timer/length", 1 << 40},
		{http.MethodPut, "/api/timer/length", 360000},
		{http.MethodPost, "/api/timer/adjust", 1 << 40},
		{http.MethodPost, "/api/timer/adjust", -(1 << 40)},
	} {
		status, raw := request(t, env.engine, tc.method, tc.path, map[string]int64{"seconds": tc.seconds})
		assert.Equal(t, http.StatusBadRequest, status, "%s %d", tc.path, tc.seconds)
		assert.Equal(t, "invalid_seconds", decodeError(t, raw).Error.Code)
	}

	got := timerRequest(t, env.engine, http.MethodPut, "/api/timer/length", map[string]int{"seconds": 359999})
	assert.Equal(t, "99", got.Timer.Hours)
	assert.Equal(t, "59", got.Timer.Minutes)
	assert.Equal(t, "59", got.Timer.Seconds)
	assert.NotEqual(t, before.Timer.RemainingSeconds, got.Timer.RemainingSeconds)
}

func TestLoadPresetOverHTTP(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	id, err := env.store.InsertPreset(ctx, model.Preset{Name: "sprint", RoundsInSession: 2, TotalSessions: 1, FocusLength: 10, BreakLength: 2, LongBreakLength: 5})
	require.NoError(t, err)

	timerRequest(t, env.engine, http.MethodPost, "/api/timer/preset", map[string]int64{"id": id})
	assert.Eventually(t, func() bool {
		got := timerRequest(t, env.engine, http.MethodGet, "/api/timer", nil)
		return got.Timer.PresetID == id && got.Timer.Minutes == "10"
	}, 2*time.Second, 10*time.Millisecond)

	status, raw := request(t, env.engine, http.MethodGet, "/api/presets", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "sprint")

	status, raw = request(t, env.engine, http.MethodGet, "/api/presets/999", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "preset_not_found", decodeError(t, raw).Error.Code)

	status, _ = request(t, env.engine, http.MethodGet, "/api/presets/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSetActivity(t *testing.T) {
	env := setupTestEnv(t)

	status, raw := request(t, env.engine, http.MethodPut, "/api/activity", map[string]string{"activity": "running"})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, bonus.Running, env.oracle.Activity())

	got := timerRequest(t, env.engine, http.MethodGet, "/api/timer", nil)
	assert.Equal(t, "running", got.Timer.Activity)

	status, raw = request(t, env.engine, http.MethodPut, "/api/activity", map[string]string{"activity": "teleporting"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_activity", decodeError(t, raw).Error.Code)
}

func TestShopPurchase(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	_, err := env.store.SeedUnlockables(ctx)
	require.NoError(t, err)
	items, err := env.store.ListUnlockables(ctx)
	require.NoError(t, err)
	itemPath := "/api/shop/" + jsonNumber(items[0].ID) + "/buy"

	status, raw := request(t, env.engine, http.MethodPost, itemPath, nil)
	assert.Equal(t, http.StatusConflict, status)
	errEnv := decodeError(t, raw)
	assert.Equal(t, "insufficient_funds", errEnv.Error.Code)
	assert.EqualValues(t, 0, errEnv.Error.Details["currency"])

	require.NoError(t, env.store.AddCurrency(ctx, 40))
	status, raw = request(t, env.engine, http.MethodPost, itemPath, nil)
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = request(t, env.engine, http.MethodPost, itemPath, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already_purchased", decodeError(t, raw).Error.Code)

	status, _ = request(t, env.engine, http.MethodPost, "/api/shop/12345/buy", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, raw = request(t, env.engine, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"settings":{"currency":15,"showCoinWarning":true}}`, string(raw))
}

func TestCORSPreflight(t *testing.T) {
	env := setupTestEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/timer", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func jsonNumber(n int64) string {
	raw, _ := json.Marshal(n)
	return string(raw)
}

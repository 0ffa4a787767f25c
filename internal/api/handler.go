package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"

	"github.com/verte-zerg/pomocoin/internal/activity"
	"github.com/verte-zerg/pomocoin/internal/bonus"
	"github.com/verte-zerg/pomocoin/internal/logger"
	"github.com/verte-zerg/pomocoin/internal/model"
	"github.com/verte-zerg/pomocoin/internal/store"
	"github.com/verte-zerg/pomocoin/internal/timer"
)

// Controller runs operations against the live Session.
type Controller interface {
	Do(ctx context.Context, fn func(*timer.Session) tea.Cmd) (timer.Snapshot, error)
}

// Repository is the read and purchase surface of the store.
type Repository interface {
	ListPresets(ctx context.Context) ([]model.Preset, error)
	GetPreset(ctx context.Context, id int64) (model.Preset, error)
	GetSettings(ctx context.Context) (model.Settings, error)
	ListUnlockables(ctx context.Context) ([]model.Unlockable, error)
	Purchase(ctx context.Context, id int64) (model.Unlockable, error)
}

// Handler serves the control API.
type Handler struct {
	timer    Controller
	repo     Repository
	activity activity.Setter
}

// maxSeconds is the longest span the two-digit clock can show (99:59:59).
const maxSeconds = 99*3600 + 59*60 + 59

type secondsRequest struct {
	Seconds *int `json:"seconds"`
}

type presetRequest struct {
	ID *int64 `json:"id"`
}

type activityRequest struct {
	Activity string `json:"activity"`
}

// NewHandler wires the control API to a running Session, the store and the bonus oracle.
func NewHandler(ctrl Controller, repo Repository, setter activity.Setter) *Handler {
	return &Handler{timer: ctrl, repo: repo, activity: setter}
}

// GetTimer returns the current snapshot.
func (h *Handler) GetTimer(c *gin.Context) {
	h.control(c, func(*timer.Session) tea.Cmd { return nil })
}

// Start starts or resumes the countdown.
func (h *Handler) Start(c *gin.Context) {
	h.control(c, (*timer.Session).Start)
}

// Pause pauses the countdown.
func (h *Handler) Pause(c *gin.Context) {
	h.control(c, func(s *timer.Session) tea.Cmd {
		s.Pause()
		return nil
	})
}

// Skip forfeits unbanked points and moves to the next phase.
func (h *Handler) Skip(c *gin.Context) {
	h.control(c, (*timer.Session).Skip)
}

// Reset returns the preset to its first focus phase.
func (h *Handler) Reset(c *gin.Context) {
	h.control(c, func(s *timer.Session) tea.Cmd {
		s.Reset()
		return nil
	})
}

// End finishes the preset.
func (h *Handler) End(c *gin.Context) {
	h.control(c, func(s *timer.Session) tea.Cmd {
		s.End()
		return nil
	})
}

// Adjust adds a signed number of seconds to the countdown.
func (h *Handler) Adjust(c *gin.Context) {
	delta, ok := bindSeconds(c)
	if !ok {
		return
	}
	h.control(c, func(s *timer.Session) tea.Cmd {
		s.AdjustTime(delta)
		return nil
	})
}

// SetLength overwrites the remaining time. Negative lengths are ignored.
func (h *Handler) SetLength(c *gin.Context) {
	seconds, ok := bindSeconds(c)
	if !ok {
		return
	}
	length := time.Duration(seconds) * time.Second
	h.control(c, func(s *timer.Session) tea.Cmd {
		s.SetTimerLength(length)
		return nil
	})
}

// LoadPreset switches to a preset; ids <= 0 select the default.
func (h *Handler) LoadPreset(c *gin.Context) {
	var req presetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == nil {
		writeError(c, badRequest("invalid_preset_id", "id is required"))
		return
	}
	id := *req.ID
	h.control(c, func(s *timer.Session) tea.Cmd { return s.LoadPreset(id) })
}

// SetActivity overrides the latest activity.
func (h *Handler) SetActivity(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest("invalid_json", "invalid request body"))
		return
	}
	a, err := bonus.ParseActivity(req.Activity)
	if err != nil {
		writeError(c, badRequest("invalid_activity", err.Error()))
		return
	}
	h.activity.SetActivity(a)
	c.JSON(http.StatusOK, gin.H{"activity": a.String()})
}

// ListPresets returns the stored presets.
func (h *Handler) ListPresets(c *gin.Context) {
	presets, err := h.repo.ListPresets(c.Request.Context())
	if err != nil {
		h.internal(c, "failed to list presets", err)
		return
	}
	if presets == nil {
		presets = []model.Preset{}
	}
	c.JSON(http.StatusOK, gin.H{"presets": presets})
}

// GetPreset returns one preset, or the default for ids <= 0.
func (h *Handler) GetPreset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if id <= model.DefaultPresetID {
		c.JSON(http.StatusOK, gin.H{"preset": model.DefaultPreset()})
		return
	}
	preset, err := h.repo.GetPreset(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(c, notFound("preset_not_found", "preset not found"))
		return
	}
	if err != nil {
		h.internal(c, "failed to load preset", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preset": preset})
}

// GetSettings returns the currency balance and coin warning flag.
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.repo.GetSettings(c.Request.Context())
	if err != nil {
		h.internal(c, "failed to load settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// ListShop returns the unlockables ordered by cost.
func (h *Handler) ListShop(c *gin.Context) {
	items, err := h.repo.ListUnlockables(c.Request.Context())
	if err != nil {
		h.internal(c, "failed to list unlockables", err)
		return
	}
	if items == nil {
		items = []model.Unlockable{}
	}
	c.JSON(http.StatusOK, gin.H{"unlockables": items})
}

// Buy purchases an unlockable with banked currency.
func (h *Handler) Buy(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.repo.Purchase(c.Request.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(c, notFound("unlockable_not_found", "unlockable not found"))
		return
	case errors.Is(err, store.ErrAlreadyPurchased):
		writeError(c, conflict("already_purchased", "unlockable already purchased", nil))
		return
	case errors.Is(err, store.ErrInsufficientFunds):
		settings, serr := h.repo.GetSettings(c.Request.Context())
		var details any
		if serr == nil {
			details = gin.H{"currency": settings.Currency}
		}
		writeError(c, conflict("insufficient_funds", "not enough currency", details))
		return
	case err != nil:
		h.internal(c, "failed to purchase", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unlockable": item})
}

func (h *Handler) control(c *gin.Context, fn func(*timer.Session) tea.Cmd) {
	snap, err := h.timer.Do(c.Request.Context(), fn)
	if err != nil {
		h.internal(c, "timer unavailable", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timer": snap})
}

func (h *Handler) internal(c *gin.Context, message string, err error) {
	logger.Error(message, "path", c.FullPath(), "err", err)
	writeError(c, internalError(message))
}

func bindSeconds(c *gin.Context) (int, bool) {
	var req secondsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Seconds == nil {
		writeError(c, badRequest("invalid_seconds", "seconds is required"))
		return 0, false
	}
	if *req.Seconds > maxSeconds || *req.Seconds < -maxSeconds {
		writeError(c, badRequest("invalid_seconds", "seconds is out of range"))
		return 0, false
	}
	return *req.Seconds, true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, badRequest("invalid_id", "id must be an integer"))
		return 0, false
	}
	return id, true
}

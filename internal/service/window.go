package service

import (
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/ilinovom/working-hours-bot/internal/model"
)

const clockLayout = "15:04"

// IsAllowed reports whether now falls inside [StartHour, EndHour) in loc.
func IsAllowed(now time.Time, cfg model.WindowConfig, loc *time.Location) bool {
	h := now.In(loc).Hour()
	return cfg.StartHour <= h && h < cfg.EndHour
}

// FormatTime renders now as HH:MM in loc.
func FormatTime(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(clockLayout)
}

// Window owns the working hours and evaluates them against the clock.
type Window struct {
	mu  sync.RWMutex
	cfg model.WindowConfig
	loc *time.Location
	now func() time.Time
}

// NewWindow validates cfg and returns a window evaluated in loc.
func NewWindow(cfg model.WindowConfig, loc *time.Location) (*Window, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Window{cfg: cfg, loc: loc, now: time.Now}, nil
}

// WithClock replaces the time source. Used in tests.
func (w *Window) WithClock(now func() time.Time) *Window {
	w.now = now
	return w
}

// Location returns the timezone the window is evaluated in.
func (w *Window) Location() *time.Location {
	return w.loc
}

// Hours returns the current configuration.
func (w *Window) Hours() model.WindowConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cfg
}

// SetHours replaces the configuration and returns the previous one.
func (w *Window) SetHours(start, end int) (model.WindowConfig, error) {
	next := model.WindowConfig{StartHour: start, EndHour: end}
	if err := next.Validate(); err != nil {
		return model.WindowConfig{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	old := w.cfg
	w.cfg = next
	return old, nil
}

// Allowed evaluates the window at the current instant.
func (w *Window) Allowed() bool {
	return IsAllowed(w.now(), w.Hours(), w.loc)
}

// Clock returns the current time as HH:MM.
func (w *Window) Clock() string {
	return FormatTime(w.now(), w.loc)
}

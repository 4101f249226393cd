package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ilinovom/working-hours-bot/internal/model"
	"github.com/rs/zerolog/log"
)

// ChatAPI is the part of the messenger the synchronizer talks to.
type ChatAPI interface {
	SetChatPermissions(ctx context.Context, chatID int64, allow bool) error
	SendText(ctx context.Context, chatID int64, text string) error
}

// NoticeFunc renders the message announcing a chat was opened or closed.
type NoticeFunc func(allowed bool, hours model.WindowConfig, clock string) string

// StatusTable remembers the last state announced to each chat.
type StatusTable struct {
	mu sync.Mutex
	m  map[int64]model.ChatState
}

func NewStatusTable() *StatusTable {
	return &StatusTable{m: map[int64]model.ChatState{}}
}

func (t *StatusTable) Get(chatID int64) (model.ChatState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.m[chatID]
	return s, ok
}

func (t *StatusTable) Set(chatID int64, s model.ChatState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[chatID] = s
}

// Reset forgets every chat so the next cycle announces the state again.
func (t *StatusTable) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m = map[int64]model.ChatState{}
}

func (t *StatusTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.m)
}

// CycleReport summarizes one reconciliation pass.
type CycleReport struct {
	ID       string
	State    model.ChatState
	Chats    int
	Applied  int
	Notified int
	Failed   int
}

// PermissionSync opens and closes group chats according to the window.
type PermissionSync struct {
	window   *Window
	messages *MessageService
	api      ChatAPI
	statuses *StatusTable
	notice   NoticeFunc
}

func NewPermissionSync(window *Window, messages *MessageService, api ChatAPI, statuses *StatusTable, notice NoticeFunc) *PermissionSync {
	if statuses == nil {
		statuses = NewStatusTable()
	}
	return &PermissionSync{window: window, messages: messages, api: api, statuses: statuses, notice: notice}
}

// Statuses exposes the table of announced states.
func (p *PermissionSync) Statuses() *StatusTable {
	return p.statuses
}

// ResetStatuses must be called whenever the working hours change.
func (p *PermissionSync) ResetStatuses() {
	p.statuses.Reset()
}

// SetHours changes the window and unconditionally forgets announced states.
func (p *PermissionSync) SetHours(start, end int) (model.WindowConfig, error) {
	old, err := p.window.SetHours(start, end)
	if err != nil {
		return old, err
	}
	p.ResetStatuses()
	return old, nil
}

// Reconcile runs one cycle over every group chat known from the history.
// The window is evaluated once so all chats get the same state.
func (p *PermissionSync) Reconcile(ctx context.Context) (CycleReport, error) {
	allowed := p.window.Allowed()
	report := CycleReport{ID: uuid.NewString(), State: model.StateFor(allowed)}
	logger := log.With().Str("cycle", report.ID).Str("state", string(report.State)).Logger()

	chats, err := p.messages.KnownGroupChats(ctx)
	if err != nil {
		return report, fmt.Errorf("known group chats: %w", err)
	}
	report.Chats = len(chats)
	for _, chatID := range chats {
		notified, err := p.apply(ctx, chatID, allowed)
		if err != nil {
			logger.Error().Err(err).Int64("chat_id", chatID).Msg("set chat permissions")
			report.Failed++
			continue
		}
		report.Applied++
		if notified {
			report.Notified++
		}
	}
	logger.Info().Int("chats", report.Chats).Int("notified", report.Notified).Int("failed", report.Failed).Msg("group permissions updated")
	return report, nil
}

// ReconcileChat applies the current state to a single chat right away.
func (p *PermissionSync) ReconcileChat(ctx context.Context, chatID int64) error {
	_, err := p.apply(ctx, chatID, p.window.Allowed())
	return err
}

// apply sets the permissions and, if the state differs from the last one
// announced, sends a notice. The table is updated only after a successful send.
func (p *PermissionSync) apply(ctx context.Context, chatID int64, allowed bool) (bool, error) {
	if err := p.api.SetChatPermissions(ctx, chatID, allowed); err != nil {
		return false, err
	}
	state := model.StateFor(allowed)
	if last, ok := p.statuses.Get(chatID); ok && last == state {
		return false, nil
	}
	text := p.notice(allowed, p.window.Hours(), p.window.Clock())
	if err := p.api.SendText(ctx, chatID, text); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("send status notice")
		return false, nil
	}
	p.statuses.Set(chatID, state)
	log.Info().Int64("chat_id", chatID).Str("state", string(state)).Msg("status notice sent")
	return true, nil
}

// Run reconciles after initialDelay and then every interval until ctx ends.
func (p *PermissionSync) Run(ctx context.Context, initialDelay, interval time.Duration) {
	timer := time.NewTimer(initialDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := p.Reconcile(ctx); err != nil {
			log.Error().Err(err).Msg("update group permissions")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

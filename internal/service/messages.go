package service

import (
	"context"

	"github.com/ilinovom/working-hours-bot/internal/model"
	"github.com/ilinovom/working-hours-bot/internal/repository"
	"github.com/rs/zerolog/log"
)

// IncomingMessage is what the bot knows about a message when it arrives.
type IncomingMessage struct {
	UserName string
	UserID   int64
	ChatID   int64
	ChatType string
	Text     string
}

// MessageService records the history and derives statistics from it.
type MessageService struct {
	repo   repository.MessageRepository
	window *Window
}

func NewMessageService(repo repository.MessageRepository, window *Window) *MessageService {
	return &MessageService{repo: repo, window: window}
}

// Record stores the message with the given status. Storage failures are
// logged and reported as id 0; the caller carries on regardless.
func (s *MessageService) Record(ctx context.Context, in IncomingMessage, status model.Status) int {
	rec := model.MessageRecord{
		UserName:    in.UserName,
		UserID:      in.UserID,
		ChatID:      in.ChatID,
		ChatType:    in.ChatType,
		MessageText: in.Text,
		Timestamp:   s.window.Clock(),
		Status:      status,
	}
	id, err := s.repo.Append(ctx, rec)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", in.ChatID).Msg("save message")
		return 0
	}
	return id
}

// Recent returns up to limit latest records, oldest first.
func (s *MessageService) Recent(ctx context.Context, limit int) ([]model.MessageRecord, error) {
	return s.repo.ListRecent(ctx, limit)
}

// Get returns one record or repository.ErrMessageNotFound.
func (s *MessageService) Get(ctx context.Context, id int) (*model.MessageRecord, error) {
	return s.repo.Get(ctx, id)
}

// MarkReplied annotates the record as answered by adminID now and returns it.
func (s *MessageService) MarkReplied(ctx context.Context, id int, adminID int64) (*model.MessageRecord, error) {
	if err := s.repo.MarkManuallyReplied(ctx, id, adminID, s.window.Clock()); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Clear wipes the history.
func (s *MessageService) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// Stats aggregates the whole history.
//
// Users are counted by display name, so two people sharing a first name are
// one user. TodayCount compares the stored HH:MM with the current HH:MM, so it
// counts messages from the current minute; records carry no date.
func (s *MessageService) Stats(ctx context.Context) (model.Stats, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	now := s.window.Clock()
	st := model.Stats{Total: len(all)}
	users := map[string]struct{}{}
	for _, m := range all {
		switch m.Status {
		case model.StatusReplied:
			st.RepliedCount++
		case model.StatusRejectedTime:
			st.RejectedCount++
		}
		users[m.UserName] = struct{}{}
		if prefix(m.Timestamp, 5) == prefix(now, 5) {
			st.TodayCount++
		}
	}
	st.UniqueUserCount = len(users)
	return st, nil
}

// KnownGroupChats lists group and supergroup chats seen in the history in
// order of first appearance.
func (s *MessageService) KnownGroupChats(ctx context.Context) ([]int64, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[int64]bool{}
	out := []int64{}
	for _, m := range all {
		if !model.IsGroupChat(m.ChatType) || seen[m.ChatID] {
			continue
		}
		seen[m.ChatID] = true
		out = append(out, m.ChatID)
	}
	return out, nil
}

func prefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

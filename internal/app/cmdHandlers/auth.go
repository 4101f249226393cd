package cmdHandlers

import (
	"context"

	"github.com/ilinovom/working-hours-bot/internal/model"
	"github.com/ilinovom/working-hours-bot/pkg/telegram"
	"github.com/rs/zerolog/log"
)

// memberStatus asks Telegram for the sender's role in the chat.
// ok is false when the lookup failed.
func (c *CmdHandler) memberStatus(ctx context.Context, m *telegram.Message) (string, bool) {
	if m.From == nil {
		return "", false
	}
	member, err := c.tgClient.GetChatMember(ctx, m.Chat.ID, m.From.ID)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", m.Chat.ID).Int64("user_id", m.From.ID).Msg("get chat member")
		return "", false
	}
	return member.Status, true
}

// isAdmin is true in private chats and for creators and administrators of a group.
func (c *CmdHandler) isAdmin(ctx context.Context, m *telegram.Message) bool {
	if m.Chat.Type == model.ChatPrivate {
		return true
	}
	status, ok := c.memberStatus(ctx, m)
	return ok && (status == telegram.MemberCreator || status == telegram.MemberAdministrator)
}

// isOwner is true in private chats and for the creator of a group.
func (c *CmdHandler) isOwner(ctx context.Context, m *telegram.Message) bool {
	if m.Chat.Type == model.ChatPrivate {
		return true
	}
	status, ok := c.memberStatus(ctx, m)
	return ok && status == telegram.MemberCreator
}

package cmdHandlers

import (
	"context"
	"fmt"

	"github.com/ilinovom/working-hours-bot/internal/model"
	"github.com/ilinovom/working-hours-bot/internal/service"
	"github.com/ilinovom/working-hours-bot/pkg/telegram"
	"github.com/rs/zerolog/log"
)

// handleText answers private messages and logs group messages together with
// whether they arrived inside the working hours.
func (c *CmdHandler) handleText(ctx context.Context, m *telegram.Message) {
	name := c.senderName(m)
	in := service.IncomingMessage{
		UserName: name,
		UserID:   senderID(m),
		ChatID:   m.Chat.ID,
		ChatType: m.Chat.Type,
		Text:     m.Text,
	}
	log.Info().Int64("chat_id", m.Chat.ID).Str("chat_type", m.Chat.Type).Int64("user_id", in.UserID).Str("user", name).Str("text", m.Text).Msg("message received")

	allowed := c.window.Allowed()
	clock := c.window.Clock()

	if m.Chat.Type == model.ChatPrivate {
		if !allowed {
			hours := c.window.Hours()
			c.reply(ctx, m, fmt.Sprintf(c.messages["private_closed"], hours.StartHour, hours.EndHour, clock))
			c.msgService.Record(ctx, in, model.StatusRejectedTime)
			return
		}
		c.reply(ctx, m, fmt.Sprintf(c.messages["private_thanks"], name, clock))
		c.msgService.Record(ctx, in, model.StatusReplied)
		return
	}

	// Closed groups should not deliver messages at all; if one slips
	// through it is kept as blocked_time.
	if allowed {
		c.msgService.Record(ctx, in, model.StatusReceived)
	} else {
		c.msgService.Record(ctx, in, model.StatusBlockedTime)
	}
}

package cmdHandlers

import (
	"context"
	"fmt"

	"github.com/ilinovom/working-hours-bot/internal/model"
	"github.com/ilinovom/working-hours-bot/pkg/telegram"
	"github.com/rs/zerolog/log"
)

// handleStartCommand describes what the bot does and which commands exist.
func (c *CmdHandler) handleStartCommand(ctx context.Context, m *telegram.Message) {
	log.Info().Int64("chat_id", m.Chat.ID).Int64("user_id", senderID(m)).Msg("called /start")
	kind := c.messages["chat_private"]
	if model.IsGroupChat(m.Chat.Type) {
		kind = c.messages["chat_group"]
	}
	hours := c.window.Hours()
	text := fmt.Sprintf(c.messages["start"], c.senderName(m), hours.StartHour, hours.EndHour, c.window.Clock(), kind)
	c.reply(ctx, m, text)
}

// handleShowHoursCommand reports the working hours and whether they are active now.
func (c *CmdHandler) handleShowHoursCommand(ctx context.Context, m *telegram.Message) {
	hours := c.window.Hours()
	status, summary := c.messages["status_inactive"], c.messages["summary_closed"]
	if c.window.Allowed() {
		status, summary = c.messages["status_active"], c.messages["summary_open"]
	}
	c.reply(ctx, m, fmt.Sprintf(c.messages["show_hours"], hours.StartHour, hours.EndHour, c.window.Clock(), status, summary))
}

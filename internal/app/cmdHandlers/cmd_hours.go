package cmdHandlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ilinovom/working-hours-bot/internal/model"
	"github.com/ilinovom/working-hours-bot/pkg/telegram"
	"github.com/rs/zerolog/log"
)

// handleSetHoursCommand replaces the working window. Every chat gets a fresh
// notice on the next cycle, even when the hours did not change.
func (c *CmdHandler) handleSetHoursCommand(ctx context.Context, m *telegram.Message, args []string) {
	if !c.isAdmin(ctx, m) {
		c.reply(ctx, m, c.messages["admin_only"])
		return
	}
	if len(args) != 2 {
		c.reply(ctx, m, c.messages["set_hours_usage"])
		return
	}
	start, err1 := strconv.Atoi(args[0])
	end, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		c.reply(ctx, m, c.messages["set_hours_not_int"])
		return
	}

	old, err := c.permissions.SetHours(start, end)
	switch {
	case errors.Is(err, model.ErrHourOutOfRange):
		c.reply(ctx, m, c.messages["set_hours_range"])
		return
	case errors.Is(err, model.ErrEmptyWindow):
		c.reply(ctx, m, c.messages["set_hours_order"])
		return
	case err != nil:
		log.Error().Err(err).Msg("set hours")
		c.reply(ctx, m, c.messages["set_hours_usage"])
		return
	}
	log.Info().Int64("admin_id", senderID(m)).Str("old", old.String()).Str("new", c.window.Hours().String()).Msg("working hours changed")
	c.reply(ctx, m, fmt.Sprintf(c.messages["set_hours_done"], old.StartHour, old.EndHour, start, end))
}

// handleUpdatePermissionsCommand reconciles the invoking chat right away.
func (c *CmdHandler) handleUpdatePermissionsCommand(ctx context.Context, m *telegram.Message) {
	if !c.isAdmin(ctx, m) {
		c.reply(ctx, m, c.messages["admin_only"])
		return
	}
	if err := c.permissions.ReconcileChat(ctx, m.Chat.ID); err != nil {
		log.Error().Err(err).Int64("chat_id", m.Chat.ID).Msg("update permissions")
		c.reply(ctx, m, c.messages["permissions_failed"])
		return
	}
	c.reply(ctx, m, c.messages["permissions_updated"])
}

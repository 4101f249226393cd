package cmdHandlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ilinovom/working-hours-bot/internal/model"
	"github.com/ilinovom/working-hours-bot/internal/repository"
	"github.com/ilinovom/working-hours-bot/pkg/telegram"
	"github.com/rs/zerolog/log"
)

// handleClearHistoryCommand wipes the whole history. Owner only.
func (c *CmdHandler) handleClearHistoryCommand(ctx context.Context, m *telegram.Message) {
	if !c.isOwner(ctx, m) {
		c.reply(ctx, m, c.messages["owner_only"])
		return
	}
	recent, err := c.msgService.Recent(ctx, 1)
	if err != nil {
		log.Error().Err(err).Msg("check history")
		c.reply(ctx, m, c.messages["clear_error"])
		return
	}
	if len(recent) == 0 {
		c.reply(ctx, m, c.messages["clear_already_empty"])
		return
	}
	if err := c.msgService.Clear(ctx); err != nil {
		log.Error().Err(err).Msg("clear history")
		c.reply(ctx, m, c.messages["clear_error"])
		return
	}
	log.Info().Int64("user_id", senderID(m)).Str("user", c.senderName(m)).Msg("history cleared")
	c.reply(ctx, m, c.messages["clear_done"])
}

// handleRepliedCommand marks one record as answered by the caller.
func (c *CmdHandler) handleRepliedCommand(ctx context.Context, m *telegram.Message, args []string) {
	if !c.isAdmin(ctx, m) {
		c.reply(ctx, m, c.messages["admin_only"])
		return
	}
	if len(args) == 0 {
		c.reply(ctx, m, c.messages["replied_usage"])
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		c.reply(ctx, m, c.messages["replied_not_int"])
		return
	}

	rec, err := c.msgService.MarkReplied(ctx, id, senderID(m))
	switch {
	case errors.Is(err, repository.ErrMessageNotFound):
		c.reply(ctx, m, fmt.Sprintf(c.messages["replied_not_found"], id))
		return
	case err != nil:
		log.Error().Err(err).Int("id", id).Msg("mark replied")
		c.reply(ctx, m, c.messages["replied_error"])
		return
	}

	text := fmt.Sprintf(c.messages["replied_private"], id, escapeMarkdown(rec.UserName), escapeMarkdown(truncate(rec.MessageText, 100)))
	c.sendMessage(ctx, senderID(m), text, &telegram.SendOptions{ParseMode: telegram.ParseMarkdown})
	if m.Chat.Type != model.ChatPrivate {
		c.reply(ctx, m, fmt.Sprintf(c.messages["replied_group"], id))
	}
	log.Info().Int("id", id).Int64("admin_id", senderID(m)).Msg("message marked as replied")
}

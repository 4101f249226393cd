package cmdHandlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ilinovom/working-hours-bot/internal/model"
	"github.com/ilinovom/working-hours-bot/pkg/telegram"
	"github.com/rs/zerolog/log"
)

// handleHistoryCommand sends the latest records to the admin privately.
func (c *CmdHandler) handleHistoryCommand(ctx context.Context, m *telegram.Message) {
	if !c.isAdmin(ctx, m) {
		c.reply(ctx, m, c.messages["admin_only"])
		return
	}
	recent, err := c.msgService.Recent(ctx, historyLimit)
	if err != nil {
		log.Error().Err(err).Msg("list history")
		c.reply(ctx, m, c.messages["history_error"])
		return
	}
	if len(recent) == 0 {
		c.reply(ctx, m, c.messages["history_empty"])
		return
	}

	if err := c.sendLongMessage(ctx, senderID(m), c.formatHistory(recent)); err != nil {
		c.reply(ctx, m, c.messages["history_error"])
		return
	}
	if m.Chat.Type != model.ChatPrivate {
		c.reply(ctx, m, c.messages["history_sent"])
	}
}

func (c *CmdHandler) formatHistory(recs []model.MessageRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, c.messages["history_header"], historyLimit)
	for i, rec := range recs {
		replyInfo := ""
		if rec.Status == model.StatusManuallyReplied && rec.RepliedBy != nil {
			ts := c.messages["unknown_time"]
			if rec.ReplyTimestamp != nil {
				ts = *rec.ReplyTimestamp
			}
			replyInfo = fmt.Sprintf(c.messages["reply_info"], ts)
		}
		fmt.Fprintf(&b, c.messages["history_entry"],
			i+1,
			statusEmoji(rec.Status),
			escapeMarkdown(rec.UserName),
			rec.Timestamp,
			rec.ID,
			escapeMarkdown(truncate(rec.MessageText, 50)),
			rec.ChatType,
			escapeMarkdown(string(rec.Status)),
			replyInfo,
		)
	}
	return b.String()
}

// handleStatsCommand sends aggregate counters to the admin privately.
func (c *CmdHandler) handleStatsCommand(ctx context.Context, m *telegram.Message) {
	if !c.isAdmin(ctx, m) {
		c.reply(ctx, m, c.messages["admin_only"])
		return
	}
	st, err := c.msgService.Stats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("compute stats")
		c.reply(ctx, m, c.messages["stats_error"])
		return
	}
	if st.Total == 0 {
		c.reply(ctx, m, c.messages["stats_empty"])
		return
	}

	hours := c.window.Hours()
	text := fmt.Sprintf(c.messages["stats"],
		st.Total, st.RepliedCount, st.RejectedCount, st.UniqueUserCount, st.TodayCount,
		c.window.Clock(), hours.StartHour, hours.EndHour)
	if _, err := c.sendMessage(ctx, senderID(m), text, &telegram.SendOptions{ParseMode: telegram.ParseMarkdown}); err != nil {
		c.reply(ctx, m, c.messages["stats_error"])
		return
	}
	if m.Chat.Type != model.ChatPrivate {
		c.reply(ctx, m, c.messages["stats_sent"])
	}
}

package cmdHandlers

import (
	"fmt"
	"strings"

	"github.com/ilinovom/working-hours-bot/internal/model"
	"github.com/ilinovom/working-hours-bot/internal/service"
	"github.com/ilinovom/working-hours-bot/pkg/telegram"
)

var markdownEscaper = strings.NewReplacer("*", "\\*", "_", "\\_", "[", "\\[", "]", "\\]")

// escapeMarkdown protects user text from being read as legacy Markdown.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// truncate cuts s to n runes and appends "..." when something was cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// splitRunes breaks s into parts of at most n runes.
func splitRunes(s string, n int) []string {
	r := []rune(s)
	if len(r) == 0 {
		return nil
	}
	parts := make([]string, 0, len(r)/n+1)
	for len(r) > n {
		parts = append(parts, string(r[:n]))
		r = r[n:]
	}
	return append(parts, string(r))
}

func statusEmoji(s model.Status) string {
	switch s {
	case model.StatusReplied:
		return "✅"
	case model.StatusManuallyReplied:
		return "💬"
	case model.StatusRejectedTime:
		return "⏰"
	case model.StatusBlockedTime:
		return "🚫"
	case model.StatusReceived:
		return "📨"
	default:
		return "❓"
	}
}

// parseCommand splits "/cmd@bot a b" into "/cmd" and its arguments.
func parseCommand(text string) (string, []string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}
	cmd := fields[0]
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), fields[1:], true
}

func senderID(m *telegram.Message) int64 {
	if m.From == nil {
		return 0
	}
	return m.From.ID
}

// senderName is the sender's first name or the generic greeting.
func (c *CmdHandler) senderName(m *telegram.Message) string {
	if m.From != nil && m.From.FirstName != "" {
		return m.From.FirstName
	}
	return c.messages["default_name"]
}

// StatusNotice renders group open and close announcements from texts.
func StatusNotice(texts map[string]string) service.NoticeFunc {
	return func(allowed bool, hours model.WindowConfig, clock string) string {
		if allowed {
			return fmt.Sprintf(texts["group_open"], hours.StartHour, hours.EndHour, clock)
		}
		return fmt.Sprintf(texts["group_closed"], hours.EndHour, hours.StartHour, clock)
	}
}

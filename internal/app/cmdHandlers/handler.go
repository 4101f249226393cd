package cmdHandlers

import (
	"context"
	"strings"

	"github.com/ilinovom/working-hours-bot/internal/config"
	"github.com/ilinovom/working-hours-bot/internal/model"
	"github.com/ilinovom/working-hours-bot/internal/service"
	"github.com/ilinovom/working-hours-bot/pkg/telegram"
	"github.com/rs/zerolog/log"
)

const (
	StartCmd             = "/start"
	HistoryCmd           = "/history"
	MessagesCmd          = "/messages"
	StatsCmd             = "/stats"
	ClearHistoryCmd      = "/clear_history"
	RepliedCmd           = "/replied"
	UpdatePermissionsCmd = "/update_permissions"
	SetHoursCmd          = "/set_hours"
	ShowHoursCmd         = "/show_hours"
)

// historyLimit is how many records /history shows.
const historyLimit = 10

// telegramChunk is the size of a single part when a long text is split.
const telegramChunk = 4000

type CmdHandler struct {
	cfg         *config.Config
	tgClient    *telegram.Client
	msgService  *service.MessageService
	window      *service.Window
	permissions *service.PermissionSync
	messages    map[string]string
}

func NewCmdHandler(cfg *config.Config, msgService *service.MessageService, window *service.Window, permissions *service.PermissionSync, tgClient *telegram.Client) *CmdHandler {
	return &CmdHandler{
		cfg:         cfg,
		tgClient:    tgClient,
		msgService:  msgService,
		window:      window,
		permissions: permissions,
		messages:    cfg.Messages,
	}
}

// HandleMessages routes one inbound message. A panic is logged and swallowed
// so the next update is still processed.
func (c *CmdHandler) HandleMessages(ctx context.Context, m *telegram.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Int64("chat_id", m.Chat.ID).Msg("handle message")
		}
	}()

	cmd, args, ok := parseCommand(m.Text)
	if !ok {
		if strings.TrimSpace(m.Text) != "" {
			c.handleText(ctx, m)
		}
		return
	}

	switch cmd {
	case StartCmd:
		c.handleStartCommand(ctx, m)
	case HistoryCmd, MessagesCmd:
		c.handleHistoryCommand(ctx, m)
	case StatsCmd:
		c.handleStatsCommand(ctx, m)
	case ClearHistoryCmd:
		c.handleClearHistoryCommand(ctx, m)
	case RepliedCmd:
		c.handleRepliedCommand(ctx, m, args)
	case UpdatePermissionsCmd:
		c.handleUpdatePermissionsCommand(ctx, m)
	case SetHoursCmd:
		c.handleSetHoursCommand(ctx, m, args)
	case ShowHoursCmd:
		c.handleShowHoursCommand(ctx, m)
	default:
		log.Debug().Int64("chat_id", m.Chat.ID).Str("command", cmd).Msg("unknown command")
	}
}

// sendMessage is a small wrapper around the Telegram client that logs failures
// but still returns the message ID to the caller.
func (c *CmdHandler) sendMessage(ctx context.Context, chatID int64, text string, opts *telegram.SendOptions) (int, error) {
	msgID, err := c.tgClient.SendMessage(ctx, chatID, text, opts)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Str("text", text).Msg("telegram send message")
	}
	return msgID, err
}

// reply answers in the chat the message came from. In groups the answer is
// threaded to the command.
func (c *CmdHandler) reply(ctx context.Context, m *telegram.Message, text string) {
	var opts *telegram.SendOptions
	if m.Chat.Type != model.ChatPrivate {
		opts = &telegram.SendOptions{ReplyToMessageID: m.MessageID}
	}
	c.sendMessage(ctx, m.Chat.ID, text, opts)
}

// sendLongMessage splits a long Markdown text into several Telegram messages
// so that each part fits into the platform's limit.
func (c *CmdHandler) sendLongMessage(ctx context.Context, chatID int64, text string) error {
	for _, part := range splitRunes(text, telegramChunk) {
		if _, err := c.sendMessage(ctx, chatID, part, &telegram.SendOptions{ParseMode: telegram.ParseMarkdown}); err != nil {
			return err
		}
	}
	return nil
}

// SetCommands registers the list of bot commands with Telegram so that users
// see available commands in the UI.
func (c *CmdHandler) SetCommands(ctx context.Context) {
	cmds := []telegram.BotCommand{
		{Command: strings.TrimPrefix(StartCmd, "/"), Description: "Показати можливості бота"},
		{Command: strings.TrimPrefix(HistoryCmd, "/"), Description: "Останні 10 повідомлень (адміни)"},
		{Command: strings.TrimPrefix(MessagesCmd, "/"), Description: "Те саме, що /history"},
		{Command: strings.TrimPrefix(StatsCmd, "/"), Description: "Статистика повідомлень (адміни)"},
		{Command: strings.TrimPrefix(RepliedCmd, "/"), Description: "Відзначити повідомлення як відповіджене (адміни)"},
		{Command: strings.TrimPrefix(UpdatePermissionsCmd, "/"), Description: "Оновити дозволи групи (адміни)"},
		{Command: strings.TrimPrefix(SetHoursCmd, "/"), Description: "Встановити робочі години (адміни)"},
		{Command: strings.TrimPrefix(ShowHoursCmd, "/"), Description: "Показати робочі години"},
		{Command: strings.TrimPrefix(ClearHistoryCmd, "/"), Description: "Очистити історію (власник)"},
	}
	if err := c.tgClient.SetCommands(ctx, cmds); err != nil {
		log.Error().Err(err).Msg("set commands")
	}
}

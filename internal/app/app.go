package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ilinovom/working-hours-bot/internal/app/cmdHandlers"
	"github.com/ilinovom/working-hours-bot/internal/config"
	"github.com/ilinovom/working-hours-bot/internal/repository"
	"github.com/ilinovom/working-hours-bot/internal/service"
	"github.com/ilinovom/working-hours-bot/pkg/telegram"
	"github.com/rs/zerolog/log"
)

// App coordinates the services and telegram client.
type App struct {
	cfg         *config.Config
	repo        repository.MessageRepository
	tgClient    *telegram.Client
	window      *service.Window
	msgService  *service.MessageService
	permissions *service.PermissionSync
	cmdHandler  *cmdHandlers.CmdHandler
}

func New(cfg *config.Config, repo repository.MessageRepository) (*App, error) {
	window, err := service.NewWindow(cfg.Window, cfg.Location)
	if err != nil {
		return nil, err
	}
	tgClient := telegram.NewClient(cfg.TelegramToken).WithBaseURL(cfg.TelegramAPIURL)
	msgService := service.NewMessageService(repo, window)
	permissions := service.NewPermissionSync(window, msgService, chatAPI{tgClient}, service.NewStatusTable(), cmdHandlers.StatusNotice(cfg.Messages))

	return &App{
		cfg:         cfg,
		repo:        repo,
		tgClient:    tgClient,
		window:      window,
		msgService:  msgService,
		permissions: permissions,
		cmdHandler:  cmdHandlers.NewCmdHandler(cfg, msgService, window, permissions, tgClient),
	}, nil
}

// Run polls for updates and keeps group permissions in sync until ctx is
// cancelled or the process receives SIGINT or SIGTERM.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.cmdHandler.SetCommands(ctx)

	log.Info().
		Str("hours", a.window.Hours().String()).
		Str("timezone", a.window.Location().String()).
		Str("clock", a.window.Clock()).
		Str("storage", a.cfg.StorageBackend).
		Msg("bot started")

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.handleUpdates(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.permissions.Run(ctx, a.cfg.SyncInitialDelay, a.cfg.SyncInterval)
	}()

	<-ctx.Done()
	wg.Wait()
	log.Info().Msg("bot stopped")
	return nil
}

func (a *App) handleUpdates(ctx context.Context) {
	offset := 0
	for {
		if ctx.Err() != nil {
			return
		}
		updates, err := a.tgClient.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("get updates")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil {
				continue
			}
			a.cmdHandler.HandleMessages(ctx, u.Message)
		}
	}
}

// chatAPI lets the permission synchronizer talk to Telegram.
type chatAPI struct {
	c *telegram.Client
}

func (a chatAPI) SetChatPermissions(ctx context.Context, chatID int64, allow bool) error {
	return a.c.SetChatPermissions(ctx, chatID, telegram.SendPermissions(allow))
}

func (a chatAPI) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := a.c.SendMessage(ctx, chatID, text, nil)
	return err
}

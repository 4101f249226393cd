package app

import (
	"fmt"

	"github.com/ilinovom/working-hours-bot/internal/config"
	"github.com/ilinovom/working-hours-bot/internal/repository"
)

// OpenRepository builds the message store selected by STORAGE_BACKEND. The
// returned func releases the underlying handle.
func OpenRepository(cfg *config.Config) (repository.MessageRepository, func() error, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		repo, err := repository.NewPostgresMessageRepository(cfg.DBConnString, cfg.HistoryCapacity)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return repo, repo.Close, nil
	case config.BackendBolt:
		repo, err := repository.NewBoltMessageRepository(cfg.BoltPath, cfg.HistoryCapacity)
		if err != nil {
			return nil, nil, fmt.Errorf("open bolt: %w", err)
		}
		return repo, repo.Close, nil
	default:
		repo := repository.NewFileMessageRepository(cfg.MessagesFile, cfg.HistoryCapacity)
		return repo, func() error { return nil }, nil
	}
}

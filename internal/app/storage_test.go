package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ilinovom/working-hours-bot/internal/config"
	"github.com/ilinovom/working-hours-bot/internal/model"
	"github.com/ilinovom/working-hours-bot/internal/repository"
)

func TestOpenRepository(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		backend string
		want    any
	}{
		{config.BackendFile, &repository.FileMessageRepository{}},
		{config.BackendBolt, &repository.BoltMessageRepository{}},
	}
	for _, tc := range cases {
		t.Run(tc.backend, func(t *testing.T) {
			cfg := &config.Config{
				StorageBackend:  tc.backend,
				MessagesFile:    filepath.Join(dir, "messages.json"),
				BoltPath:        filepath.Join(dir, "messages.db"),
				HistoryCapacity: 2,
			}
			repo, closeFn, err := OpenRepository(cfg)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer closeFn()

			switch tc.want.(type) {
			case *repository.FileMessageRepository:
				if _, ok := repo.(*repository.FileMessageRepository); !ok {
					t.Fatalf("got %T", repo)
				}
			case *repository.BoltMessageRepository:
				if _, ok := repo.(*repository.BoltMessageRepository); !ok {
					t.Fatalf("got %T", repo)
				}
			}

			ctx := context.Background()
			for i := 0; i < 3; i++ {
				if _, err := repo.Append(ctx, model.MessageRecord{UserName: "Ann", Status: model.StatusReceived}); err != nil {
					t.Fatal(err)
				}
			}
			all, _ := repo.All(ctx)
			if len(all) != 2 || all[0].ID != 2 {
				t.Fatalf("capacity not applied: %+v", all)
			}
		})
	}
}

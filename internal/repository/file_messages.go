package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ilinovom/working-hours-bot/internal/model"
	"github.com/rs/zerolog/log"
)

// FileMessageRepository stores the history as a JSON array in a single file.
// Every mutation rewrites the whole file.
type FileMessageRepository struct {
	path     string
	capacity int
	mu       sync.Mutex
}

// NewFileMessageRepository returns a repository backed by path. The file is
// created lazily on the first write.
func NewFileMessageRepository(path string, capacity int) *FileMessageRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &FileMessageRepository{path: path, capacity: capacity}
}

// loadLocked reads the file. A missing or empty file is an empty history.
// Records written before ids existed get sequential ids and the file is
// rewritten once.
func (r *FileMessageRepository) loadLocked() ([]model.MessageRecord, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.MessageRecord{}, nil
		}
		return nil, fmt.Errorf("read messages file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []model.MessageRecord{}, nil
	}
	var msgs []model.MessageRecord
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("parse messages file: %w", err)
	}
	if msgs == nil {
		msgs = []model.MessageRecord{}
	}

	updated := false
	for i := range msgs {
		if msgs[i].ID == 0 {
			msgs[i].ID = i + 1
			msgs[i].RepliedBy = nil
			msgs[i].ReplyTimestamp = nil
			updated = true
		}
	}
	if updated {
		log.Info().Str("path", r.path).Msg("assigned ids to legacy messages")
		if err := r.saveLocked(msgs); err != nil {
			return nil, err
		}
	}
	return msgs, nil
}

// saveLocked writes the history through a temp file and a rename.
func (r *FileMessageRepository) saveLocked(msgs []model.MessageRecord) (retErr error) {
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create messages dir: %w", err)
		}
	}
	tmp := r.path + ".tmp"
	defer func() {
		if retErr != nil {
			_ = os.Remove(tmp)
		}
	}()

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open temp messages file: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(msgs); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp messages file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp messages file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("rename temp messages file: %w", err)
	}
	return nil
}

// Append assigns the next id to rec, stores it and returns the id.
func (r *FileMessageRepository) Append(ctx context.Context, rec model.MessageRecord) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs, err := r.loadLocked()
	if err != nil {
		return 0, err
	}
	rec.ID = nextID(msgs)
	msgs = trimToCapacity(append(msgs, rec), r.capacity)
	if err := r.saveLocked(msgs); err != nil {
		return 0, err
	}
	return rec.ID, nil
}

// ListRecent returns the last limit records, oldest first.
func (r *FileMessageRepository) ListRecent(ctx context.Context, limit int) ([]model.MessageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs, err := r.loadLocked()
	if err != nil {
		return nil, err
	}
	return lastN(msgs, limit), nil
}

// All returns the whole history.
func (r *FileMessageRepository) All(ctx context.Context) ([]model.MessageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

// Get looks a record up by id or returns ErrMessageNotFound.
func (r *FileMessageRepository) Get(ctx context.Context, id int) (*model.MessageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs, err := r.loadLocked()
	if err != nil {
		return nil, err
	}
	for i := range msgs {
		if msgs[i].ID == id {
			m := msgs[i]
			return &m, nil
		}
	}
	return nil, ErrMessageNotFound
}

// MarkManuallyReplied annotates the record and writes the history back.
func (r *FileMessageRepository) MarkManuallyReplied(ctx context.Context, id int, adminID int64, ts string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs, err := r.loadLocked()
	if err != nil {
		return err
	}
	for i := range msgs {
		if msgs[i].ID == id {
			msgs[i].MarkManuallyReplied(adminID, ts)
			return r.saveLocked(msgs)
		}
	}
	return ErrMessageNotFound
}

// Clear replaces the history with an empty list.
func (r *FileMessageRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked([]model.MessageRecord{})
}

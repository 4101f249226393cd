package repository

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ilinovom/working-hours-bot/internal/model"
	"go.etcd.io/bbolt"
)

var messagesBucket = []byte("messages")

// BoltMessageRepository keeps the history in a bbolt file. Keys are
// big-endian ids so cursor order equals insertion order.
type BoltMessageRepository struct {
	db       *bbolt.DB
	capacity int
}

func NewBoltMessageRepository(path string, capacity int) (*BoltMessageRepository, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(messagesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &BoltMessageRepository{db: db, capacity: capacity}, nil
}

// Close closes the underlying database file.
func (r *BoltMessageRepository) Close() error {
	return r.db.Close()
}

func itob(id int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func (r *BoltMessageRepository) Append(ctx context.Context, rec model.MessageRecord) (int, error) {
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(messagesBucket)
		c := b.Cursor()
		rec.ID = 1
		if k, _ := c.Last(); k != nil {
			rec.ID = int(binary.BigEndian.Uint64(k)) + 1
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := b.Put(itob(rec.ID), data); err != nil {
			return err
		}

		c = b.Cursor()
		count := 0
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			count++
		}
		for excess := count - r.capacity; excess > 0; excess-- {
			if k, _ := c.First(); k == nil {
				break
			}
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("append message: %w", err)
	}
	return rec.ID, nil
}

func (r *BoltMessageRepository) ListRecent(ctx context.Context, limit int) ([]model.MessageRecord, error) {
	out := []model.MessageRecord{}
	if limit <= 0 {
		return out, nil
	}
	err := r.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(messagesBucket).Cursor()
		for k, v := c.Last(); k != nil && len(out) < limit; k, v = c.Prev() {
			var m model.MessageRecord
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			out = append(out, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *BoltMessageRepository) All(ctx context.Context) ([]model.MessageRecord, error) {
	out := []model.MessageRecord{}
	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(messagesBucket).ForEach(func(k, v []byte) error {
			var m model.MessageRecord
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			out = append(out, m)
			return nil
		})
	})
	return out, err
}

func (r *BoltMessageRepository) Get(ctx context.Context, id int) (*model.MessageRecord, error) {
	var m *model.MessageRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(messagesBucket).Get(itob(id))
		if data == nil {
			return ErrMessageNotFound
		}
		m = &model.MessageRecord{}
		return json.Unmarshal(data, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *BoltMessageRepository) MarkManuallyReplied(ctx context.Context, id int, adminID int64, ts string) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(messagesBucket)
		data := b.Get(itob(id))
		if data == nil {
			return ErrMessageNotFound
		}
		var m model.MessageRecord
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		m.MarkManuallyReplied(adminID, ts)
		out, err := json.Marshal(m)
		if err != nil {
			return err
		}
		return b.Put(itob(id), out)
	})
}

func (r *BoltMessageRepository) Clear(ctx context.Context) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(messagesBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(messagesBucket)
		return err
	})
}

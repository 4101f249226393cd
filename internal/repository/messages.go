package repository

import (
	"context"
	"errors"

	"github.com/ilinovom/working-hours-bot/internal/model"
)

// DefaultCapacity is the number of most recent messages kept in the history.
const DefaultCapacity = 1000

// ErrMessageNotFound is returned when no record has the requested id.
var ErrMessageNotFound = errors.New("message not found")

// MessageRepository abstracts persistence of the message history.
// Records are ordered by insertion, which is also the id order.
type MessageRepository interface {
	Append(ctx context.Context, rec model.MessageRecord) (int, error)
	ListRecent(ctx context.Context, limit int) ([]model.MessageRecord, error)
	All(ctx context.Context) ([]model.MessageRecord, error)
	Get(ctx context.Context, id int) (*model.MessageRecord, error)
	MarkManuallyReplied(ctx context.Context, id int, adminID int64, ts string) error
	Clear(ctx context.Context) error
}

// nextID returns max(id)+1, or 1 for an empty history.
func nextID(msgs []model.MessageRecord) int {
	next := 1
	for _, m := range msgs {
		if m.ID >= next {
			next = m.ID + 1
		}
	}
	return next
}

// trimToCapacity drops the oldest records so that at most capacity remain.
func trimToCapacity(msgs []model.MessageRecord, capacity int) []model.MessageRecord {
	if capacity <= 0 || len(msgs) <= capacity {
		return msgs
	}
	return append([]model.MessageRecord(nil), msgs[len(msgs)-capacity:]...)
}

// lastN returns a copy of the last n records in their original order.
func lastN(msgs []model.MessageRecord, n int) []model.MessageRecord {
	if n <= 0 || len(msgs) == 0 {
		return []model.MessageRecord{}
	}
	if n > len(msgs) {
		n = len(msgs)
	}
	return append([]model.MessageRecord(nil), msgs[len(msgs)-n:]...)
}

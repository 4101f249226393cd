package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ilinovom/working-hours-bot/internal/model"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresMessageRepository stores the history in a Postgres table.
type PostgresMessageRepository struct {
	db       *sql.DB
	capacity int
}

func NewPostgresMessageRepository(connStr string, capacity int) (*PostgresMessageRepository, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, err
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	r := &PostgresMessageRepository{db: db, capacity: capacity}
	if err := r.init(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *PostgresMessageRepository) init() error {
	_, err := r.db.Exec(`
        CREATE TABLE IF NOT EXISTS messages (
            id INTEGER PRIMARY KEY,
            user_name TEXT NOT NULL,
            user_id BIGINT NOT NULL,
            chat_id BIGINT NOT NULL,
            chat_type TEXT NOT NULL,
            message_text TEXT NOT NULL,
            msg_time TEXT NOT NULL,
            status TEXT NOT NULL,
            replied_by BIGINT,
            reply_timestamp TEXT
        )`)
	return err
}

// Close releases the connection pool.
func (r *PostgresMessageRepository) Close() error {
	return r.db.Close()
}

const selectMessageColumns = `id, user_name, user_id, chat_id, chat_type, message_text, msg_time, status, replied_by, reply_timestamp`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (model.MessageRecord, error) {
	var m model.MessageRecord
	var status string
	var repliedBy sql.NullInt64
	var replyTS sql.NullString
	if err := row.Scan(&m.ID, &m.UserName, &m.UserID, &m.ChatID, &m.ChatType, &m.MessageText, &m.Timestamp, &status, &repliedBy, &replyTS); err != nil {
		return m, err
	}
	m.Status = model.Status(status)
	if repliedBy.Valid {
		v := repliedBy.Int64
		m.RepliedBy = &v
	}
	if replyTS.Valid {
		v := replyTS.String
		m.ReplyTimestamp = &v
	}
	return m, nil
}

// Append inserts rec with id max(id)+1 and evicts records beyond the capacity.
func (r *PostgresMessageRepository) Append(ctx context.Context, rec model.MessageRecord) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `LOCK TABLE messages IN EXCLUSIVE MODE`); err != nil {
		return 0, fmt.Errorf("lock messages: %w", err)
	}
	var id int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM messages`).Scan(&id); err != nil {
		return 0, fmt.Errorf("next message id: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
        INSERT INTO messages (id, user_name, user_id, chat_id, chat_type, message_text, msg_time, status, replied_by, reply_timestamp)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		id, rec.UserName, rec.UserID, rec.ChatID, rec.ChatType, rec.MessageText, rec.Timestamp, string(rec.Status), rec.RepliedBy, rec.ReplyTimestamp)
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
        DELETE FROM messages WHERE id NOT IN (
            SELECT id FROM messages ORDER BY id DESC LIMIT $1
        )`, r.capacity)
	if err != nil {
		return 0, fmt.Errorf("trim messages: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PostgresMessageRepository) query(ctx context.Context, q string, args ...any) ([]model.MessageRecord, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.MessageRecord{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *PostgresMessageRepository) ListRecent(ctx context.Context, limit int) ([]model.MessageRecord, error) {
	if limit <= 0 {
		return []model.MessageRecord{}, nil
	}
	return r.query(ctx, `SELECT `+selectMessageColumns+` FROM (
            SELECT `+selectMessageColumns+` FROM messages ORDER BY id DESC LIMIT $1
        ) recent ORDER BY id ASC`, limit)
}

func (r *PostgresMessageRepository) All(ctx context.Context) ([]model.MessageRecord, error) {
	return r.query(ctx, `SELECT `+selectMessageColumns+` FROM messages ORDER BY id ASC`)
}

func (r *PostgresMessageRepository) Get(ctx context.Context, id int) (*model.MessageRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectMessageColumns+` FROM messages WHERE id=$1`, id)
	m, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PostgresMessageRepository) MarkManuallyReplied(ctx context.Context, id int, adminID int64, ts string) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE messages SET status=$2, replied_by=$3, reply_timestamp=$4 WHERE id=$1`,
		id, string(model.StatusManuallyReplied), adminID, ts)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *PostgresMessageRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM messages`)
	return err
}

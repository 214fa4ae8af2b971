package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-messenger/internal/logger"
	"github.com/sbilibin2017/gw-messenger/internal/models"
)

// direction selects which side of a message the lookup is keyed on.
type direction int

const (
	directionFrom direction = iota // messages sent by the user
	directionTo                    // messages received by the user
)

type MessageReadRepository struct {
	db *sqlx.DB
}

func NewMessageReadRepository(db *sqlx.DB) *MessageReadRepository {
	return &MessageReadRepository{db: db}
}

// Get returns the raw message record, or nil if no such message.
func (r *MessageReadRepository) Get(ctx context.Context, id int64) (*models.MessageDB, error) {
	const query = `
		SELECT id, from_username, to_username, body, sent_at, read_at
		FROM messages
		WHERE id = $1
	`

	var msg models.MessageDB
	err := r.db.GetContext(ctx, &msg, query, id)

	logger.Log.Infow("message query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &msg, nil
}

// ListFrom returns all messages sent by the user.
func (r *MessageReadRepository) ListFrom(ctx context.Context, username string) ([]models.MessageDB, error) {
	return r.list(ctx, username, directionFrom)
}

// ListTo returns all messages received by the user.
func (r *MessageReadRepository) ListTo(ctx context.Context, username string) ([]models.MessageDB, error) {
	return r.list(ctx, username, directionTo)
}

// list switches over two fixed query strings rather than interpolating
// column names into SQL.
func (r *MessageReadRepository) list(ctx context.Context, username string, dir direction) ([]models.MessageDB, error) {
	var query string
	switch dir {
	case directionFrom:
		query = `
			SELECT id, from_username, to_username, body, sent_at, read_at
			FROM messages
			WHERE from_username = $1
			ORDER BY sent_at
		`
	case directionTo:
		query = `
			SELECT id, from_username, to_username, body, sent_at, read_at
			FROM messages
			WHERE to_username = $1
			ORDER BY sent_at
		`
	default:
		return nil, errors.New("unknown message direction")
	}

	messages := make([]models.MessageDB, 0)
	err := r.db.SelectContext(ctx, &messages, query, username)

	logger.Log.Infow("message query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return messages, nil
}

type MessageWriteRepository struct {
	db *sqlx.DB
}

func NewMessageWriteRepository(db *sqlx.DB) *MessageWriteRepository {
	return &MessageWriteRepository{db: db}
}

// Save inserts a new message with sent_at set to now and read_at null.
func (r *MessageWriteRepository) Save(ctx context.Context, fromUsername, toUsername, body string) (*models.MessageDB, error) {
	const query = `
		INSERT INTO messages (from_username, to_username, body, sent_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, from_username, to_username, body, sent_at, read_at
	`
	args := []any{fromUsername, toUsername, body}

	var msg models.MessageDB
	err := r.db.GetContext(ctx, &msg, query, args...)

	logger.Log.Infow("message query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &msg, nil
}

// MarkRead sets read_at to now and returns the id with the new timestamp.
// Overwrites an earlier read_at; the timestamp only moves forward.
// Returns nil if no such message.
func (r *MessageWriteRepository) MarkRead(ctx context.Context, id int64) (*models.MessageRead, error) {
	const query = `
		UPDATE messages
		SET read_at = NOW()
		WHERE id = $1
		RETURNING id, read_at
	`

	var read models.MessageRead
	err := r.db.GetContext(ctx, &read, query, id)

	logger.Log.Infow("message query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &read, nil
}

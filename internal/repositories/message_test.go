package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestMessageReadRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageReadRepository(db)
	ctx := context.Background()

	sentAt := time.Now()

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "from_username", "to_username", "body", "sent_at", "read_at"}).
			AddRow(int64(42), "alice", "bob", "hi", sentAt, nil)
		mock.ExpectQuery(regexp.QuoteMeta("FROM messages")).
			WithArgs(int64(42)).
			WillReturnRows(rows)

		msg, err := repo.Get(ctx, 42)
		assert.NoError(t, err)
		assert.NotNil(t, msg)
		assert.Equal(t, int64(42), msg.ID)
		assert.Equal(t, "alice", msg.FromUsername)
		assert.Equal(t, "bob", msg.ToUsername)
		assert.Nil(t, msg.ReadAt)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM messages")).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "from_username", "to_username", "body", "sent_at", "read_at"}))

		msg, err := repo.Get(ctx, 99)
		assert.NoError(t, err)
		assert.Nil(t, msg)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageReadRepository_ListFrom(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageReadRepository(db)
	ctx := context.Background()

	sentAt := time.Now()

	rows := sqlmock.NewRows([]string{"id", "from_username", "to_username", "body", "sent_at", "read_at"}).
		AddRow(int64(1), "alice", "bob", "hi", sentAt, nil).
		AddRow(int64(2), "alice", "carol", "hey", sentAt, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE from_username = $1")).
		WithArgs("alice").
		WillReturnRows(rows)

	messages, err := repo.ListFrom(ctx, "alice")
	assert.NoError(t, err)
	assert.Len(t, messages, 2)
	assert.Equal(t, "bob", messages[0].ToUsername)
	assert.Equal(t, "carol", messages[1].ToUsername)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageReadRepository_ListTo(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageReadRepository(db)
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE to_username = $1")).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"id", "from_username", "to_username", "body", "sent_at", "read_at"}))

		messages, err := repo.ListTo(ctx, "alice")
		assert.NoError(t, err)
		assert.Empty(t, messages)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageWriteRepository_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageWriteRepository(db)
	ctx := context.Background()

	sentAt := time.Now()

	rows := sqlmock.NewRows([]string{"id", "from_username", "to_username", "body", "sent_at", "read_at"}).
		AddRow(int64(1), "alice", "bob", "hi", sentAt, nil)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO messages")).
		WithArgs("alice", "bob", "hi").
		WillReturnRows(rows)

	msg, err := repo.Save(ctx, "alice", "bob", "hi")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), msg.ID)
	assert.Equal(t, sentAt, msg.SentAt)
	assert.Nil(t, msg.ReadAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageWriteRepository_MarkRead(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageWriteRepository(db)
	ctx := context.Background()

	readAt := time.Now()

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "read_at"}).
			AddRow(int64(1), readAt)
		mock.ExpectQuery(regexp.QuoteMeta("SET read_at = NOW()")).
			WithArgs(int64(1)).
			WillReturnRows(rows)

		read, err := repo.MarkRead(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), read.ID)
		assert.Equal(t, readAt, read.ReadAt)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SET read_at = NOW()")).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "read_at"}))

		read, err := repo.MarkRead(ctx, 99)
		assert.NoError(t, err)
		assert.Nil(t, read)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

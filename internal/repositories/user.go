package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-messenger/internal/logger"
	"github.com/sbilibin2017/gw-messenger/internal/models"
)

// ErrUsernameTaken reports an insert that hit the users primary key.
// Callers that pre-check the username can still lose the race to a
// concurrent insert; this maps the store's unique violation for them.
var ErrUsernameTaken = errors.New("username already taken")

// pgUniqueViolation is the postgres error code for a unique constraint.
const pgUniqueViolation = "23505"

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByUsername returns the full user record, or nil if no such user.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	const query = `
		SELECT username, password, first_name, last_name, phone, join_at, last_login_at
		FROM users
		WHERE username = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username)

	logger.Log.Infow("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// All returns the public profile of every user.
func (r *UserReadRepository) All(ctx context.Context) ([]models.PublicUser, error) {
	const query = `
		SELECT username, first_name, last_name, phone
		FROM users
		ORDER BY username
	`

	users := make([]models.PublicUser, 0)
	err := r.db.SelectContext(ctx, &users, query)

	logger.Log.Infow("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return users, nil
}

// ListByUsernames batch-fetches public profiles for the given usernames.
func (r *UserReadRepository) ListByUsernames(ctx context.Context, usernames []string) ([]models.PublicUser, error) {
	if len(usernames) == 0 {
		return []models.PublicUser{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT username, first_name, last_name, phone
		FROM users
		WHERE username IN (?)
	`, usernames)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	users := make([]models.PublicUser, 0, len(usernames))
	err = r.db.SelectContext(ctx, &users, query, args...)

	logger.Log.Infow("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return users, nil
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user. join_at and last_login_at are both set to the
// insertion time; registration doubles as the first login.
func (r *UserWriteRepository) Save(ctx context.Context, username, password, firstName, lastName, phone string) (*models.UserDB, error) {
	const query = `
		INSERT INTO users (username, password, first_name, last_name, phone, join_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING username, password, first_name, last_name, phone, join_at, last_login_at
	`
	args := []any{username, password, firstName, lastName, phone}

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, args...)

	logger.Log.Infow("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, firstName, lastName, phone},
		"error", err,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return &user, nil
}

// UpdateLoginTimestamp sets last_login_at to now. Returns sql.ErrNoRows
// if the user does not exist.
func (r *UserWriteRepository) UpdateLoginTimestamp(ctx context.Context, username string) error {
	const query = `
		UPDATE users
		SET last_login_at = NOW()
		WHERE username = $1
	`

	res, err := r.db.ExecContext(ctx, query, username)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

package services

import (
	"context"

	"github.com/sbilibin2017/gw-messenger/internal/logger"
	"github.com/sbilibin2017/gw-messenger/internal/models"
)

// MessageReader defines read-only operations for messages.
type MessageReader interface {
	Get(ctx context.Context, id int64) (*models.MessageDB, error)
	ListFrom(ctx context.Context, username string) ([]models.MessageDB, error)
	ListTo(ctx context.Context, username string) ([]models.MessageDB, error)
}

// UserService exposes user profiles and their message history.
type UserService struct {
	users    UserReader
	messages MessageReader
}

// NewUserService creates a new UserService instance.
func NewUserService(users UserReader, messages MessageReader) *UserService {
	return &UserService{
		users:    users,
		messages: messages,
	}
}

// All returns the public profile of every user.
func (svc *UserService) All(ctx context.Context) ([]models.PublicUser, error) {
	users, err := svc.users.All(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "err", err)
		return nil, err
	}
	return users, nil
}

// Get returns the full profile for a username, including timestamps.
func (svc *UserService) Get(ctx context.Context, username string) (*models.UserDB, error) {
	user, err := svc.users.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// MessagesFrom returns every message the user sent, with the recipient
// expanded to a profile. Message rows and counterpart profiles are
// fetched in two queries and joined in memory by username.
func (svc *UserService) MessagesFrom(ctx context.Context, username string) ([]models.MessageToUser, error) {
	rows, err := svc.messages.ListFrom(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to list sent messages", "err", err)
		return nil, err
	}

	profiles, err := svc.counterparts(ctx, rows, func(m models.MessageDB) string { return m.ToUsername })
	if err != nil {
		return nil, err
	}

	messages := make([]models.MessageToUser, 0, len(rows))
	for _, m := range rows {
		messages = append(messages, models.MessageToUser{
			ID:     m.ID,
			Body:   m.Body,
			SentAt: m.SentAt,
			ReadAt: m.ReadAt,
			ToUser: profiles[m.ToUsername],
		})
	}
	return messages, nil
}

// MessagesTo returns every message the user received, with the sender
// expanded to a profile.
func (svc *UserService) MessagesTo(ctx context.Context, username string) ([]models.MessageFromUser, error) {
	rows, err := svc.messages.ListTo(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to list received messages", "err", err)
		return nil, err
	}

	profiles, err := svc.counterparts(ctx, rows, func(m models.MessageDB) string { return m.FromUsername })
	if err != nil {
		return nil, err
	}

	messages := make([]models.MessageFromUser, 0, len(rows))
	for _, m := range rows {
		messages = append(messages, models.MessageFromUser{
			ID:       m.ID,
			Body:     m.Body,
			SentAt:   m.SentAt,
			ReadAt:   m.ReadAt,
			FromUser: profiles[m.FromUsername],
		})
	}
	return messages, nil
}

// counterparts batch-fetches the distinct counterpart profiles for a set
// of message rows and indexes them by username.
func (svc *UserService) counterparts(ctx context.Context, rows []models.MessageDB, counterpart func(models.MessageDB) string) (map[string]models.PublicUser, error) {
	if len(rows) == 0 {
		return map[string]models.PublicUser{}, nil
	}

	seen := make(map[string]struct{}, len(rows))
	usernames := make([]string, 0, len(rows))
	for _, m := range rows {
		name := counterpart(m)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		usernames = append(usernames, name)
	}

	users, err := svc.users.ListByUsernames(ctx, usernames)
	if err != nil {
		logger.Log.Errorw("failed to fetch counterpart profiles", "err", err)
		return nil, err
	}

	profiles := make(map[string]models.PublicUser, len(users))
	for _, u := range users {
		profiles[u.Username] = u
	}
	return profiles, nil
}

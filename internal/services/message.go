package services

import (
	"context"
	"errors"

	"github.com/sbilibin2017/gw-messenger/internal/logger"
	"github.com/sbilibin2017/gw-messenger/internal/models"
)

// Error variables
var (
	ErrMessageNotFound       = errors.New("message not found")
	ErrNotMessageParticipant = errors.New("caller is neither sender nor recipient")
	ErrNotMessageRecipient   = errors.New("caller is not the recipient")
)

// MessageWriter defines write operations for messages.
type MessageWriter interface {
	Save(ctx context.Context, fromUsername, toUsername, body string) (*models.MessageDB, error)
	MarkRead(ctx context.Context, id int64) (*models.MessageRead, error)
}

// MessageService owns message access rules: only participants may view a
// message, only the recipient may mark it read.
type MessageService struct {
	reader MessageReader
	writer MessageWriter
	users  UserReader
}

// NewMessageService creates a new MessageService instance.
func NewMessageService(reader MessageReader, writer MessageWriter, users UserReader) *MessageService {
	return &MessageService{
		reader: reader,
		writer: writer,
		users:  users,
	}
}

// Get returns a message with both parties expanded to profiles. The
// requester must be the sender or the recipient.
func (svc *MessageService) Get(ctx context.Context, id int64, requester string) (*models.Message, error) {
	msg, err := svc.reader.Get(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get message", "err", err)
		return nil, err
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}

	if requester != msg.FromUsername && requester != msg.ToUsername {
		logger.Log.Errorw("message access denied", "id", id, "requester", requester)
		return nil, ErrNotMessageParticipant
	}

	usernames := []string{msg.FromUsername}
	if msg.ToUsername != msg.FromUsername {
		usernames = append(usernames, msg.ToUsername)
	}
	users, err := svc.users.ListByUsernames(ctx, usernames)
	if err != nil {
		logger.Log.Errorw("failed to fetch message participants", "err", err)
		return nil, err
	}
	profiles := make(map[string]models.PublicUser, len(users))
	for _, u := range users {
		profiles[u.Username] = u
	}

	return &models.Message{
		ID:       msg.ID,
		Body:     msg.Body,
		SentAt:   msg.SentAt,
		ReadAt:   msg.ReadAt,
		FromUser: profiles[msg.FromUsername],
		ToUser:   profiles[msg.ToUsername],
	}, nil
}

// Send inserts a new message from the authenticated sender.
func (svc *MessageService) Send(ctx context.Context, fromUsername, toUsername, body string) (*models.MessageDB, error) {
	if toUsername == "" || body == "" {
		return nil, ErrMissingFields
	}

	recipient, err := svc.users.GetByUsername(ctx, toUsername)
	if err != nil {
		logger.Log.Errorw("failed to check recipient", "err", err)
		return nil, err
	}
	if recipient == nil {
		return nil, ErrUserNotFound
	}

	msg, err := svc.writer.Save(ctx, fromUsername, toUsername, body)
	if err != nil {
		logger.Log.Errorw("failed to save message", "err", err)
		return nil, err
	}

	return msg, nil
}

// MarkRead sets the message's read timestamp. Only the recipient may
// mark it read; repeated calls overwrite the timestamp.
func (svc *MessageService) MarkRead(ctx context.Context, id int64, requester string) (*models.MessageRead, error) {
	msg, err := svc.reader.Get(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get message", "err", err)
		return nil, err
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}

	if requester != msg.ToUsername {
		logger.Log.Errorw("mark read denied", "id", id, "requester", requester)
		return nil, ErrNotMessageRecipient
	}

	read, err := svc.writer.MarkRead(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to mark message read", "err", err)
		return nil, err
	}
	if read == nil {
		return nil, ErrMessageNotFound
	}

	return read, nil
}

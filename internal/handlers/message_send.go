package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sbilibin2017/gw-messenger/internal/logger"
	"github.com/sbilibin2017/gw-messenger/internal/middlewares"
	"github.com/sbilibin2017/gw-messenger/internal/models"
	"github.com/sbilibin2017/gw-messenger/internal/services"
)

// MessageSender defines the interface that the service must implement.
type MessageSender interface {
	Send(ctx context.Context, fromUsername, toUsername, body string) (*models.MessageDB, error)
}

// SendMessageRequest represents the JSON body for sending a message
// swagger:model SendMessageRequest
type SendMessageRequest struct {
	// Recipient username
	// required: true
	// default: jane_doe
	ToUsername string `json:"to_username"`

	// Message text
	// required: true
	// default: hello!
	Body string `json:"body"`
}

// SentMessage is the created record; the authenticated caller is the sender
type SentMessage struct {
	ID           int64     `json:"id"`
	FromUsername string    `json:"from_username"`
	ToUsername   string    `json:"to_username"`
	Body         string    `json:"body"`
	SentAt       time.Time `json:"sent_at"`
}

// SendMessageResponse wraps the created message
// swagger:model SendMessageResponse
type SendMessageResponse struct {
	Message SentMessage `json:"message"`
}

// NewMessageSendHandler returns an HTTP handler for sending a message.
// @Summary Send message
// @Description Creates a message from the authenticated caller to the given recipient
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sendMessageRequest body handlers.SendMessageRequest true "Message to send"
// @Success 201 {object} handlers.SendMessageResponse "Created message"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body or missing fields"
// @Failure 404 {object} handlers.ErrorResponse "No such recipient"
// @Router /messages [post]
func NewMessageSendHandler(svc MessageSender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SendMessageRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		fromUsername := middlewares.UsernameFromContext(r.Context())

		msg, err := svc.Send(r.Context(), fromUsername, req.ToUsername, req.Body)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMissingFields):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Missing recipient or message body",
				})
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "No such user: " + req.ToUsername,
				})
			default:
				logger.Log.Errorw("internal server error", "request_id", middlewares.RequestIDFromContext(r.Context()), "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(SendMessageResponse{
			Message: SentMessage{
				ID:           msg.ID,
				FromUsername: msg.FromUsername,
				ToUsername:   msg.ToUsername,
				Body:         msg.Body,
				SentAt:       msg.SentAt,
			},
		})
	}
}

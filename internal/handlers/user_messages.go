package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-messenger/internal/logger"
	"github.com/sbilibin2017/gw-messenger/internal/middlewares"
	"github.com/sbilibin2017/gw-messenger/internal/models"
)

// UserMessagesLister defines the interface that the service must implement.
type UserMessagesLister interface {
	MessagesFrom(ctx context.Context, username string) ([]models.MessageToUser, error)
	MessagesTo(ctx context.Context, username string) ([]models.MessageFromUser, error)
}

// MessagesFromResponse wraps the messages a user sent
// swagger:model MessagesFromResponse
type MessagesFromResponse struct {
	Messages []models.MessageToUser `json:"messages"`
}

// MessagesToResponse wraps the messages a user received
// swagger:model MessagesToResponse
type MessagesToResponse struct {
	Messages []models.MessageFromUser `json:"messages"`
}

// NewUserMessagesFromHandler returns an HTTP handler listing the messages
// a user sent, each with the recipient's profile expanded.
// @Summary List sent messages
// @Description Returns every message the user sent, with to_user expanded to a profile. Callers may only list their own messages.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} handlers.MessagesFromResponse "Sent messages"
// @Failure 401 {object} handlers.ErrorResponse "Caller is not the requested user"
// @Router /users/{username}/messages/from [get]
func NewUserMessagesFromHandler(svc UserMessagesLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		if middlewares.UsernameFromContext(r.Context()) != username {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		messages, err := svc.MessagesFrom(r.Context(), username)
		if err != nil {
			logger.Log.Errorw("internal server error", "request_id", middlewares.RequestIDFromContext(r.Context()), "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(MessagesFromResponse{
			Messages: messages,
		})
	}
}

// NewUserMessagesToHandler returns an HTTP handler listing the messages
// a user received, each with the sender's profile expanded.
// @Summary List received messages
// @Description Returns every message the user received, with from_user expanded to a profile. Callers may only list their own messages.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} handlers.MessagesToResponse "Received messages"
// @Failure 401 {object} handlers.ErrorResponse "Caller is not the requested user"
// @Router /users/{username}/messages/to [get]
func NewUserMessagesToHandler(svc UserMessagesLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		if middlewares.UsernameFromContext(r.Context()) != username {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		messages, err := svc.MessagesTo(r.Context(), username)
		if err != nil {
			logger.Log.Errorw("internal server error", "request_id", middlewares.RequestIDFromContext(r.Context()), "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(MessagesToResponse{
			Messages: messages,
		})
	}
}

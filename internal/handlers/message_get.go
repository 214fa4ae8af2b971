package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-messenger/internal/logger"
	"github.com/sbilibin2017/gw-messenger/internal/middlewares"
	"github.com/sbilibin2017/gw-messenger/internal/models"
	"github.com/sbilibin2017/gw-messenger/internal/services"
)

// MessageGetter defines the interface that the service must implement.
type MessageGetter interface {
	Get(ctx context.Context, id int64, requester string) (*models.Message, error)
}

// MessageResponse wraps a single message with both parties expanded
// swagger:model MessageResponse
type MessageResponse struct {
	Message *models.Message `json:"message"`
}

// NewMessageGetHandler returns an HTTP handler for fetching one message.
// Only the sender or the recipient may view it.
// @Summary Get message
// @Description Returns the message with from_user and to_user expanded to profiles
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} handlers.MessageResponse "The message"
// @Failure 400 {object} handlers.ErrorResponse "Malformed message id"
// @Failure 401 {object} handlers.ErrorResponse "Caller is neither sender nor recipient"
// @Failure 404 {object} handlers.ErrorResponse "No such message"
// @Router /messages/{id} [get]
func NewMessageGetHandler(svc MessageGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Invalid message id",
			})
			return
		}

		requester := middlewares.UsernameFromContext(r.Context())

		message, err := svc.Get(r.Context(), id, requester)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMessageNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "No such message",
				})
			case errors.Is(err, services.ErrNotMessageParticipant):
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Unauthorized",
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

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(MessageResponse{
			Message: message,
		})
	}
}

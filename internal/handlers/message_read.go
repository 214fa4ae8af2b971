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

// MessageReadMarker defines the interface that the service must implement.
type MessageReadMarker interface {
	MarkRead(ctx context.Context, id int64, requester string) (*models.MessageRead, error)
}

// MessageReadResponse wraps the id and new read timestamp
// swagger:model MessageReadResponse
type MessageReadResponse struct {
	Message *models.MessageRead `json:"message"`
}

// NewMessageReadHandler returns an HTTP handler marking a message read.
// Only the recipient may mark it; repeated calls are idempotent.
// @Summary Mark message read
// @Description Sets the message's read timestamp. Only the intended recipient may mark it read.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} handlers.MessageReadResponse "Id and read timestamp"
// @Failure 400 {object} handlers.ErrorResponse "Malformed message id"
// @Failure 401 {object} handlers.ErrorResponse "Caller is not the recipient"
// @Failure 404 {object} handlers.ErrorResponse "No such message"
// @Router /messages/{id}/read [post]
func NewMessageReadHandler(svc MessageReadMarker) http.HandlerFunc {
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

		read, err := svc.MarkRead(r.Context(), id, requester)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMessageNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "No such message",
				})
			case errors.Is(err, services.ErrNotMessageRecipient):
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
		json.NewEncoder(w).Encode(MessageReadResponse{
			Message: read,
		})
	}
}

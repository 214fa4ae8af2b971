package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-messenger/internal/logger"
	"github.com/sbilibin2017/gw-messenger/internal/middlewares"
	"github.com/sbilibin2017/gw-messenger/internal/models"
)

// UserLister defines the interface that the service must implement.
type UserLister interface {
	All(ctx context.Context) ([]models.PublicUser, error)
}

// UserListResponse wraps the list of public profiles
// swagger:model UserListResponse
type UserListResponse struct {
	Users []models.PublicUser `json:"users"`
}

// NewUserListHandler returns an HTTP handler listing all users.
// @Summary List users
// @Description Returns the public profile of every registered user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.UserListResponse "Public profiles"
// @Failure 401 "Missing or invalid token"
// @Router /users [get]
func NewUserListHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.All(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "request_id", middlewares.RequestIDFromContext(r.Context()), "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(UserListResponse{
			Users: users,
		})
	}
}

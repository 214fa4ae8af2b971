package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-messenger/internal/logger"
	"github.com/sbilibin2017/gw-messenger/internal/middlewares"
	"github.com/sbilibin2017/gw-messenger/internal/models"
	"github.com/sbilibin2017/gw-messenger/internal/services"
)

// UserGetter defines the interface that the service must implement.
type UserGetter interface {
	Get(ctx context.Context, username string) (*models.UserDB, error)
}

// UserResponse wraps a single full profile
// swagger:model UserResponse
type UserResponse struct {
	User *models.UserDB `json:"user"`
}

// NewUserGetHandler returns an HTTP handler for a user's own profile.
// Only the user itself may view the full profile with timestamps.
// @Summary Get user profile
// @Description Returns the full profile, including join and last-login timestamps. Callers may only fetch their own profile.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} handlers.UserResponse "Full profile"
// @Failure 401 {object} handlers.ErrorResponse "Caller is not the requested user"
// @Failure 404 {object} handlers.ErrorResponse "No such user"
// @Router /users/{username} [get]
func NewUserGetHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		if middlewares.UsernameFromContext(r.Context()) != username {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		user, err := svc.Get(r.Context(), username)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "No such user: " + username,
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
		json.NewEncoder(w).Encode(UserResponse{
			User: user,
		})
	}
}

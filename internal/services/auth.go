package services

import (
	"context"
	"errors"

	"github.com/sbilibin2017/gw-messenger/internal/logger"
	"github.com/sbilibin2017/gw-messenger/internal/models"
	"github.com/sbilibin2017/gw-messenger/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// Error variables
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrUserAlreadyExists  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	All(ctx context.Context) ([]models.PublicUser, error)
	ListByUsernames(ctx context.Context, usernames []string) ([]models.PublicUser, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, password, firstName, lastName, phone string) (*models.UserDB, error)
	UpdateLoginTimestamp(ctx context.Context, username string) error
}

// JWTGenerator defines an interface for generating JWT tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, username string) (string, error)
}

// AuthService handles registration and login.
type AuthService struct {
	reader     UserReader
	writer     UserWriter
	jwt        JWTGenerator
	bcryptCost int
}

// NewAuthService creates a new AuthService instance. bcryptCost is the
// password hashing work factor.
func NewAuthService(reader UserReader, writer UserWriter, jwt JWTGenerator, bcryptCost int) *AuthService {
	return &AuthService{
		reader:     reader,
		writer:     writer,
		jwt:        jwt,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new user and returns a token for it; signing up
// doubles as the first login.
func (svc *AuthService) Register(ctx context.Context, username, password, firstName, lastName, phone string) (string, error) {
	if username == "" || password == "" || firstName == "" || lastName == "" || phone == "" {
		return "", ErrMissingFields
	}

	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return "", err
	}
	if user != nil {
		logger.Log.Errorw("user already exists", "username", username)
		return "", ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), svc.bcryptCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return "", err
	}

	created, err := svc.writer.Save(ctx, username, string(hashedPassword), firstName, lastName, phone)
	if err != nil {
		// A concurrent registration can slip past the pre-check above;
		// the store's unique violation closes the race.
		if errors.Is(err, repositories.ErrUsernameTaken) {
			logger.Log.Errorw("user already exists", "username", username)
			return "", ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return "", err
	}

	token, err := svc.jwt.Generate(ctx, created.Username)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}

	return token, nil
}

// Login authenticates a user, updates its last login timestamp, and
// returns a JWT token. Unknown username and wrong password are not
// distinguished: both yield ErrInvalidCredentials.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrMissingFields
	}

	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		logger.Log.Errorw("login failed", "username", username)
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logger.Log.Errorw("login failed", "username", username)
		return "", ErrInvalidCredentials
	}

	if err := svc.writer.UpdateLoginTimestamp(ctx, username); err != nil {
		logger.Log.Errorw("failed to update login timestamp", "err", err)
		return "", err
	}

	token, err := svc.jwt.Generate(ctx, user.Username)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}

	return token, nil
}

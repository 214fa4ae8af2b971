package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/gw-messenger/internal/models"
	"github.com/sbilibin2017/gw-messenger/internal/repositories"
	"github.com/sbilibin2017/gw-messenger/internal/services"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		username     string
		password     string
		firstName    string
		lastName     string
		phone        string
		existingUser *models.UserDB
		readerErr    error
		writerErr    error
		wantToken    string
		wantErr      error
	}{
		{
			name:      "successful registration",
			username:  "alice",
			password:  "pass123",
			firstName: "Alice",
			lastName:  "Anderson",
			phone:     "+14155550101",
			wantToken: "token123",
		},
		{
			name:      "missing username",
			password:  "pass123",
			firstName: "Alice",
			lastName:  "Anderson",
			phone:     "+14155550101",
			wantErr:   services.ErrMissingFields,
		},
		{
			name:      "missing phone",
			username:  "alice",
			password:  "pass123",
			firstName: "Alice",
			lastName:  "Anderson",
			wantErr:   services.ErrMissingFields,
		},
		{
			name:         "user already exists",
			username:     "bob",
			password:     "pass123",
			firstName:    "Bob",
			lastName:     "Brown",
			phone:        "+14155550102",
			existingUser: &models.UserDB{Username: "bob"},
			wantErr:      services.ErrUserAlreadyExists,
		},
		{
			name:      "reader error",
			username:  "eve",
			password:  "pass123",
			firstName: "Eve",
			lastName:  "Evans",
			phone:     "+14155550103",
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
		{
			name:      "writer error",
			username:  "carol",
			password:  "pass123",
			firstName: "Carol",
			lastName:  "Clark",
			phone:     "+14155550104",
			writerErr: errors.New("save error"),
			wantErr:   errors.New("save error"),
		},
		{
			// Two registrations race past the existence check; the
			// loser's insert surfaces the taken username
			name:      "insert loses username race",
			username:  "dave",
			password:  "pass123",
			firstName: "Dave",
			lastName:  "Dawson",
			phone:     "+14155550105",
			writerErr: repositories.ErrUsernameTaken,
			wantErr:   services.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockUserReader(ctrl)
			mockWriter := services.NewMockUserWriter(ctrl)
			mockJWT := services.NewMockJWTGenerator(ctrl)

			svc := services.NewAuthService(mockReader, mockWriter, mockJWT, bcrypt.MinCost)

			if !errors.Is(tt.wantErr, services.ErrMissingFields) {
				mockReader.EXPECT().
					GetByUsername(gomock.Any(), tt.username).
					Return(tt.existingUser, tt.readerErr)

				if tt.existingUser == nil && tt.readerErr == nil {
					mockWriter.EXPECT().
						Save(gomock.Any(), tt.username, gomock.Any(), tt.firstName, tt.lastName, tt.phone).
						DoAndReturn(func(_ context.Context, username, hashed, firstName, lastName, phone string) (*models.UserDB, error) {
							if tt.writerErr != nil {
								return nil, tt.writerErr
							}
							// The stored password must be a hash of the plaintext
							assert.NotEqual(t, tt.password, hashed)
							assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte(tt.password)))
							return &models.UserDB{Username: username, Password: hashed}, nil
						})
					if tt.writerErr == nil {
						mockJWT.EXPECT().
							Generate(gomock.Any(), tt.username).
							Return(tt.wantToken, nil)
					}
				}
			}

			token, err := svc.Register(context.Background(), tt.username, tt.password, tt.firstName, tt.lastName, tt.phone)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	password := "secret"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)

	tests := []struct {
		name       string
		username   string
		loginPass  string
		user       *models.UserDB
		readerErr  error
		updateErr  error
		wantToken  string
		wantErr    error
		skipReader bool
	}{
		{
			name:      "successful login",
			username:  "alice",
			loginPass: password,
			user:      &models.UserDB{Username: "alice", Password: string(hashed)},
			wantToken: "token123",
		},
		{
			name:       "missing password",
			username:   "alice",
			wantErr:    services.ErrMissingFields,
			skipReader: true,
		},
		{
			name:      "unknown user",
			username:  "ghost",
			loginPass: password,
			user:      nil,
			wantErr:   services.ErrInvalidCredentials,
		},
		{
			name:      "wrong password",
			username:  "alice",
			loginPass: "nope",
			user:      &models.UserDB{Username: "alice", Password: string(hashed)},
			wantErr:   services.ErrInvalidCredentials,
		},
		{
			name:      "reader error",
			username:  "alice",
			loginPass: password,
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
		{
			name:      "update timestamp error",
			username:  "alice",
			loginPass: password,
			user:      &models.UserDB{Username: "alice", Password: string(hashed)},
			updateErr: errors.New("update error"),
			wantErr:   errors.New("update error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockUserReader(ctrl)
			mockWriter := services.NewMockUserWriter(ctrl)
			mockJWT := services.NewMockJWTGenerator(ctrl)

			svc := services.NewAuthService(mockReader, mockWriter, mockJWT, bcrypt.MinCost)

			if !tt.skipReader {
				mockReader.EXPECT().
					GetByUsername(gomock.Any(), tt.username).
					Return(tt.user, tt.readerErr)

				if tt.readerErr == nil && tt.user != nil && tt.loginPass == password {
					mockWriter.EXPECT().
						UpdateLoginTimestamp(gomock.Any(), tt.username).
						Return(tt.updateErr)
					if tt.updateErr == nil {
						mockJWT.EXPECT().
							Generate(gomock.Any(), tt.username).
							Return(tt.wantToken, nil)
					}
				}
			}

			token, err := svc.Login(context.Background(), tt.username, tt.loginPass)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}
		})
	}
}

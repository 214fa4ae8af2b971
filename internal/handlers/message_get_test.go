package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-messenger/internal/models"
	"github.com/sbilibin2017/gw-messenger/internal/services"
)

func TestMessageGetHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockMessageGetter(ctrl)

	message := &models.Message{
		ID:     42,
		Body:   "hello",
		SentAt: time.Now().UTC(),
		FromUser: models.PublicUser{
			Username: "alice", FirstName: "Alice", LastName: "Anderson", Phone: "+14155550101",
		},
		ToUser: models.PublicUser{
			Username: "bob", FirstName: "Bob", LastName: "Brown", Phone: "+14155550102",
		},
	}

	tests := []struct {
		name         string
		id           string
		requester    string
		mockSetup    func()
		expectedCode int
	}{
		{
			name:      "participant fetches message",
			id:        "42",
			requester: "bob",
			mockSetup: func() {
				mockSvc.EXPECT().
					Get(gomock.Any(), int64(42), "bob").
					Return(message, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:      "third party denied",
			id:        "42",
			requester: "mallory",
			mockSetup: func() {
				mockSvc.EXPECT().
					Get(gomock.Any(), int64(42), "mallory").
					Return(nil, services.ErrNotMessageParticipant)
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:      "unknown message",
			id:        "99",
			requester: "bob",
			mockSetup: func() {
				mockSvc.EXPECT().
					Get(gomock.Any(), int64(99), "bob").
					Return(nil, services.ErrMessageNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "malformed id",
			id:           "not-a-number",
			requester:    "bob",
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := newRequest(http.MethodGet, "/messages/"+tt.id, nil, tt.requester, map[string]string{"id": tt.id})
			rec := httptest.NewRecorder()

			NewMessageGetHandler(mockSvc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)

			if tt.expectedCode == http.StatusOK {
				var got MessageResponse
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, message.ID, got.Message.ID)
				assert.Equal(t, "alice", got.Message.FromUser.Username)
				assert.Equal(t, "bob", got.Message.ToUser.Username)
				assert.Nil(t, got.Message.ReadAt)
			}
		})
	}
}

package update

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subloop-tracker/internal/models"
	"github.com/magabrotheeeer/subloop-tracker/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, id string, req models.DummySubscription) error {
	args := m.Called(ctx, id, req)
	return args.Error(0)
}

const testID = "e7a1f1c0-1111-4222-8333-444455556666"

func validBody() models.DummySubscription {
	return models.DummySubscription{
		Name:            "Spotify",
		Icon:            "music.note",
		Price:           "9.99",
		Currency:        "EUR",
		Category:        "Music",
		NextPaymentDate: "2026-10-01",
		AccentColor:     models.RGB{R: 0.2, G: 0.78, B: 0.35},
	}
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		id             string
		requestBody    any
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "successful update",
			id:          testID,
			requestBody: validBody(),
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, testID, mock.AnythingOfType("models.DummySubscription")).
					Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "invalid id",
			id:             "not-a-uuid",
			requestBody:    validBody(),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid id"`,
		},
		{
			name:           "broken json",
			id:             testID,
			requestBody:    "{broken",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"failed to decode request"`,
		},
		{
			name: "missing name",
			id:   testID,
			requestBody: func() models.DummySubscription {
				b := validBody()
				b.Name = ""
				return b
			}(),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Name is a required field`,
		},
		{
			name:        "subscription already deleted",
			id:          testID,
			requestBody: validBody(),
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, testID, mock.Anything).
					Return(storage.ErrSubscriptionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"subscription not found"`,
		},
		{
			name:        "persistence failure",
			id:          testID,
			requestBody: validBody(),
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, testID, mock.Anything).
					Return(errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to update subscription"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMock(service)

			var body bytes.Buffer
			if s, ok := tt.requestBody.(string); ok {
				body.WriteString(s)
			} else {
				require.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))
			}

			router := chi.NewRouter()
			router.Put("/subscriptions/{id}", New(logger, service).ServeHTTP)

			req := httptest.NewRequest(http.MethodPut, "/subscriptions/"+tt.id, &body)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			service.AssertExpectations(t)
		})
	}
}

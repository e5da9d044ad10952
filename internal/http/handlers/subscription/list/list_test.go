package list

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subloop-tracker/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context) ([]models.Subscription, error) {
	args := m.Called(ctx)
	if subs, ok := args.Get(0).([]models.Subscription); ok {
		return subs, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	subs := []models.Subscription{
		{
			ID:              "e7a1f1c0-1111-4222-8333-444455556666",
			Name:            "Netflix",
			Icon:            "play.tv.fill",
			Price:           15.99,
			Currency:        "USD",
			Category:        "Entertainment",
			NextPaymentDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:              "a1b2c3d4-5555-4666-8777-888899990000",
			Name:            "Spotify",
			Icon:            "music.note",
			Price:           9.99,
			Currency:        "USD",
			Category:        "Music",
			NextPaymentDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   []string
	}{
		{
			name: "returns subscriptions in stored order",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything).Return(subs, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"count":2`, `"Netflix"`, `"Spotify"`},
		},
		{
			name: "empty store returns empty array",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"count":0`, `"subscriptions":[]`},
		},
		{
			name: "storage failure",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   []string{`"error":"failed to list subscriptions"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMock(service)

			req := httptest.NewRequest(http.MethodGet, "/subscriptions", nil)
			rec := httptest.NewRecorder()

			New(logger, service).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			for _, part := range tt.expectedBody {
				assert.Contains(t, rec.Body.String(), part)
			}
			service.AssertExpectations(t)
		})
	}
}

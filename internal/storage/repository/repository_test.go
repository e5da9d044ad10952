package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/subloop-tracker/internal/models"
	"github.com/magabrotheeeer/subloop-tracker/internal/storage"
)

func setupTestDb(t *testing.T) (*storage.Storage, func()) {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var db *storage.Storage
	for range 10 {
		db, err = storage.New(connStr)
		if err == nil {
			err = db.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	// Создаем таблицы
	_, err = db.DB.Exec(`
        CREATE TABLE subscriptions (
            seq SERIAL PRIMARY KEY,
            id UUID NOT NULL UNIQUE,
            name TEXT NOT NULL CHECK (name <> ''),
            icon TEXT NOT NULL DEFAULT 'star.fill',
            price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
            currency TEXT NOT NULL,
            category TEXT NOT NULL,
            next_payment_date DATE NOT NULL,
            accent_red DOUBLE PRECISION NOT NULL CHECK (accent_red >= 0 AND accent_red <= 1),
            accent_green DOUBLE PRECISION NOT NULL CHECK (accent_green >= 0 AND accent_green <= 1),
            accent_blue DOUBLE PRECISION NOT NULL CHECK (accent_blue >= 0 AND accent_blue <= 1)
        );

        CREATE TABLE settings (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL
        );
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		if db != nil && db.DB != nil {
			_ = db.DB.Close()
		}
		_ = container.Terminate(ctx)
	}

	return db, cleanup
}

func makeSubscription(name string, price float64) models.Subscription {
	return models.Subscription{
		ID:              uuid.New().String(),
		Name:            name,
		Icon:            "star.fill",
		Price:           price,
		Currency:        "USD",
		Category:        "Entertainment",
		NextPaymentDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		AccentColor:     models.RGB{R: 1, G: 0.5, B: 0},
	}
}

func TestSubscriptions_CreateAndList(t *testing.T) {
	db, cleanup := setupTestDb(t)
	defer cleanup()

	repo := NewSubscriptions(db)
	ctx := context.Background()

	first := makeSubscription("Netflix", 15.99)
	second := makeSubscription("Spotify", 9.99)
	third := makeSubscription("iCloud", 2.99)

	for _, sub := range []models.Subscription{first, second, third} {
		require.NoError(t, repo.Create(ctx, sub))
	}

	subs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 3)

	// Записи возвращаются в порядке добавления, не по имени или цене.
	assert.Equal(t, "Netflix", subs[0].Name)
	assert.Equal(t, "Spotify", subs[1].Name)
	assert.Equal(t, "iCloud", subs[2].Name)

	assert.Equal(t, first.ID, subs[0].ID)
	assert.InDelta(t, 15.99, subs[0].Price, 0.001)
	assert.Equal(t, "USD", subs[0].Currency)
	assert.Equal(t, "Entertainment", subs[0].Category)
	assert.InDelta(t, 1.0, subs[0].AccentColor.R, 0.0001)
	assert.InDelta(t, 0.5, subs[0].AccentColor.G, 0.0001)
}

func TestSubscriptions_Update(t *testing.T) {
	db, cleanup := setupTestDb(t)
	defer cleanup()

	repo := NewSubscriptions(db)
	ctx := context.Background()

	kept := makeSubscription("Netflix", 15.99)
	changed := makeSubscription("Spotify", 9.99)
	require.NoError(t, repo.Create(ctx, kept))
	require.NoError(t, repo.Create(ctx, changed))

	changed.Name = "Spotify Family"
	changed.Price = 17.99
	changed.Category = "Music"
	require.NoError(t, repo.Update(ctx, changed))

	subs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	// Порядок добавления сохраняется и после правки.
	assert.Equal(t, "Netflix", subs[0].Name)
	assert.InDelta(t, 15.99, subs[0].Price, 0.001)

	assert.Equal(t, "Spotify Family", subs[1].Name)
	assert.InDelta(t, 17.99, subs[1].Price, 0.001)
	assert.Equal(t, "Music", subs[1].Category)
}

func TestSubscriptions_UpdateMissing(t *testing.T) {
	db, cleanup := setupTestDb(t)
	defer cleanup()

	repo := NewSubscriptions(db)

	missing := makeSubscription("Ghost", 1.00)
	err := repo.Update(context.Background(), missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrSubscriptionNotFound))
}

func TestSubscriptions_Remove(t *testing.T) {
	db, cleanup := setupTestDb(t)
	defer cleanup()

	repo := NewSubscriptions(db)
	ctx := context.Background()

	sub := makeSubscription("Netflix", 15.99)
	require.NoError(t, repo.Create(ctx, sub))

	count, err := repo.Remove(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Повторное удаление не ошибка, просто ноль строк.
	count, err = repo.Remove(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	subs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSettings_DisplayCurrency(t *testing.T) {
	db, cleanup := setupTestDb(t)
	defer cleanup()

	repo := NewSettings(db)
	ctx := context.Background()

	// До первого сохранения возвращается валюта по умолчанию.
	code, err := repo.GetDisplayCurrency(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCurrency, code)

	require.NoError(t, repo.SetDisplayCurrency(ctx, "EUR"))
	code, err = repo.GetDisplayCurrency(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EUR", code)

	// Повторное сохранение перезаписывает значение, а не дублирует строку.
	require.NoError(t, repo.SetDisplayCurrency(ctx, "TRY"))
	code, err = repo.GetDisplayCurrency(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TRY", code)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subloop-tracker/internal/models"
	"github.com/magabrotheeeer/subloop-tracker/internal/storage"
)

// displayCurrencyKey — единственная настройка отображения: выбранная валюта.
const displayCurrencyKey = "display_currency"

// Settings реализует хранение пользовательских настроек отображения.
type Settings struct {
	db *storage.Storage
}

// NewSettings создает репозиторий настроек.
func NewSettings(db *storage.Storage) *Settings {
	return &Settings{db: db}
}

// GetDisplayCurrency возвращает код выбранной валюты отображения.
// Пока настройка не сохранена, возвращается валюта по умолчанию.
func (r *Settings) GetDisplayCurrency(ctx context.Context) (string, error) {
	const op = "repository.Settings.GetDisplayCurrency"

	var value string
	err := r.db.DB.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = $1`, displayCurrencyKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultCurrency, nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return value, nil
}

// SetDisplayCurrency сохраняет код выбранной валюты отображения.
func (r *Settings) SetDisplayCurrency(ctx context.Context, code string) error {
	const op = "repository.Settings.SetDisplayCurrency"

	query := `INSERT INTO settings (key, value) VALUES ($1, $2)
			  ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := r.db.DB.ExecContext(ctx, query, displayCurrencyKey, code); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

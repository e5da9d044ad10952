// Package repository содержит SQL-запросы для работы с подписками
// и настройками пользователя поверх storage.Storage.
package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/subloop-tracker/internal/models"
	"github.com/magabrotheeeer/subloop-tracker/internal/storage"
)

// Subscriptions реализует операции хранилища записей.
type Subscriptions struct {
	db *storage.Storage
}

// NewSubscriptions создает репозиторий подписок.
func NewSubscriptions(db *storage.Storage) *Subscriptions {
	return &Subscriptions{db: db}
}

// Create вставляет новую запись подписки. Идентификатор уже назначен
// вызывающей стороной. Вставка — один оператор, то есть либо запись
// видна целиком, либо не видна вовсе.
func (r *Subscriptions) Create(ctx context.Context, sub models.Subscription) error {
	const op = "repository.Subscriptions.Create"

	query := `INSERT INTO subscriptions (id, name, icon, price, currency, category,
			      next_payment_date, accent_red, accent_green, accent_blue)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.DB.ExecContext(ctx, query,
		sub.ID, sub.Name, sub.Icon, sub.Price, sub.Currency, sub.Category,
		sub.NextPaymentDate, sub.AccentColor.R, sub.AccentColor.G, sub.AccentColor.B)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Update заменяет все поля записи, кроме идентификатора.
// Для отсутствующей записи возвращает storage.ErrSubscriptionNotFound.
func (r *Subscriptions) Update(ctx context.Context, sub models.Subscription) error {
	const op = "repository.Subscriptions.Update"

	query := `UPDATE subscriptions
			  SET name = $1, icon = $2, price = $3, currency = $4, category = $5,
			      next_payment_date = $6, accent_red = $7, accent_green = $8, accent_blue = $9
			  WHERE id = $10`
	result, err := r.db.DB.ExecContext(ctx, query,
		sub.Name, sub.Icon, sub.Price, sub.Currency, sub.Category,
		sub.NextPaymentDate, sub.AccentColor.R, sub.AccentColor.G, sub.AccentColor.B, sub.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrSubscriptionNotFound)
	}
	return nil
}

// Remove удаляет подписку по ID и возвращает количество удалённых строк.
// Удаление отсутствующей записи не является ошибкой.
func (r *Subscriptions) Remove(ctx context.Context, id string) (int, error) {
	const op = "repository.Subscriptions.Remove"

	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// List возвращает все подписки в порядке добавления.
// Сортировку для отображения выполняет вызывающая сторона.
func (r *Subscriptions) List(ctx context.Context) ([]models.Subscription, error) {
	const op = "repository.Subscriptions.List"

	query := `SELECT id, name, icon, price, currency, category, next_payment_date,
			      accent_red, accent_green, accent_blue
			  FROM subscriptions
			  ORDER BY seq`
	rows, err := r.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []models.Subscription
	for rows.Next() {
		var item models.Subscription
		if err := rows.Scan(&item.ID, &item.Name, &item.Icon, &item.Price, &item.Currency,
			&item.Category, &item.NextPaymentDate,
			&item.AccentColor.R, &item.AccentColor.G, &item.AccentColor.B); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Package models содержит доменные структуры, описывающие подписку пользователя,
// а также вспомогательные типы для приёма данных из внешних источников (JSON-запросы).
package models

import "time"

// Subscription представляет собой основную модель подписки,
// используемую в бизнес-логике и хранилище.
// Поле ID генерируется при создании и не изменяется на протяжении жизни записи.
// NextPaymentDate хранится как дата, компонент времени игнорируется логикой.
type Subscription struct {
	ID              string    `json:"id"`                // Уникальный идентификатор (uuid)
	Name            string    `json:"name"`              // Название сервиса подписки
	Icon            string    `json:"icon"`              // Ключ иконки для отображения
	Price           float64   `json:"price"`             // Цена подписки за месяц
	Currency        string    `json:"currency"`          // Валюта цены (USD, EUR, GBP, TRY)
	Category        string    `json:"category"`          // Категория подписки
	NextPaymentDate time.Time `json:"next_payment_date"` // Дата следующего платежа
	AccentColor     RGB       `json:"accent_color"`      // Акцентный цвет записи
}

// RGB хранит цвет как три нормализованных канала (0.0–1.0).
// Каналы сохраняются в хранилище отдельными полями,
// чтобы представление не зависело от платформенного типа цвета.
type RGB struct {
	R float64 `json:"r" validate:"gte=0,lte=1"`
	G float64 `json:"g" validate:"gte=0,lte=1"`
	B float64 `json:"b" validate:"gte=0,lte=1"`
}

// DummySubscription используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Subscription.
// Цена и дата приходят строками, чтобы их можно было валидировать и парсить вручную.
type DummySubscription struct {
	Name            string `json:"name" validate:"required"`                           // Название сервиса
	Icon            string `json:"icon"`                                               // Ключ иконки, по умолчанию "star.fill"
	Price           string `json:"price" validate:"required"`                          // Цена, неотрицательное число
	Currency        string `json:"currency" validate:"required,oneof=USD EUR GBP TRY"` // Валюта
	Category        string `json:"category" validate:"required"`                       // Категория, проверяется по списку категорий
	NextPaymentDate string `json:"next_payment_date" validate:"required"`              // Дата в формате 2006-01-02
	AccentColor     RGB    `json:"accent_color"`                                       // Акцентный цвет
}

// Типы команд напоминаний.
const (
	ReminderSchedule = "schedule"
	ReminderCancel   = "cancel"
)

// ReminderCommand публикуется планировщиком напоминаний в RabbitMQ
// и потребляется сервисом доставки. Все команды идут через одну очередь,
// чтобы schedule и cancel для одной подписки обрабатывались в порядке
// публикации. Для команды cancel заполняются только Type и ID.
type ReminderCommand struct {
	Type     string    `json:"type"`
	ID       string    `json:"id"`
	Name     string    `json:"name,omitempty"`
	Price    float64   `json:"price,omitempty"`
	Currency string    `json:"currency,omitempty"`
	FireAt   time.Time `json:"fire_at,omitempty"`
}

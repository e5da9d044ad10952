// Package analytics строит сводку расходов для главного экрана:
// общую месячную сумму и разбивку по категориям для диаграммы.
// Сводка — чистая производная от текущего набора записей; она кешируется
// в Redis и инвалидируется сервисом записей при любой мутации.
package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subloop-tracker/internal/lib/moneyfmt"
	"github.com/magabrotheeeer/subloop-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subloop-tracker/internal/lib/spending"
	"github.com/magabrotheeeer/subloop-tracker/internal/models"
	subservice "github.com/magabrotheeeer/subloop-tracker/internal/services/subscription"
)

// summaryTTL ограничивает жизнь кешированной сводки на случай,
// если инвалидация по какой-то причине не дошла до Redis.
const summaryTTL = time.Hour

// Summary — агрегированная сводка расходов.
// Суммы в разных валютах складываются без конвертации; валюта отображения
// влияет только на форматирование TotalFormatted.
type Summary struct {
	Total           float64                  `json:"total"`
	TotalFormatted  string                   `json:"total_formatted"`
	DisplayCurrency string                   `json:"display_currency"`
	Count           int                      `json:"count"`
	Categories      []spending.CategoryTotal `json:"categories"`
}

// Repository определяет чтение записей для агрегации.
type Repository interface {
	List(ctx context.Context) ([]models.Subscription, error)
}

// SettingsRepository читает валюту отображения.
type SettingsRepository interface {
	GetDisplayCurrency(ctx context.Context) (string, error)
}

// Cache описывает методы для кеширования сводки.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Service отдаёт сводку расходов, используя кеш или хранилище.
type Service struct {
	repo     Repository
	settings SettingsRepository
	cache    Cache
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, settings SettingsRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		settings: settings,
		cache:    cache,
		log:      log,
	}
}

// Summary возвращает сводку расходов по текущему набору записей.
// Кеш — только ускорение: при промахе сводка пересчитывается заново.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var cached Summary
	found, err := s.cache.Get(subservice.SummaryCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read summary cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	currency, err := s.settings.GetDisplayCurrency(ctx)
	if err != nil {
		s.log.Warn("failed to read display currency, using default", sl.Err(err))
		currency = models.DefaultCurrency
	}

	total := spending.TotalMonthly(subs)
	summary := &Summary{
		Total:           total,
		TotalFormatted:  moneyfmt.Format(total, currency),
		DisplayCurrency: currency,
		Count:           len(subs),
		Categories:      spending.ByCategory(subs),
	}

	if err := s.cache.Set(subservice.SummaryCacheKey, summary, summaryTTL); err != nil {
		s.log.Warn("failed to cache summary", sl.Err(err))
	}
	return summary, nil
}

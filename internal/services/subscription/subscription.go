// Package subscription содержит бизнес-логику жизненного цикла записи:
// валидацию полей формы, назначение идентификатора, сохранение,
// уведомление планировщика напоминаний и инвалидацию кеша сводки.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/subloop-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subloop-tracker/internal/models"
)

// ErrValidation помечает ошибки проверки входных данных.
// Такие ошибки возвращаются до любого обращения к хранилищу.
var ErrValidation = errors.New("validation failed")

// SummaryCacheKey — ключ кешированной сводки расходов, инвалидируется
// при каждом изменении записей.
const SummaryCacheKey = "analytics:summary"

// dateLayout — формат даты платежа в запросах.
const dateLayout = "2006-01-02"

// defaultIcon назначается, если форма не передала иконку.
const defaultIcon = "star.fill"

var mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "subloop_subscription_mutations_total",
	Help: "Number of subscription record mutations by operation.",
}, []string{"op"})

// Repository определяет операции хранилища записей.
type Repository interface {
	// Create сохраняет новую запись целиком.
	Create(ctx context.Context, sub models.Subscription) error
	// Update заменяет все поля записи, кроме ID.
	Update(ctx context.Context, sub models.Subscription) error
	// Remove удаляет запись и возвращает число удалённых строк.
	Remove(ctx context.Context, id string) (int, error)
	// List возвращает все записи в порядке добавления.
	List(ctx context.Context) ([]models.Subscription, error)
}

// Cache описывает методы для инвалидации кешированной сводки.
type Cache interface {
	Invalidate(key string) error
}

// ReminderScheduler — внешняя способность планирования напоминаний.
// Вызовы безопасны в любом состоянии и никогда не возвращают ошибку:
// сбои планировщика не должны влиять на изменение записей.
type ReminderScheduler interface {
	Schedule(sub models.Subscription)
	Reschedule(sub models.Subscription)
	Cancel(id string)
}

// Service реализует жизненный цикл записей подписок.
type Service struct {
	repo      Repository
	cache     Cache
	reminders ReminderScheduler
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, reminders ReminderScheduler, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		reminders: reminders,
		log:       log,
	}
}

// convert проверяет поля формы и собирает доменную запись.
// Любая ошибка здесь — ErrValidation: до хранилища такие данные не доходят.
func convert(req models.DummySubscription) (models.Subscription, error) {
	if req.Name == "" {
		return models.Subscription{}, fmt.Errorf("%w: name must not be empty", ErrValidation)
	}

	price, err := strconv.ParseFloat(req.Price, 64)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%w: price is not a number", ErrValidation)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return models.Subscription{}, fmt.Errorf("%w: price must be a non-negative number", ErrValidation)
	}

	if !models.ValidCurrency(req.Currency) {
		return models.Subscription{}, fmt.Errorf("%w: unknown currency %q", ErrValidation, req.Currency)
	}
	if !models.ValidCategory(req.Category) {
		return models.Subscription{}, fmt.Errorf("%w: unknown category %q", ErrValidation, req.Category)
	}

	nextPaymentDate, err := time.Parse(dateLayout, req.NextPaymentDate)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%w: next_payment_date must be in format %s", ErrValidation, dateLayout)
	}

	for _, channel := range []float64{req.AccentColor.R, req.AccentColor.G, req.AccentColor.B} {
		if channel < 0 || channel > 1 {
			return models.Subscription{}, fmt.Errorf("%w: accent color channels must be within 0.0-1.0", ErrValidation)
		}
	}

	icon := req.Icon
	if icon == "" {
		icon = defaultIcon
	}

	return models.Subscription{
		Name:            req.Name,
		Icon:            icon,
		Price:           price,
		Currency:        req.Currency,
		Category:        req.Category,
		NextPaymentDate: nextPaymentDate,
		AccentColor:     req.AccentColor,
	}, nil
}

// Create проверяет данные формы, назначает ID, сохраняет запись,
// планирует напоминание и инвалидирует кеш сводки. Возвращает ID записи.
func (s *Service) Create(ctx context.Context, req models.DummySubscription) (string, error) {
	sub, err := convert(req)
	if err != nil {
		return "", err
	}
	sub.ID = uuid.New().String()

	if err := s.repo.Create(ctx, sub); err != nil {
		return "", err
	}
	s.log.Info("created new subscription", slog.String("id", sub.ID))
	mutationsTotal.WithLabelValues("create").Inc()

	s.reminders.Schedule(sub)
	s.invalidateSummary()

	return sub.ID, nil
}

// Update заменяет все поля записи с данным ID и перепланирует напоминание.
// Для отсутствующей записи возвращается ошибка хранилища NotFound,
// которую вызывающая сторона трактует как no-op, а не как сбой.
func (s *Service) Update(ctx context.Context, id string, req models.DummySubscription) error {
	sub, err := convert(req)
	if err != nil {
		return err
	}
	sub.ID = id

	if err := s.repo.Update(ctx, sub); err != nil {
		return err
	}
	s.log.Info("updated subscription", slog.String("id", sub.ID))
	mutationsTotal.WithLabelValues("update").Inc()

	s.reminders.Reschedule(sub)
	s.invalidateSummary()

	return nil
}

// Remove удаляет запись и отменяет её напоминание.
// Удаление отсутствующей записи не является ошибкой.
func (s *Service) Remove(ctx context.Context, id string) error {
	count, err := s.repo.Remove(ctx, id)
	if err != nil {
		return err
	}
	s.log.Info("deleted subscription", slog.String("id", id), slog.Int("count", count))
	mutationsTotal.WithLabelValues("delete").Inc()

	s.reminders.Cancel(id)
	s.invalidateSummary()

	return nil
}

// List возвращает все записи в порядке добавления.
func (s *Service) List(ctx context.Context) ([]models.Subscription, error) {
	return s.repo.List(ctx)
}

func (s *Service) invalidateSummary() {
	if err := s.cache.Invalidate(SummaryCacheKey); err != nil {
		s.log.Warn("failed to invalidate summary cache", sl.Err(err))
	}
}

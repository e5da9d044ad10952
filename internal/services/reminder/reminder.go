// Package reminder реализует планировщик напоминаний о платежах.
// Сервис записей сообщает ему о создании, изменении и удалении подписок,
// а планировщик публикует команды schedule/cancel в RabbitMQ,
// где их подхватывает сервис доставки.
//
// Контракт планировщика: ошибки публикации и отсутствие подключения к брокеру
// молча поглощаются — напоминания никогда не блокируют изменение записей
// и не показываются пользователю как ошибка.
package reminder

import (
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/subloop-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subloop-tracker/internal/lib/trigger"
	"github.com/magabrotheeeer/subloop-tracker/internal/models"
	"github.com/magabrotheeeer/subloop-tracker/internal/rabbitmq"

	"github.com/streadway/amqp"
)

// Publisher публикует команду напоминания с заданным routing key.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// AMQPPublisher публикует команды в exchange напоминаний.
type AMQPPublisher struct {
	Ch *amqp.Channel
}

// Publish отправляет сообщение в exchange напоминаний.
func (p *AMQPPublisher) Publish(routingKey string, message any) error {
	return rabbitmq.PublishMessage(p.Ch, rabbitmq.Exchange, routingKey, message)
}

// Scheduler планирует одноразовые напоминания, привязанные к ID подписки.
// Подключение к брокеру устанавливается асинхронно при старте приложения:
// пока publisher не назначен, все вызовы — безопасные no-op.
type Scheduler struct {
	log *slog.Logger
	loc *time.Location
	now func() time.Time

	mu  sync.RWMutex
	pub Publisher
}

// NewScheduler создает планировщик без подключения к брокеру.
func NewScheduler(log *slog.Logger, loc *time.Location) *Scheduler {
	return &Scheduler{
		log: log,
		loc: loc,
		now: time.Now,
	}
}

// SetPublisher подключает планировщик к брокеру.
// Вызывается из фоновой горутины после установления соединения.
func (s *Scheduler) SetPublisher(pub Publisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pub = pub
}

func (s *Scheduler) publisher() Publisher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pub
}

// Schedule планирует напоминание: 09:00 локального времени за один день
// до даты платежа. Момент в прошлом не планируется, это не ошибка.
func (s *Scheduler) Schedule(sub models.Subscription) {
	pub := s.publisher()
	if pub == nil {
		s.log.Debug("reminder broker not connected, skipping schedule", slog.String("id", sub.ID))
		return
	}

	fireAt := trigger.At(sub.NextPaymentDate, s.loc)
	if !trigger.Due(fireAt, s.now()) {
		s.log.Debug("reminder trigger already past, skipping",
			slog.String("id", sub.ID), slog.Time("fire_at", fireAt))
		return
	}

	cmd := models.ReminderCommand{
		Type:     models.ReminderSchedule,
		ID:       sub.ID,
		Name:     sub.Name,
		Price:    sub.Price,
		Currency: sub.Currency,
		FireAt:   fireAt,
	}
	if err := pub.Publish(rabbitmq.CommandKey, cmd); err != nil {
		s.log.Warn("failed to publish schedule command", sl.Err(err))
		return
	}
	s.log.Info("scheduled payment reminder",
		slog.String("id", sub.ID), slog.Time("fire_at", fireAt))
}

// Reschedule отменяет текущее напоминание и планирует новое.
// Обе команды публикуются в одну очередь, поэтому cancel
// не может обогнать следующий за ним schedule.
func (s *Scheduler) Reschedule(sub models.Subscription) {
	s.Cancel(sub.ID)
	s.Schedule(sub)
}

// Cancel отменяет напоминание по ID подписки.
func (s *Scheduler) Cancel(id string) {
	pub := s.publisher()
	if pub == nil {
		s.log.Debug("reminder broker not connected, skipping cancel", slog.String("id", id))
		return
	}

	cmd := models.ReminderCommand{Type: models.ReminderCancel, ID: id}
	if err := pub.Publish(rabbitmq.CommandKey, cmd); err != nil {
		s.log.Warn("failed to publish cancel command", sl.Err(err))
		return
	}
	s.log.Info("cancelled payment reminder", slog.String("id", id))
}

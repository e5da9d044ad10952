// Package sender реализует доставку напоминаний о платежах.
// Сервис потребляет команды schedule/cancel из общей очереди RabbitMQ,
// держит по одному отложенному таймеру на подписку и в момент срабатывания
// отправляет письмо владельцу. Команда schedule для уже известного ID
// заменяет отложенное напоминание — доставка идемпотентна по ID.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/subloop-tracker/internal/lib/moneyfmt"
	"github.com/magabrotheeeer/subloop-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subloop-tracker/internal/models"
)

// Mailer отправляет одно письмо.
type Mailer interface {
	Send(to, subject, body string) error
}

// armedReminder — взведённый таймер и номер поколения.
// Поколение растёт с каждой командой schedule: сработавший таймер
// имеет право снять и доставить только своё поколение, чтобы не
// затронуть напоминание, перевзведённое между срабатыванием и
// захватом мьютекса.
type armedReminder struct {
	timer *time.Timer
	gen   uint64
}

// SenderService держит отложенные напоминания и доставляет их по таймеру.
type SenderService struct {
	mailer    Mailer
	recipient string
	log       *slog.Logger

	mu      sync.Mutex
	lastGen uint64
	pending map[string]armedReminder
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(mailer Mailer, recipient string, log *slog.Logger) *SenderService {
	return &SenderService{
		mailer:    mailer,
		recipient: recipient,
		log:       log,
		pending:   make(map[string]armedReminder),
	}
}

// HandleCommand обрабатывает одну команду из очереди напоминаний.
// Команды одной подписки приходят в порядке публикации, поэтому cancel
// после reschedule никогда не снимает только что перевзведённое напоминание.
func (s *SenderService) HandleCommand(body []byte) error {
	var cmd models.ReminderCommand
	if err := json.Unmarshal(body, &cmd); err != nil {
		return fmt.Errorf("error unmarshalling reminder command: %w", err)
	}

	switch cmd.Type {
	case models.ReminderSchedule:
		s.schedule(cmd)
	case models.ReminderCancel:
		s.cancel(cmd.ID)
	default:
		return fmt.Errorf("unknown reminder command type %q", cmd.Type)
	}
	return nil
}

// schedule взводит таймер напоминания. Просроченные команды пропускаются:
// напоминание о прошедшем моменте не доставляется.
func (s *SenderService) schedule(cmd models.ReminderCommand) {
	delay := time.Until(cmd.FireAt)
	if delay <= 0 {
		s.log.Info("reminder already expired, dropping",
			slog.String("id", cmd.ID), slog.Time("fire_at", cmd.FireAt))
		s.cancel(cmd.ID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.pending[cmd.ID]; ok {
		old.timer.Stop()
	}
	s.lastGen++
	gen := s.lastGen
	s.pending[cmd.ID] = armedReminder{
		timer: time.AfterFunc(delay, func() { s.fire(cmd, gen) }),
		gen:   gen,
	}
	s.log.Info("reminder armed", slog.String("id", cmd.ID), slog.Time("fire_at", cmd.FireAt))
}

// cancel снимает отложенное напоминание. Неизвестный ID не является ошибкой.
func (s *SenderService) cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if armed, ok := s.pending[id]; ok {
		armed.timer.Stop()
		delete(s.pending, id)
		s.log.Info("reminder cancelled", slog.String("id", id))
	}
}

// Pending возвращает количество отложенных напоминаний.
func (s *SenderService) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// fire доставляет напоминание своего поколения. Если запись к этому
// моменту перевзведена или снята, устаревшее срабатывание игнорируется.
func (s *SenderService) fire(cmd models.ReminderCommand, gen uint64) {
	s.mu.Lock()
	armed, ok := s.pending[cmd.ID]
	if !ok || armed.gen != gen {
		s.mu.Unlock()
		s.log.Debug("stale reminder firing ignored", slog.String("id", cmd.ID))
		return
	}
	delete(s.pending, cmd.ID)
	s.mu.Unlock()

	subject := "Payment Reminder"
	body := fmt.Sprintf("Your %s subscription is due tomorrow (%s).",
		cmd.Name, moneyfmt.Format(cmd.Price, cmd.Currency))

	if err := s.mailer.Send(s.recipient, subject, body); err != nil {
		s.log.Error("failed to deliver reminder", slog.String("id", cmd.ID), sl.Err(err))
		return
	}
	s.log.Info("reminder delivered", slog.String("id", cmd.ID))
}

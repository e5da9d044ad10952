package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Exchange и очередь команд напоминаний. Планировщик публикует команды
// schedule/cancel, сервис доставки потребляет их. Очередь одна на все
// типы команд: RabbitMQ гарантирует порядок только внутри одной очереди,
// а cancel не должен обгонять schedule той же подписки.
const (
	Exchange     = "reminders"
	CommandKey   = "command"
	CommandQueue = "reminders.commands"
)

// SetupChannel открывает канал и объявляет exchange с очередью команд.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	_, err = ch.QueueDeclare(
		CommandQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, CommandQueue, err)
	}
	if err = ch.QueueBind(CommandQueue, CommandKey, Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("%s: failed to bind queue %s: %w", op, CommandQueue, err)
	}
	return ch, nil
}

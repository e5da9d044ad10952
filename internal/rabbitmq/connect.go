// Package rabbitmq содержит подключение к брокеру, настройку очередей
// команд напоминаний, публикацию и потребление сообщений.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Connect подключается к RabbitMQ с повторными попытками.
// Брокер может стартовать позже сервисов, поэтому первые неудачные
// попытки — ожидаемое состояние, а не ошибка.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	var err error

	for range retries {
		var conn *amqp.Connection
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: broker unreachable after %d attempts: %w", op, retries, err)
}

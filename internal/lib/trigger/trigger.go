// Package trigger вычисляет момент срабатывания напоминания о платеже.
package trigger

import "time"

// reminderHour — напоминания всегда отправляются в 09:00 локального времени.
const reminderHour = 9

// At возвращает момент срабатывания напоминания для даты платежа:
// 09:00 локального времени за один календарный день до платежа.
// Компонент времени в nextPaymentDate игнорируется.
func At(nextPaymentDate time.Time, loc *time.Location) time.Time {
	day := time.Date(nextPaymentDate.Year(), nextPaymentDate.Month(), nextPaymentDate.Day(),
		reminderHour, 0, 0, 0, loc)
	return day.AddDate(0, 0, -1)
}

// Due сообщает, нужно ли вообще планировать напоминание:
// момент в прошлом или прямо сейчас не планируется (это не ошибка).
func Due(fireAt, now time.Time) bool {
	return fireAt.After(now)
}

// Package moneyfmt форматирует денежные суммы с символом валюты отображения.
// Конвертация валют не выполняется: символ — единственное, на что влияет
// выбранная пользователем валюта.
package moneyfmt

import (
	"fmt"

	"github.com/magabrotheeeer/subloop-tracker/internal/models"
)

// Format возвращает сумму с символом валюты и двумя знаками после запятой,
// например "$15.99". Неизвестный код валюты форматируется символом USD.
func Format(amount float64, currencyCode string) string {
	currency := models.CurrencyByCode(currencyCode)
	return fmt.Sprintf("%s%.2f", currency.Symbol, amount)
}

package models

// Currency описывает одну из поддерживаемых валют отображения.
// Набор фиксированный, конвертация между валютами не выполняется:
// валюта влияет только на символ и подпись при форматировании.
type Currency struct {
	Code   string // Код валюты (USD, EUR, GBP, TRY)
	Symbol string // Символ для форматирования сумм
	Name   string // Отображаемое название
}

// Currencies перечисляет поддерживаемые валюты в порядке отображения.
var Currencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "TRY", Symbol: "₺", Name: "Turkish Lira"},
}

// DefaultCurrency используется, пока пользователь не выбрал валюту отображения.
const DefaultCurrency = "USD"

// CurrencyByCode возвращает валюту по коду.
// Для неизвестного кода возвращается валюта по умолчанию (USD).
func CurrencyByCode(code string) Currency {
	for _, c := range Currencies {
		if c.Code == code {
			return c
		}
	}
	return Currencies[0]
}

// ValidCurrency проверяет, входит ли код в набор поддерживаемых валют.
func ValidCurrency(code string) bool {
	for _, c := range Currencies {
		if c.Code == code {
			return true
		}
	}
	return false
}

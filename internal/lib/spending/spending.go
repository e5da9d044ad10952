// Package spending реализует чистые функции агрегации расходов по подпискам:
// общую месячную сумму и разбивку по категориям для диаграммы.
// Функции не имеют состояния и пересчитываются при каждом вызове —
// количество записей небольшое, кэширование здесь не нужно.
package spending

import (
	"hash/fnv"
	"sort"

	"github.com/magabrotheeeer/subloop-tracker/internal/models"
)

// CategoryTotal одна строка разбивки по категориям.
// Share заполняется долей от общей суммы (0.0–1.0) только когда общая сумма
// положительна; при пустом наборе записей строки не формируются вовсе.
type CategoryTotal struct {
	Category string     `json:"category"`
	Amount   float64    `json:"amount"`
	Share    float64    `json:"share"`
	Color    models.RGB `json:"color"`
}

// palette — фиксированный набор цветов для категорий, перенесён из оригинального
// интерфейса. Цвет категории чисто косметический и не несёт смысловой нагрузки.
var palette = []models.RGB{
	{R: 0.4, G: 0.7, B: 1.0},
	{R: 0.6, G: 0.4, B: 1.0},
	{R: 0.5, G: 0.8, B: 1.0},
	{R: 0.7, G: 0.3, B: 1.0},
	{R: 0.3, G: 0.6, B: 0.9},
	{R: 0.5, G: 0.0, B: 0.5},
	{R: 1.0, G: 0.75, B: 0.8},
	{R: 0.0, G: 0.0, B: 1.0},
}

// TotalMonthly возвращает сумму цен всех подписок.
// Цены в разных валютах складываются как числа без конвертации:
// валюта отображения влияет только на символ при форматировании.
func TotalMonthly(subs []models.Subscription) float64 {
	var total float64
	for _, s := range subs {
		total += s.Price
	}
	return total
}

// ByCategory группирует подписки по категориям и возвращает строки разбивки,
// отсортированные по убыванию суммы. При равных суммах порядок определяется
// названием категории по возрастанию, чтобы результат был детерминированным.
func ByCategory(subs []models.Subscription) []CategoryTotal {
	if len(subs) == 0 {
		return nil
	}

	sums := make(map[string]float64)
	for _, s := range subs {
		sums[s.Category] += s.Price
	}

	total := TotalMonthly(subs)
	result := make([]CategoryTotal, 0, len(sums))
	for category, amount := range sums {
		row := CategoryTotal{
			Category: category,
			Amount:   amount,
			Color:    CategoryColor(category),
		}
		if total > 0 {
			row.Share = amount / total
		}
		result = append(result, row)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Amount != result[j].Amount {
			return result[i].Amount > result[j].Amount
		}
		return result[i].Category < result[j].Category
	})
	return result
}

// CategoryColor возвращает цвет категории из палитры.
// Используется fnv-хэш от названия, поэтому одна и та же категория
// всегда получает один и тот же цвет, в том числе между запусками.
func CategoryColor(category string) models.RGB {
	h := fnv.New32a()
	h.Write([]byte(category))
	return palette[h.Sum32()%uint32(len(palette))]
}

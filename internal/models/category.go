package models

// Categories перечисляет фиксированный набор категорий подписок.
var Categories = []string{
	"Entertainment",
	"Productivity",
	"Cloud Storage",
	"Music",
	"Gaming",
	"Fitness",
	"News",
	"Education",
	"Other",
}

// ValidCategory проверяет, входит ли значение в набор категорий.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

package model

import (
	"strings"
	"time"
)

// NormalizePhone приводит телефон к единому виду: убирает пробелы, скобки
// и дефисы, российский префикс 8 заменяет на +7. По нормализованному значению
// работает уникальность телефона в рамках мастера
func NormalizePhone(phone string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '(', ')', '-':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))

	if len(cleaned) == 11 && strings.HasPrefix(cleaned, "8") {
		return "+7" + cleaned[1:]
	}

	return cleaned
}

// Client представляет клиента мастера.
// Агрегаты TotalVisits/TotalSpent/LastVisit обновляет только движок записей
// при завершении визита
type Client struct {
	ID          int64      `json:"id"`
	MasterID    int64      `json:"master_id"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"` // нормализованный +<код страны><цифры>, уникален в рамках мастера
	TotalVisits int        `json:"total_visits"`
	TotalSpent  int        `json:"total_spent"`
	LastVisit   *time.Time `json:"last_visit"`
	CreatedAt   time.Time  `json:"created_at"`
}

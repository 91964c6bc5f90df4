package model

import "time"

// Границы длительности и цены услуги
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480
	MaxServicePrice           = 1_000_000
)

// Service представляет услугу мастера.
// Изменение цены или длительности не трогает уже созданные записи:
// запись фиксирует интервал при создании, а сумму — при завершении
type Service struct {
	ID              int64     `json:"id"`
	MasterID        int64     `json:"master_id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"` // 5–480, кратно 5
	Price           int       `json:"price"`            // 0–1 000 000, целые рубли
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// Duration длительность услуги
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// RoundDuration округляет длительность к ближайшим 5 минутам
func RoundDuration(minutes int) int {
	return (minutes + 2) / 5 * 5
}

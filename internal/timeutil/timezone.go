package timeutil

import (
	"fmt"
	"time"
)

// Resolver переводит IANA-имя часового пояса мастера в *time.Location.
// Пустое или неизвестное имя откатывается на пояс по умолчанию — показ
// расписания не должен ломаться из-за битого значения в профиле
type Resolver struct {
	fallback *time.Location
}

// NewResolver создаёт резолвер с поясом по умолчанию.
// Если сам пояс по умолчанию неизвестен базе IANA — это ошибка конфигурации
func NewResolver(defaultName string) (*Resolver, error) {
	loc, err := time.LoadLocation(defaultName)
	if err != nil {
		return nil, fmt.Errorf("load default timezone %q: %w", defaultName, err)
	}
	return &Resolver{fallback: loc}, nil
}

// Resolve возвращает пояс по имени либо пояс по умолчанию
func (r *Resolver) Resolve(name string) *time.Location {
	if name == "" {
		return r.fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return r.fallback
	}
	return loc
}

// Validate проверяет, что имя пояса известно базе IANA.
// Пустое имя отклоняется: LoadLocation молча вернул бы UTC
func (r *Resolver) Validate(name string) error {
	if name == "" {
		return fmt.Errorf("empty timezone name")
	}
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return nil
}

// DayStart локальная полночь суток, которым принадлежит t в поясе loc
func DayStart(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// DayKey календарная дата суток в поясе loc, формат YYYY-MM-DD.
// Используется как ключ группировки расписания по дням
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// LocalDayRange переводит отрезок локальных дат [from, to] в полуинтервал
// мгновений [начало суток from, начало суток после to) для запросов к хранилищу
func LocalDayRange(from, to time.Time, loc *time.Location) (time.Time, time.Time) {
	start := DayStart(from, loc)
	end := DayStart(to, loc).AddDate(0, 0, 1)
	return start, end
}

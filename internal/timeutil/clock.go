package timeutil

import "time"

// Clock источник текущего времени. Движки получают его через конструктор,
// в тестах подменяется фиксированными часами
type Clock interface {
	Now() time.Time
}

// SystemClock системные часы
type SystemClock struct{}

// Now возвращает текущее время
func (SystemClock) Now() time.Time {
	return time.Now()
}

package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// commandArgs отрезает саму команду и возвращает хвост сообщения
func commandArgs(text string) string {
	parts := strings.SplitN(text, " ", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// splitFields разбирает аргументы вида "Маникюр | 90 | 1500".
// Разделитель «|» позволяет пробелы внутри значений
func splitFields(args string) []string {
	raw := strings.Split(args, "|")
	fields := make([]string, 0, len(raw))
	for _, f := range raw {
		fields = append(fields, strings.TrimSpace(f))
	}
	return fields
}

// parseID разбирает числовой идентификатор из аргумента
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("bad id %q", arg)
	}
	return id, nil
}

// Принимаемые форматы даты и времени записи
var dateTimeLayouts = []string{
	"02.01.2006 15:04",
	"02.01 15:04",
}

// parseDateTime разбирает дату и время в поясе loc.
// Формат без года подставляет текущий год по часам clock
func (h *Handlers) parseDateTime(arg string, loc *time.Location) (time.Time, error) {
	arg = strings.TrimSpace(arg)

	for _, layout := range dateTimeLayouts {
		t, err := time.ParseInLocation(layout, arg, loc)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			now := h.clock.Now().In(loc)
			t = time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("bad datetime %q", arg)
}

// parseDate разбирает дату без времени в поясе loc
func (h *Handlers) parseDate(arg string, loc *time.Location) (time.Time, error) {
	arg = strings.TrimSpace(arg)

	for _, layout := range []string{"02.01.2006", "02.01"} {
		t, err := time.ParseInLocation(layout, arg, loc)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			now := h.clock.Now().In(loc)
			t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("bad date %q", arg)
}

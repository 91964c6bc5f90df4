package format

import (
	"fmt"
	"time"

	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
)

// Price форматирует цену в целых рублях
func Price(price int) string {
	return fmt.Sprintf("%d ₽", price)
}

// Date форматирует дату
func Date(t time.Time) string {
	return t.Format("02.01.2006")
}

// DateWithWeekday форматирует дату с русским днём недели
func DateWithWeekday(t time.Time) string {
	return fmt.Sprintf("%s (%s)", t.Format("02.01.2006"), WeekdayName(t.Weekday()))
}

// Time форматирует только время
func Time(t time.Time) string {
	return t.Format("15:04")
}

// TimeRange форматирует интервал времени
func TimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s–%s", start.Format("15:04"), end.Format("15:04"))
}

// Duration форматирует длительность в минутах
func Duration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

// WeekdayName возвращает название дня недели на русском
func WeekdayName(weekday time.Weekday) string {
	names := []string{
		"Воскресенье",
		"Понедельник",
		"Вторник",
		"Среда",
		"Четверг",
		"Пятница",
		"Суббота",
	}
	return names[int(weekday)%len(names)]
}

// StatusDisplay emoji и подпись статуса записи
type StatusDisplay struct {
	Emoji string
	Text  string
}

// AppointmentStatus возвращает отображение статуса записи
func AppointmentStatus(status model.AppointmentStatus) StatusDisplay {
	displays := map[model.AppointmentStatus]StatusDisplay{
		model.AppointmentStatusScheduled: {"🕐", "Запланирована"},
		model.AppointmentStatusConfirmed: {"✅", "Подтверждена"},
		model.AppointmentStatusCompleted: {"✔️", "Завершена"},
		model.AppointmentStatusNoShow:    {"🚫", "Неявка"},
		model.AppointmentStatusCancelled: {"❌", "Отменена"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// PluralizeAppointments склоняет слово "запись" по числу
func PluralizeAppointments(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "запись"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "записи"
	}
	return "записей"
}

// PluralizeClients склоняет слово "клиент" по числу
func PluralizeClients(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "клиент"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "клиента"
	}
	return "клиентов"
}

// PluralizeDays склоняет слово "день" по числу
func PluralizeDays(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "день"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "дня"
	}
	return "дней"
}

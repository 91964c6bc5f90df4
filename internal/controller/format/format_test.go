package format

import (
	"testing"
	"time"

	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	assert.Equal(t, "1500 ₽", Price(1500))
	assert.Equal(t, "0 ₽", Price(0))
}

func TestDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{30, "30 мин"},
		{60, "1 ч"},
		{90, "1 ч 30 мин"},
		{120, "2 ч"},
		{125, "2 ч 5 мин"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Duration(tt.minutes))
	}
}

func TestDateWithWeekday(t *testing.T) {
	// 16.06.2025 это понедельник
	monday := time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "16.06.2025 (Понедельник)", DateWithWeekday(monday))

	sunday := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "15.06.2025 (Воскресенье)", DateWithWeekday(sunday))
}

func TestTimeRange(t *testing.T) {
	start := time.Date(2025, 6, 16, 15, 30, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	assert.Equal(t, "15:30–17:00", TimeRange(start, end))
}

func TestAppointmentStatus(t *testing.T) {
	assert.Equal(t, StatusDisplay{"🕐", "Запланирована"}, AppointmentStatus(model.AppointmentStatusScheduled))
	assert.Equal(t, StatusDisplay{"✅", "Подтверждена"}, AppointmentStatus(model.AppointmentStatusConfirmed))
	assert.Equal(t, StatusDisplay{"❓", "Неизвестно"}, AppointmentStatus(model.AppointmentStatus("garbage")))
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		count        int
		appointments string
		clients      string
		days         string
	}{
		{1, "запись", "клиент", "день"},
		{2, "записи", "клиента", "дня"},
		{5, "записей", "клиентов", "дней"},
		{11, "записей", "клиентов", "дней"},
		{21, "запись", "клиент", "день"},
		{104, "записи", "клиента", "дня"},
		{111, "записей", "клиентов", "дней"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.appointments, PluralizeAppointments(tt.count), "count=%d", tt.count)
		assert.Equal(t, tt.clients, PluralizeClients(tt.count), "count=%d", tt.count)
		assert.Equal(t, tt.days, PluralizeDays(tt.count), "count=%d", tt.count)
	}
}

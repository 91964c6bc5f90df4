package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	r, err := NewResolver("Europe/Moscow")
	require.NoError(t, err)

	assert.Equal(t, "Europe/Moscow", r.Resolve("").String(), "пустое имя откатывается на пояс по умолчанию")
	assert.Equal(t, "Europe/Moscow", r.Resolve("Mars/Olympus").String(), "неизвестное имя откатывается на пояс по умолчанию")
	assert.Equal(t, "Asia/Yekaterinburg", r.Resolve("Asia/Yekaterinburg").String())
}

func TestResolver_Validate(t *testing.T) {
	r, err := NewResolver("Europe/Moscow")
	require.NoError(t, err)

	assert.NoError(t, r.Validate("Asia/Novosibirsk"))
	assert.Error(t, r.Validate("Mars/Olympus"))
	assert.Error(t, r.Validate(""))
}

func TestNewResolver_UnknownDefault(t *testing.T) {
	_, err := NewResolver("Nowhere/Nothing")
	require.Error(t, err)
}

func TestDayStart(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	// 22:30 UTC 16 июня — это уже 01:30 17 июня по Москве
	utcEvening := time.Date(2025, 6, 16, 22, 30, 0, 0, time.UTC)

	gotUTC := DayStart(utcEvening, time.UTC)
	assert.True(t, gotUTC.Equal(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)))

	gotMoscow := DayStart(utcEvening, moscow)
	assert.True(t, gotMoscow.Equal(time.Date(2025, 6, 17, 0, 0, 0, 0, moscow)),
		"в московском поясе момент принадлежит следующим суткам")
}

func TestDayKey(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	utcEvening := time.Date(2025, 6, 16, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, "2025-06-16", DayKey(utcEvening, time.UTC))
	assert.Equal(t, "2025-06-17", DayKey(utcEvening, moscow))
}

func TestLocalDayRange(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	day := time.Date(2025, 6, 16, 15, 45, 0, 0, moscow)

	start, end := LocalDayRange(day, day, moscow)
	assert.True(t, start.Equal(time.Date(2025, 6, 16, 0, 0, 0, 0, moscow)))
	assert.True(t, end.Equal(time.Date(2025, 6, 17, 0, 0, 0, 0, moscow)), "правая граница не входит")

	// Неделя: от понедельника до воскресенья включительно
	monday := time.Date(2025, 6, 16, 10, 0, 0, 0, moscow)
	sunday := monday.AddDate(0, 0, 6)

	start, end = LocalDayRange(monday, sunday, moscow)
	assert.True(t, start.Equal(time.Date(2025, 6, 16, 0, 0, 0, 0, moscow)))
	assert.True(t, end.Equal(time.Date(2025, 6, 23, 0, 0, 0, 0, moscow)))
	assert.Equal(t, 7*24*time.Hour, end.Sub(start))
}

package model

import "time"

// DefaultTimezone часовой пояс мастера, пока он не выбрал свой
const DefaultTimezone = "Europe/Moscow"

// DefaultTrialDays длительность пробного периода нового мастера
const DefaultTrialDays = 7

// Master представляет мастера — владельца клиентов, услуг и записей
type Master struct {
	ID         int64      `json:"id"`
	TelegramID int64      `json:"telegram_id"`
	Name       string     `json:"name"`
	Timezone   string     `json:"timezone"` // IANA-имя, например Europe/Moscow
	IsPremium  bool       `json:"is_premium"`
	TrialUntil *time.Time `json:"trial_until"` // nil = пробный период не запускался
	CreatedAt  time.Time  `json:"created_at"`
}

// OnTrial действует ли пробный период на момент now
func (m *Master) OnTrial(now time.Time) bool {
	return m.TrialUntil != nil && now.Before(*m.TrialUntil)
}

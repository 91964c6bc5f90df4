package model

import "time"

// AppointmentStatus статус записи
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled" // Создана, ожидает визита
	AppointmentStatusConfirmed AppointmentStatus = "confirmed" // Подтверждена клиентом
	AppointmentStatusCompleted AppointmentStatus = "completed" // Визит состоялся
	AppointmentStatusNoShow    AppointmentStatus = "no_show"   // Клиент не пришёл
	AppointmentStatusCancelled AppointmentStatus = "cancelled" // Отменена
)

// IsTerminal из терминального статуса переходов нет
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusNoShow || s == AppointmentStatusCancelled
}

// IsActive участвует ли статус в проверке пересечений интервалов
func (s AppointmentStatus) IsActive() bool {
	return s == AppointmentStatusScheduled || s == AppointmentStatusConfirmed
}

// CanTransitionTo проверяет допустимость перехода статуса.
// Подтвердить можно только запланированную запись; завершение, неявка и отмена
// допустимы из любого нетерминального статуса
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch target {
	case AppointmentStatusConfirmed:
		return s == AppointmentStatusScheduled
	case AppointmentStatusCompleted, AppointmentStatusNoShow, AppointmentStatusCancelled:
		return true
	default:
		return false
	}
}

// Appointment представляет запись клиента к мастеру.
// EndTime фиксируется при создании (StartTime + длительность услуги) и больше
// не меняется; запись никогда не удаляется физически, отмена — это статус
type Appointment struct {
	ID            int64             `json:"id"`
	MasterID      int64             `json:"master_id"`
	ClientID      int64             `json:"client_id"`
	ServiceID     int64             `json:"service_id"`
	StartTime     time.Time         `json:"start_time"`
	EndTime       time.Time         `json:"end_time"`
	Status        AppointmentStatus `json:"status"`
	IsCompleted   bool              `json:"is_completed"`
	PaymentAmount *int              `json:"payment_amount"` // заполняется только при завершении
	Notes         string            `json:"notes"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// Дополнительные поля для удобства (не из таблицы appointments)
	Client  *Client  `json:"client,omitempty"`
	Service *Service `json:"service,omitempty"`
}

// Overlaps пересекается ли полуинтервал [StartTime, EndTime) записи с [start, end)
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && a.EndTime.After(start)
}

package service

import (
	"context"
	"time"

	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
)

// MasterStore хранилище мастеров
type MasterStore interface {
	Create(ctx context.Context, master *model.Master) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Master, error)
	GetByID(ctx context.Context, id int64) (*model.Master, error)
	Update(ctx context.Context, master *model.Master) error
	UpdateTimezone(ctx context.Context, id int64, timezone string) error
	SetTrialUntil(ctx context.Context, id int64, until time.Time) error
	Lock(ctx context.Context, id int64) error
}

// ClientStore хранилище клиентов
type ClientStore interface {
	Create(ctx context.Context, client *model.Client) error
	GetByID(ctx context.Context, id int64) (*model.Client, error)
	GetByMasterID(ctx context.Context, masterID int64) ([]*model.Client, error)
	GetByPhone(ctx context.Context, masterID int64, phone string) (*model.Client, error)
	ApplyVisit(ctx context.Context, clientID int64, amount int, visitedAt time.Time) error
}

// ServiceStore хранилище услуг
type ServiceStore interface {
	Create(ctx context.Context, service *model.Service) error
	GetByID(ctx context.Context, id int64) (*model.Service, error)
	GetByMasterID(ctx context.Context, masterID int64) ([]*model.Service, error)
	GetActiveByMasterID(ctx context.Context, masterID int64) ([]*model.Service, error)
	Update(ctx context.Context, service *model.Service) error
}

// AppointmentStore хранилище записей
type AppointmentStore interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Appointment, error)
	GetActiveOverlapping(ctx context.Context, masterID int64, start, end time.Time) ([]*model.Appointment, error)
	GetByMasterAndRange(ctx context.Context, masterID int64, from, to time.Time, statuses []model.AppointmentStatus) ([]*model.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error
	Finish(ctx context.Context, id int64, status model.AppointmentStatus, paymentAmount *int, notes string) error
	Cancel(ctx context.Context, id int64, notes string) error
	CountActiveByMaster(ctx context.Context, masterID int64, from time.Time) (int, error)
}

// PromoStore хранилище промокодов и журнала погашений
type PromoStore interface {
	Create(ctx context.Context, promo *model.PromoCode) error
	GetByCode(ctx context.Context, code string) (*model.PromoCode, error)
	GetByCodeForUpdate(ctx context.Context, code string) (*model.PromoCode, error)
	List(ctx context.Context, status *model.PromoCodeStatus, limit, offset int) ([]*model.PromoCode, error)
	SetStatus(ctx context.Context, id int64, status model.PromoCodeStatus) error
	IncrementUses(ctx context.Context, id int64) (int, error)
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
	CountUsagesByMaster(ctx context.Context, promoCodeID, masterID int64) (int, error)
	InsertUsage(ctx context.Context, usage *model.PromoCodeUsage) error
	GetStats(ctx context.Context, code string) (*model.PromoCodeStats, error)
}

// TxManager выполняет функцию внутри одной транзакции хранилища.
// Внутри fn все вызовы репозиториев идут через эту транзакцию
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReminderScheduler отменяет напоминания, привязанные к записи.
// Вызов не возвращает ошибку: сбой отмены напоминания не должен
// ломать отмену самой записи
type ReminderScheduler interface {
	CancelForAppointment(appointmentID int64)
}

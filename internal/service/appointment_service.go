package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/timeutil"
	"go.uber.org/zap"
)

// CancelActor кто инициировал отмену записи
type CancelActor string

const (
	CancelActorMaster CancelActor = "master"
	CancelActorClient CancelActor = "client"
)

// DayGroup записи одного календарного дня мастера.
// Total — денежный итог дня: по завершённым визитам берётся зафиксированная
// оплата, по активным записям — текущая цена услуги; отменённые и неявки
// в итог не входят
type DayGroup struct {
	Date         time.Time
	Appointments []*model.Appointment
	Total        int
}

type AppointmentService struct {
	tx              TxManager
	masterRepo      MasterStore
	clientRepo      ClientStore
	serviceRepo     ServiceStore
	appointmentRepo AppointmentStore
	reminders       ReminderScheduler
	tz              *timeutil.Resolver
	clock           timeutil.Clock
	logger          *zap.Logger
}

func NewAppointmentService(
	tx TxManager,
	masterRepo MasterStore,
	clientRepo ClientStore,
	serviceRepo ServiceStore,
	appointmentRepo AppointmentStore,
	reminders ReminderScheduler,
	tz *timeutil.Resolver,
	clock timeutil.Clock,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		tx:              tx,
		masterRepo:      masterRepo,
		clientRepo:      clientRepo,
		serviceRepo:     serviceRepo,
		appointmentRepo: appointmentRepo,
		reminders:       reminders,
		tz:              tz,
		clock:           clock,
		logger:          logger,
	}
}

// Create создаёт запись клиента на услугу.
// Интервал записи [start, start+длительность) проверяется на пересечение
// с активными записями мастера; проверка и вставка выполняются в одной
// транзакции под блокировкой строки мастера, поэтому два конкурентных
// создания у одного мастера не могут обойти проверку одновременно
func (s *AppointmentService) Create(ctx context.Context, masterID, clientID, serviceID int64, startTime time.Time, notes string) (*model.Appointment, error) {
	svc, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if svc == nil || svc.MasterID != masterID {
		return nil, ErrServiceNotFound
	}
	if !svc.IsActive {
		return nil, ErrServiceInactive
	}

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	if client == nil || client.MasterID != masterID {
		return nil, ErrClientNotFound
	}

	endTime := startTime.Add(svc.Duration())

	appointment := &model.Appointment{
		MasterID:  masterID,
		ClientID:  clientID,
		ServiceID: serviceID,
		StartTime: startTime,
		EndTime:   endTime,
		Status:    model.AppointmentStatusScheduled,
		Notes:     notes,
	}

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.masterRepo.Lock(ctx, masterID); err != nil {
			return fmt.Errorf("lock master: %w", err)
		}

		overlapping, err := s.appointmentRepo.GetActiveOverlapping(ctx, masterID, startTime, endTime)
		if err != nil {
			return fmt.Errorf("check overlapping: %w", err)
		}
		if len(overlapping) > 0 {
			busy := overlapping[0]
			return &ConflictError{BusyStart: busy.StartTime, BusyEnd: busy.EndTime}
		}

		return s.appointmentRepo.Create(ctx, appointment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Appointment created",
		zap.Int64("appointment_id", appointment.ID),
		zap.Int64("master_id", masterID),
		zap.Int64("client_id", clientID),
		zap.String("service", svc.Name),
		zap.Time("start_time", startTime),
	)

	appointment.Client = client
	appointment.Service = svc

	return appointment, nil
}

// Confirm подтверждает запланированную запись
func (s *AppointmentService) Confirm(ctx context.Context, appointmentID, masterID int64) (*model.Appointment, error) {
	var appointment *model.Appointment

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		appointment, err = s.getOwned(ctx, appointmentID, masterID)
		if err != nil {
			return err
		}

		if !appointment.Status.CanTransitionTo(model.AppointmentStatusConfirmed) {
			return &StatusError{Current: appointment.Status, Target: model.AppointmentStatusConfirmed}
		}

		if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, model.AppointmentStatusConfirmed); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		appointment.Status = model.AppointmentStatusConfirmed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Appointment confirmed",
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("master_id", masterID),
	)

	return appointment, nil
}

// Complete закрывает визит: completed при состоявшемся визите, no_show при неявке.
// Для состоявшегося визита сумма берётся из paymentAmount, а при его отсутствии —
// из текущей цены услуги на момент завершения; агрегаты клиента обновляются
// в той же транзакции. Повторное закрытие уже терминальной записи отклоняется
func (s *AppointmentService) Complete(ctx context.Context, appointmentID, masterID int64, clientShowed bool, paymentAmount *int, notes string) (*model.Appointment, error) {
	target := model.AppointmentStatusCompleted
	if !clientShowed {
		target = model.AppointmentStatusNoShow
	}

	var appointment *model.Appointment

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		appointment, err = s.getOwned(ctx, appointmentID, masterID)
		if err != nil {
			return err
		}

		if !appointment.Status.CanTransitionTo(target) {
			return &StatusError{Current: appointment.Status, Target: target}
		}

		if notes == "" {
			notes = appointment.Notes
		}

		if !clientShowed {
			if err := s.appointmentRepo.Finish(ctx, appointmentID, target, nil, notes); err != nil {
				return fmt.Errorf("finish appointment: %w", err)
			}
			appointment.Status = target
			appointment.IsCompleted = true
			appointment.PaymentAmount = nil
			appointment.Notes = notes
			return nil
		}

		amount := paymentAmount
		if amount == nil {
			svc, err := s.serviceRepo.GetByID(ctx, appointment.ServiceID)
			if err != nil {
				return fmt.Errorf("get service: %w", err)
			}
			if svc == nil {
				return ErrServiceNotFound
			}
			amount = &svc.Price
		}

		if err := s.appointmentRepo.Finish(ctx, appointmentID, target, amount, notes); err != nil {
			return fmt.Errorf("finish appointment: %w", err)
		}

		if err := s.clientRepo.ApplyVisit(ctx, appointment.ClientID, *amount, appointment.StartTime); err != nil {
			return fmt.Errorf("apply client visit: %w", err)
		}

		appointment.Status = target
		appointment.IsCompleted = true
		appointment.PaymentAmount = amount
		appointment.Notes = notes
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Appointment finished",
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("master_id", masterID),
		zap.String("status", string(appointment.Status)),
		zap.Bool("client_showed", clientShowed),
	)

	return appointment, nil
}

// Cancel отменяет нетерминальную запись.
// Причина отмены сохраняется в заметках вместе с инициатором; привязанные
// напоминания снимаются после фиксации транзакции
func (s *AppointmentService) Cancel(ctx context.Context, appointmentID, masterID int64, cancelledBy CancelActor, reason string) (*model.Appointment, error) {
	var appointment *model.Appointment

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		appointment, err = s.getOwned(ctx, appointmentID, masterID)
		if err != nil {
			return err
		}

		if !appointment.Status.CanTransitionTo(model.AppointmentStatusCancelled) {
			return &StatusError{Current: appointment.Status, Target: model.AppointmentStatusCancelled}
		}

		notes := appointment.Notes
		if reason != "" {
			notes = cancelNote(cancelledBy, reason)
		}

		if err := s.appointmentRepo.Cancel(ctx, appointmentID, notes); err != nil {
			return fmt.Errorf("cancel appointment: %w", err)
		}

		appointment.Status = model.AppointmentStatusCancelled
		appointment.Notes = notes
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.reminders != nil {
		s.reminders.CancelForAppointment(appointmentID)
	}

	s.logger.Info("Appointment cancelled",
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("master_id", masterID),
		zap.String("cancelled_by", string(cancelledBy)),
	)

	return appointment, nil
}

// Schedule возвращает расписание мастера на days дней начиная с локального дня,
// в который попадает fromDay. Записи группируются по календарным дням в поясе
// мастера; дни идут по возрастанию, записи внутри дня — по времени начала
func (s *AppointmentService) Schedule(ctx context.Context, masterID int64, fromDay time.Time, days int) ([]*DayGroup, error) {
	master, err := s.masterRepo.GetByID(ctx, masterID)
	if err != nil {
		return nil, fmt.Errorf("get master: %w", err)
	}
	if master == nil {
		return nil, ErrMasterNotFound
	}

	loc := s.tz.Resolve(master.Timezone)
	start := timeutil.DayStart(fromDay, loc)
	end := start.AddDate(0, 0, days)

	appointments, err := s.appointmentRepo.GetByMasterAndRange(ctx, masterID, start, end, nil)
	if err != nil {
		return nil, fmt.Errorf("get appointments: %w", err)
	}

	return groupByDay(appointments, loc), nil
}

// DaySchedule возвращает расписание мастера на один локальный день.
// Для пустого дня возвращается группа без записей
func (s *AppointmentService) DaySchedule(ctx context.Context, masterID int64, day time.Time) (*DayGroup, error) {
	groups, err := s.Schedule(ctx, masterID, day, 1)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		master, err := s.masterRepo.GetByID(ctx, masterID)
		if err != nil {
			return nil, fmt.Errorf("get master: %w", err)
		}
		if master == nil {
			return nil, ErrMasterNotFound
		}
		loc := s.tz.Resolve(master.Timezone)
		return &DayGroup{Date: timeutil.DayStart(day, loc)}, nil
	}
	return groups[0], nil
}

// CountUpcoming считает будущие активные записи мастера
func (s *AppointmentService) CountUpcoming(ctx context.Context, masterID int64) (int, error) {
	return s.appointmentRepo.CountActiveByMaster(ctx, masterID, s.clock.Now())
}

// getOwned получает запись с блокировкой строки и проверяет принадлежность мастеру.
// Чужая запись неотличима от несуществующей
func (s *AppointmentService) getOwned(ctx context.Context, appointmentID, masterID int64) (*model.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByIDForUpdate(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil || appointment.MasterID != masterID {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

func cancelNote(actor CancelActor, reason string) string {
	who := "мастер"
	if actor == CancelActorClient {
		who = "клиент"
	}
	return fmt.Sprintf("Отменена (%s): %s", who, reason)
}

func groupByDay(appointments []*model.Appointment, loc *time.Location) []*DayGroup {
	var groups []*DayGroup
	var current *DayGroup

	for _, appointment := range appointments {
		day := timeutil.DayStart(appointment.StartTime, loc)
		if current == nil || !current.Date.Equal(day) {
			current = &DayGroup{Date: day}
			groups = append(groups, current)
		}
		current.Appointments = append(current.Appointments, appointment)
		current.Total += dayAmount(appointment)
	}

	return groups
}

// dayAmount вклад записи в денежный итог дня
func dayAmount(appointment *model.Appointment) int {
	switch {
	case appointment.Status == model.AppointmentStatusCompleted && appointment.PaymentAmount != nil:
		return *appointment.PaymentAmount
	case appointment.Status.IsActive() && appointment.Service != nil:
		return appointment.Service.Price
	default:
		return 0
	}
}

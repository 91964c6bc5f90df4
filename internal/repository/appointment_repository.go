package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/repository/base"
)

// queryBuilder собирает динамические запросы с PostgreSQL-плейсхолдерами
var queryBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type AppointmentRepository struct {
	db base.Querier
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{db: pool}
}

// Create создаёт новую запись
func (r *AppointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		INSERT INTO appointments (master_id, client_id, service_id, start_time, end_time, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := db.QueryRow(
		ctx, query,
		appointment.MasterID,
		appointment.ClientID,
		appointment.ServiceID,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.Notes,
	).Scan(&appointment.ID, &appointment.CreatedAt, &appointment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		SELECT id, master_id, client_id, service_id, start_time, end_time,
		       status, is_completed, payment_amount, notes, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`

	var appointment model.Appointment
	err := db.QueryRow(ctx, query, id).Scan(
		&appointment.ID,
		&appointment.MasterID,
		&appointment.ClientID,
		&appointment.ServiceID,
		&appointment.StartTime,
		&appointment.EndTime,
		&appointment.Status,
		&appointment.IsCompleted,
		&appointment.PaymentAmount,
		&appointment.Notes,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return &appointment, nil
}

// GetByIDForUpdate получает запись по ID с блокировкой строки.
// Используется внутри транзакции при смене статуса
func (r *AppointmentRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Appointment, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		SELECT id, master_id, client_id, service_id, start_time, end_time,
		       status, is_completed, payment_amount, notes, created_at, updated_at
		FROM appointments
		WHERE id = $1
		FOR UPDATE
	`

	var appointment model.Appointment
	err := db.QueryRow(ctx, query, id).Scan(
		&appointment.ID,
		&appointment.MasterID,
		&appointment.ClientID,
		&appointment.ServiceID,
		&appointment.StartTime,
		&appointment.EndTime,
		&appointment.Status,
		&appointment.IsCompleted,
		&appointment.PaymentAmount,
		&appointment.Notes,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment for update: %w", err)
	}

	return &appointment, nil
}

// GetActiveOverlapping возвращает активные записи мастера, пересекающиеся
// с полуинтервалом [start, end). Стыковка границ пересечением не считается
func (r *AppointmentRepository) GetActiveOverlapping(ctx context.Context, masterID int64, start, end time.Time) ([]*model.Appointment, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		SELECT id, master_id, client_id, service_id, start_time, end_time,
		       status, is_completed, payment_amount, notes, created_at, updated_at
		FROM appointments
		WHERE master_id = $1
		  AND status IN ('scheduled', 'confirmed')
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time
	`

	rows, err := db.Query(ctx, query, masterID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get overlapping appointments: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetByMasterAndRange возвращает записи мастера, начинающиеся в полуинтервале
// [from, to), вместе с данными клиента и услуги. Отменённые записи включаются:
// их отфильтровывает вызывающая сторона, когда они не нужны
func (r *AppointmentRepository) GetByMasterAndRange(ctx context.Context, masterID int64, from, to time.Time, statuses []model.AppointmentStatus) ([]*model.Appointment, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	selectBuilder := queryBuilder.Select(
		"a.id",
		"a.master_id",
		"a.client_id",
		"a.service_id",
		"a.start_time",
		"a.end_time",
		"a.status",
		"a.is_completed",
		"a.payment_amount",
		"a.notes",
		"a.created_at",
		"a.updated_at",
		"c.name",
		"c.phone",
		"s.name",
		"s.price",
		"s.duration_minutes",
	).
		From("appointments a").
		Join("clients c ON c.id = a.client_id").
		Join("services s ON s.id = a.service_id").
		Where(squirrel.Eq{"a.master_id": masterID}).
		Where(squirrel.GtOrEq{"a.start_time": from}).
		Where(squirrel.Lt{"a.start_time": to}).
		OrderBy("a.start_time")

	if len(statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.status": statuses})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build appointments range query: %w", err)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get appointments by range: %w", err)
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		var (
			appointment model.Appointment
			client      model.Client
			service     model.Service
		)
		err := rows.Scan(
			&appointment.ID,
			&appointment.MasterID,
			&appointment.ClientID,
			&appointment.ServiceID,
			&appointment.StartTime,
			&appointment.EndTime,
			&appointment.Status,
			&appointment.IsCompleted,
			&appointment.PaymentAmount,
			&appointment.Notes,
			&appointment.CreatedAt,
			&appointment.UpdatedAt,
			&client.Name,
			&client.Phone,
			&service.Name,
			&service.Price,
			&service.DurationMinutes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan appointment with relations: %w", err)
		}
		client.ID = appointment.ClientID
		service.ID = appointment.ServiceID
		appointment.Client = &client
		appointment.Service = &service
		appointments = append(appointments, &appointment)
	}

	return appointments, nil
}

// UpdateStatus меняет статус записи
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		UPDATE appointments
		SET status = $1, updated_at = now()
		WHERE id = $2
	`

	result, err := db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}

// Finish переводит запись в терминальный статус завершения визита.
// Для completed фиксируется сумма оплаты, для no_show она остаётся пустой
func (r *AppointmentRepository) Finish(ctx context.Context, id int64, status model.AppointmentStatus, paymentAmount *int, notes string) error {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		UPDATE appointments
		SET status = $1, is_completed = true, payment_amount = $2, notes = $3, updated_at = now()
		WHERE id = $4
	`

	result, err := db.Exec(ctx, query, status, paymentAmount, notes, id)
	if err != nil {
		return fmt.Errorf("finish appointment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}

// Cancel отменяет запись и сохраняет причину отмены в заметках
func (r *AppointmentRepository) Cancel(ctx context.Context, id int64, notes string) error {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		UPDATE appointments
		SET status = $1, notes = $2, updated_at = now()
		WHERE id = $3
	`

	result, err := db.Exec(ctx, query, model.AppointmentStatusCancelled, notes, id)
	if err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}

// CountActiveByMaster считает активные записи мастера начиная с указанного момента
func (r *AppointmentRepository) CountActiveByMaster(ctx context.Context, masterID int64, from time.Time) (int, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM appointments
		WHERE master_id = $1
		  AND status IN ('scheduled', 'confirmed')
		  AND start_time >= $2
	`

	var count int
	err := db.QueryRow(ctx, query, masterID, from).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active appointments: %w", err)
	}

	return count, nil
}

func scanAppointments(rows pgx.Rows) ([]*model.Appointment, error) {
	var appointments []*model.Appointment
	for rows.Next() {
		var appointment model.Appointment
		err := rows.Scan(
			&appointment.ID,
			&appointment.MasterID,
			&appointment.ClientID,
			&appointment.ServiceID,
			&appointment.StartTime,
			&appointment.EndTime,
			&appointment.Status,
			&appointment.IsCompleted,
			&appointment.PaymentAmount,
			&appointment.Notes,
			&appointment.CreatedAt,
			&appointment.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, &appointment)
	}

	return appointments, nil
}

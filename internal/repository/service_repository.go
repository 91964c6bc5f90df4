package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/repository/base"
)

type ServiceRepository struct {
	db base.Querier
}

func NewServiceRepository(pool *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{db: pool}
}

// Create создаёт новую услугу
func (r *ServiceRepository) Create(ctx context.Context, service *model.Service) error {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		INSERT INTO services (master_id, name, duration_minutes, price, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := db.QueryRow(
		ctx, query,
		service.MasterID,
		service.Name,
		service.DurationMinutes,
		service.Price,
		service.IsActive,
	).Scan(&service.ID, &service.CreatedAt)

	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	return nil
}

// GetByID получает услугу по ID
func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*model.Service, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		SELECT id, master_id, name, duration_minutes, price, is_active, created_at
		FROM services
		WHERE id = $1
	`

	var service model.Service
	err := db.QueryRow(ctx, query, id).Scan(
		&service.ID,
		&service.MasterID,
		&service.Name,
		&service.DurationMinutes,
		&service.Price,
		&service.IsActive,
		&service.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service by id: %w", err)
	}

	return &service, nil
}

// GetByMasterID получает все услуги мастера
func (r *ServiceRepository) GetByMasterID(ctx context.Context, masterID int64) ([]*model.Service, error) {
	query := `
		SELECT id, master_id, name, duration_minutes, price, is_active, created_at
		FROM services
		WHERE master_id = $1
		ORDER BY name
	`

	return r.queryServices(ctx, query, masterID)
}

// GetActiveByMasterID получает активные услуги мастера
func (r *ServiceRepository) GetActiveByMasterID(ctx context.Context, masterID int64) ([]*model.Service, error) {
	query := `
		SELECT id, master_id, name, duration_minutes, price, is_active, created_at
		FROM services
		WHERE master_id = $1 AND is_active = true
		ORDER BY name
	`

	return r.queryServices(ctx, query, masterID)
}

// Update обновляет услугу.
// Существующие записи не трогаются: интервал зафиксирован при создании записи,
// сумма — при завершении визита
func (r *ServiceRepository) Update(ctx context.Context, service *model.Service) error {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		UPDATE services
		SET name = $1, duration_minutes = $2, price = $3, is_active = $4
		WHERE id = $5
	`

	result, err := db.Exec(
		ctx, query,
		service.Name,
		service.DurationMinutes,
		service.Price,
		service.IsActive,
		service.ID,
	)

	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("service not found")
	}

	return nil
}

func (r *ServiceRepository) queryServices(ctx context.Context, query string, args ...any) ([]*model.Service, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	defer rows.Close()

	var services []*model.Service
	for rows.Next() {
		var service model.Service
		err := rows.Scan(
			&service.ID,
			&service.MasterID,
			&service.Name,
			&service.DurationMinutes,
			&service.Price,
			&service.IsActive,
			&service.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, &service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}

	return services, nil
}

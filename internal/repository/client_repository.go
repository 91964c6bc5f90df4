package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/repository/base"
)

type ClientRepository struct {
	db base.Querier
}

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{db: pool}
}

// Create создаёт нового клиента.
// Нарушение уникальности телефона в рамках мастера отдаётся как есть —
// сервис распознаёт его через base.IsUniqueViolation
func (r *ClientRepository) Create(ctx context.Context, client *model.Client) error {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		INSERT INTO clients (master_id, name, phone)
		VALUES ($1, $2, $3)
		RETURNING id, total_visits, total_spent, created_at
	`

	err := db.QueryRow(
		ctx, query,
		client.MasterID,
		client.Name,
		client.Phone,
	).Scan(&client.ID, &client.TotalVisits, &client.TotalSpent, &client.CreatedAt)

	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	return nil
}

// GetByID получает клиента по ID
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		SELECT id, master_id, name, phone, total_visits, total_spent, last_visit, created_at
		FROM clients
		WHERE id = $1
	`

	var client model.Client
	err := db.QueryRow(ctx, query, id).Scan(
		&client.ID,
		&client.MasterID,
		&client.Name,
		&client.Phone,
		&client.TotalVisits,
		&client.TotalSpent,
		&client.LastVisit,
		&client.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client by id: %w", err)
	}

	return &client, nil
}

// GetByMasterID получает всех клиентов мастера
func (r *ClientRepository) GetByMasterID(ctx context.Context, masterID int64) ([]*model.Client, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		SELECT id, master_id, name, phone, total_visits, total_spent, last_visit, created_at
		FROM clients
		WHERE master_id = $1
		ORDER BY name
	`

	rows, err := db.Query(ctx, query, masterID)
	if err != nil {
		return nil, fmt.Errorf("get clients by master: %w", err)
	}
	defer rows.Close()

	var clients []*model.Client
	for rows.Next() {
		var client model.Client
		err := rows.Scan(
			&client.ID,
			&client.MasterID,
			&client.Name,
			&client.Phone,
			&client.TotalVisits,
			&client.TotalSpent,
			&client.LastVisit,
			&client.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, &client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}

	return clients, nil
}

// GetByPhone ищет клиента мастера по нормализованному телефону
func (r *ClientRepository) GetByPhone(ctx context.Context, masterID int64, phone string) (*model.Client, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		SELECT id, master_id, name, phone, total_visits, total_spent, last_visit, created_at
		FROM clients
		WHERE master_id = $1 AND phone = $2
	`

	var client model.Client
	err := db.QueryRow(ctx, query, masterID, phone).Scan(
		&client.ID,
		&client.MasterID,
		&client.Name,
		&client.Phone,
		&client.TotalVisits,
		&client.TotalSpent,
		&client.LastVisit,
		&client.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client by phone: %w", err)
	}

	return &client, nil
}

// ApplyVisit накручивает агрегаты клиента после завершённого визита.
// Вызывается движком записей в той же транзакции, что и смена статуса записи
func (r *ClientRepository) ApplyVisit(ctx context.Context, clientID int64, amount int, visitedAt time.Time) error {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		UPDATE clients
		SET total_visits = total_visits + 1,
		    total_spent = total_spent + $1,
		    last_visit = $2
		WHERE id = $3
	`

	result, err := db.Exec(ctx, query, amount, visitedAt, clientID)
	if err != nil {
		return fmt.Errorf("apply client visit: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("client not found")
	}

	return nil
}

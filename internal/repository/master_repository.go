package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/repository/base"
)

type MasterRepository struct {
	db base.Querier
}

func NewMasterRepository(pool *pgxpool.Pool) *MasterRepository {
	return &MasterRepository{db: pool}
}

// Create создаёт нового мастера
func (r *MasterRepository) Create(ctx context.Context, master *model.Master) error {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		INSERT INTO masters (telegram_id, name, timezone, is_premium, trial_until)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := db.QueryRow(
		ctx, query,
		master.TelegramID,
		master.Name,
		master.Timezone,
		master.IsPremium,
		master.TrialUntil,
	).Scan(&master.ID, &master.CreatedAt)

	if err != nil {
		return fmt.Errorf("create master: %w", err)
	}

	return nil
}

// GetByTelegramID получает мастера по Telegram ID
func (r *MasterRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Master, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		SELECT id, telegram_id, name, timezone, is_premium, trial_until, created_at
		FROM masters
		WHERE telegram_id = $1
	`

	var master model.Master
	err := db.QueryRow(ctx, query, telegramID).Scan(
		&master.ID,
		&master.TelegramID,
		&master.Name,
		&master.Timezone,
		&master.IsPremium,
		&master.TrialUntil,
		&master.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Мастер ещё не регистрировался
		}
		return nil, fmt.Errorf("get master by telegram id: %w", err)
	}

	return &master, nil
}

// GetByID получает мастера по ID
func (r *MasterRepository) GetByID(ctx context.Context, id int64) (*model.Master, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		SELECT id, telegram_id, name, timezone, is_premium, trial_until, created_at
		FROM masters
		WHERE id = $1
	`

	var master model.Master
	err := db.QueryRow(ctx, query, id).Scan(
		&master.ID,
		&master.TelegramID,
		&master.Name,
		&master.Timezone,
		&master.IsPremium,
		&master.TrialUntil,
		&master.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get master by id: %w", err)
	}

	return &master, nil
}

// Update обновляет профиль мастера
func (r *MasterRepository) Update(ctx context.Context, master *model.Master) error {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		UPDATE masters
		SET name = $1, timezone = $2, is_premium = $3, trial_until = $4
		WHERE id = $5
	`

	result, err := db.Exec(
		ctx, query,
		master.Name,
		master.Timezone,
		master.IsPremium,
		master.TrialUntil,
		master.ID,
	)

	if err != nil {
		return fmt.Errorf("update master: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("master not found")
	}

	return nil
}

// UpdateTimezone меняет часовой пояс мастера
func (r *MasterRepository) UpdateTimezone(ctx context.Context, id int64, timezone string) error {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		UPDATE masters
		SET timezone = $1
		WHERE id = $2
	`

	result, err := db.Exec(ctx, query, timezone, id)
	if err != nil {
		return fmt.Errorf("update master timezone: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("master not found")
	}

	return nil
}

// SetTrialUntil продлевает пробный период до указанного момента
func (r *MasterRepository) SetTrialUntil(ctx context.Context, id int64, until time.Time) error {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		UPDATE masters
		SET trial_until = $1
		WHERE id = $2
	`

	result, err := db.Exec(ctx, query, until, id)
	if err != nil {
		return fmt.Errorf("set trial until: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("master not found")
	}

	return nil
}

// Lock берёт блокировку строки мастера до конца текущей транзакции.
// Сериализует проверку пересечений и вставку записи в рамках одного мастера;
// вызывается только внутри TxManager.Do
func (r *MasterRepository) Lock(ctx context.Context, id int64) error {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		SELECT id
		FROM masters
		WHERE id = $1
		FOR UPDATE
	`

	var lockedID int64
	if err := db.QueryRow(ctx, query, id).Scan(&lockedID); err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("master not found")
		}
		return fmt.Errorf("lock master: %w", err)
	}

	return nil
}

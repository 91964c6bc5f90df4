package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/repository/base"
)

type PromoRepository struct {
	db base.Querier
}

func NewPromoRepository(pool *pgxpool.Pool) *PromoRepository {
	return &PromoRepository{db: pool}
}

// Create создаёт новый промокод. Код должен быть уже нормализован
func (r *PromoRepository) Create(ctx context.Context, promo *model.PromoCode) error {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		INSERT INTO promo_codes (code, type, discount_percent, discount_amount, trial_extension_days,
		                         status, valid_from, valid_until, max_uses, max_uses_per_user)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, current_uses, created_at
	`

	err := db.QueryRow(
		ctx, query,
		promo.Code,
		promo.Type,
		promo.DiscountPercent,
		promo.DiscountAmount,
		promo.TrialExtensionDays,
		promo.Status,
		promo.ValidFrom,
		promo.ValidUntil,
		promo.MaxUses,
		promo.MaxUsesPerUser,
	).Scan(&promo.ID, &promo.CurrentUses, &promo.CreatedAt)

	if err != nil {
		return fmt.Errorf("create promo code: %w", err)
	}

	return nil
}

// GetByCode получает промокод по каноническому коду
func (r *PromoRepository) GetByCode(ctx context.Context, code string) (*model.PromoCode, error) {
	return r.getByCode(ctx, code, false)
}

// GetByCodeForUpdate получает промокод по коду с блокировкой строки.
// Погашения одного кода сериализуются на этой блокировке
func (r *PromoRepository) GetByCodeForUpdate(ctx context.Context, code string) (*model.PromoCode, error) {
	return r.getByCode(ctx, code, true)
}

func (r *PromoRepository) getByCode(ctx context.Context, code string, forUpdate bool) (*model.PromoCode, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		SELECT id, code, type, discount_percent, discount_amount, trial_extension_days,
		       status, valid_from, valid_until, max_uses, max_uses_per_user, current_uses, created_at
		FROM promo_codes
		WHERE code = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var promo model.PromoCode
	err := db.QueryRow(ctx, query, code).Scan(
		&promo.ID,
		&promo.Code,
		&promo.Type,
		&promo.DiscountPercent,
		&promo.DiscountAmount,
		&promo.TrialExtensionDays,
		&promo.Status,
		&promo.ValidFrom,
		&promo.ValidUntil,
		&promo.MaxUses,
		&promo.MaxUsesPerUser,
		&promo.CurrentUses,
		&promo.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get promo code: %w", err)
	}

	return &promo, nil
}

// List возвращает страницу промокодов, опционально отфильтрованных по статусу
func (r *PromoRepository) List(ctx context.Context, status *model.PromoCodeStatus, limit, offset int) ([]*model.PromoCode, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	selectBuilder := queryBuilder.Select(
		"id",
		"code",
		"type",
		"discount_percent",
		"discount_amount",
		"trial_extension_days",
		"status",
		"valid_from",
		"valid_until",
		"max_uses",
		"max_uses_per_user",
		"current_uses",
		"created_at",
	).
		From("promo_codes").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build promo list query: %w", err)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list promo codes: %w", err)
	}
	defer rows.Close()

	var promos []*model.PromoCode
	for rows.Next() {
		var promo model.PromoCode
		err := rows.Scan(
			&promo.ID,
			&promo.Code,
			&promo.Type,
			&promo.DiscountPercent,
			&promo.DiscountAmount,
			&promo.TrialExtensionDays,
			&promo.Status,
			&promo.ValidFrom,
			&promo.ValidUntil,
			&promo.MaxUses,
			&promo.MaxUsesPerUser,
			&promo.CurrentUses,
			&promo.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan promo code: %w", err)
		}
		promos = append(promos, &promo)
	}

	return promos, nil
}

// SetStatus меняет статус промокода
func (r *PromoRepository) SetStatus(ctx context.Context, id int64, status model.PromoCodeStatus) error {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		UPDATE promo_codes
		SET status = $1
		WHERE id = $2
	`

	result, err := db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("set promo status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("promo code not found")
	}

	return nil
}

// IncrementUses увеличивает счётчик погашений и возвращает новое значение
func (r *PromoRepository) IncrementUses(ctx context.Context, id int64) (int, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		UPDATE promo_codes
		SET current_uses = current_uses + 1
		WHERE id = $1
		RETURNING current_uses
	`

	var currentUses int
	err := db.QueryRow(ctx, query, id).Scan(&currentUses)
	if err != nil {
		return 0, fmt.Errorf("increment promo uses: %w", err)
	}

	return currentUses, nil
}

// MarkExpired переводит в expired все активные коды с истёкшим valid_until.
// Возвращает количество затронутых кодов
func (r *PromoRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		UPDATE promo_codes
		SET status = $1
		WHERE status = $2
		  AND valid_until IS NOT NULL
		  AND valid_until < $3
	`

	result, err := db.Exec(ctx, query, model.PromoStatusExpired, model.PromoStatusActive, now)
	if err != nil {
		return 0, fmt.Errorf("mark expired promo codes: %w", err)
	}

	return result.RowsAffected(), nil
}

// CountUsagesByMaster считает погашения кода конкретным мастером
func (r *PromoRepository) CountUsagesByMaster(ctx context.Context, promoCodeID, masterID int64) (int, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM promo_code_usage
		WHERE promo_code_id = $1 AND master_id = $2
	`

	var count int
	err := db.QueryRow(ctx, query, promoCodeID, masterID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count promo usages by master: %w", err)
	}

	return count, nil
}

// InsertUsage добавляет строку в журнал погашений
func (r *PromoRepository) InsertUsage(ctx context.Context, usage *model.PromoCodeUsage) error {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		INSERT INTO promo_code_usage (promo_code_id, master_id, original_amount, discount_amount, final_amount, subscription_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := db.QueryRow(
		ctx, query,
		usage.PromoCodeID,
		usage.MasterID,
		usage.OriginalAmount,
		usage.DiscountAmount,
		usage.FinalAmount,
		usage.SubscriptionID,
	).Scan(&usage.ID, &usage.CreatedAt)

	if err != nil {
		return fmt.Errorf("insert promo usage: %w", err)
	}

	return nil
}

// GetStats собирает агрегированную статистику по журналу погашений кода
func (r *PromoRepository) GetStats(ctx context.Context, code string) (*model.PromoCodeStats, error) {
	db := base.ExecutorFromContext(ctx, r.db)

	query := `
		SELECT p.code, p.status, p.current_uses, p.max_uses,
		       COUNT(u.id),
		       COUNT(DISTINCT u.master_id),
		       COALESCE(SUM(u.discount_amount), 0),
		       COALESCE(SUM(u.final_amount), 0)
		FROM promo_codes p
		LEFT JOIN promo_code_usage u ON u.promo_code_id = p.id
		WHERE p.code = $1
		GROUP BY p.id
	`

	var stats model.PromoCodeStats
	err := db.QueryRow(ctx, query, code).Scan(
		&stats.Code,
		&stats.Status,
		&stats.CurrentUses,
		&stats.MaxUses,
		&stats.UsageCount,
		&stats.UniqueRedeemers,
		&stats.TotalDiscountGiven,
		&stats.TotalFinalAmount,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get promo stats: %w", err)
	}

	return &stats, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/repository/base"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/timeutil"
	"go.uber.org/zap"
)

// Размер страницы админского списка промокодов
const promoPageSize = 20

// Redemption результат погашения промокода
type Redemption struct {
	Promo          *model.PromoCode
	OriginalAmount int
	DiscountAmount int
	FinalAmount    int
}

// CreatePromoInput параметры создания промокода.
// Ровно одно из полей скидки должно соответствовать типу
type CreatePromoInput struct {
	Code               string              `validate:"required,alphanum,min=4,max=20"`
	Type               model.PromoCodeType `validate:"required,oneof=percent fixed trial_extension"`
	DiscountPercent    *int                `validate:"omitempty,min=1,max=100"`
	DiscountAmount     *int                `validate:"omitempty,min=1"`
	TrialExtensionDays *int                `validate:"omitempty,min=1,max=365"`
	ValidFrom          *time.Time
	ValidUntil         *time.Time
	MaxUses            *int `validate:"omitempty,min=1"`
	MaxUsesPerUser     int  `validate:"omitempty,min=1"`
}

type PromoService struct {
	tx        TxManager
	promoRepo PromoStore
	validate  *validator.Validate
	clock     timeutil.Clock
	logger    *zap.Logger
}

func NewPromoService(
	tx TxManager,
	promoRepo PromoStore,
	validate *validator.Validate,
	clock timeutil.Clock,
	logger *zap.Logger,
) *PromoService {
	return &PromoService{
		tx:        tx,
		promoRepo: promoRepo,
		validate:  validate,
		clock:     clock,
		logger:    logger,
	}
}

// Validate проверяет, может ли мастер погасить промокод.
// Проверки идут по порядку и обрываются на первой неудачной: существование,
// статус и сроки кода, персональный лимит. Возвращает найденный код
func (s *PromoService) Validate(ctx context.Context, code string, masterID int64) (*model.PromoCode, error) {
	canonical := model.NormalizePromoCode(code)

	promo, err := s.promoRepo.GetByCode(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("get promo code: %w", err)
	}
	if promo == nil {
		return nil, ErrPromoNotFound
	}

	if err := s.checkRedeemable(ctx, promo, masterID); err != nil {
		return nil, err
	}

	return promo, nil
}

// Redeem погашает промокод и возвращает рассчитанную скидку.
// Вставка строки журнала, инкремент счётчика и перевод в depleted происходят
// в одной транзакции под блокировкой строки кода, поэтому конкурентные
// погашения не могут превысить max_uses. Скидка нигде не списывается —
// применение итоговой суммы к платежу остаётся за вызывающей стороной
func (s *PromoService) Redeem(ctx context.Context, code string, masterID int64, subscriptionID *uuid.UUID, originalAmount int) (*Redemption, error) {
	if originalAmount < 0 {
		return nil, fmt.Errorf("%w: negative amount", ErrInvalidInput)
	}

	canonical := model.NormalizePromoCode(code)

	var redemption *Redemption

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		promo, err := s.promoRepo.GetByCodeForUpdate(ctx, canonical)
		if err != nil {
			return fmt.Errorf("get promo code: %w", err)
		}
		if promo == nil {
			return ErrPromoNotFound
		}

		if err := s.checkRedeemable(ctx, promo, masterID); err != nil {
			return err
		}

		discount := promo.Discount(originalAmount)
		final := originalAmount - discount
		if final < 0 {
			final = 0
		}

		usage := &model.PromoCodeUsage{
			PromoCodeID:    promo.ID,
			MasterID:       masterID,
			OriginalAmount: originalAmount,
			DiscountAmount: discount,
			FinalAmount:    final,
			SubscriptionID: subscriptionID,
		}
		if err := s.promoRepo.InsertUsage(ctx, usage); err != nil {
			return fmt.Errorf("insert usage: %w", err)
		}

		currentUses, err := s.promoRepo.IncrementUses(ctx, promo.ID)
		if err != nil {
			return fmt.Errorf("increment uses: %w", err)
		}
		promo.CurrentUses = currentUses

		if promo.MaxUses != nil && currentUses >= *promo.MaxUses {
			if err := s.promoRepo.SetStatus(ctx, promo.ID, model.PromoStatusDepleted); err != nil {
				return fmt.Errorf("mark depleted: %w", err)
			}
			promo.Status = model.PromoStatusDepleted
		}

		redemption = &Redemption{
			Promo:          promo,
			OriginalAmount: originalAmount,
			DiscountAmount: discount,
			FinalAmount:    final,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Promo code redeemed",
		zap.String("code", canonical),
		zap.Int64("master_id", masterID),
		zap.Int("discount", redemption.DiscountAmount),
		zap.Int("final_amount", redemption.FinalAmount),
		zap.Int("current_uses", redemption.Promo.CurrentUses),
	)

	return redemption, nil
}

// Deactivate отключает промокод независимо от его текущего состояния.
// Повторное отключение безвредно
func (s *PromoService) Deactivate(ctx context.Context, code string) (*model.PromoCode, error) {
	canonical := model.NormalizePromoCode(code)

	promo, err := s.promoRepo.GetByCode(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("get promo code: %w", err)
	}
	if promo == nil {
		return nil, ErrPromoNotFound
	}

	if err := s.promoRepo.SetStatus(ctx, promo.ID, model.PromoStatusInactive); err != nil {
		return nil, fmt.Errorf("deactivate promo: %w", err)
	}
	promo.Status = model.PromoStatusInactive

	s.logger.Info("Promo code deactivated", zap.String("code", canonical))

	return promo, nil
}

// Stats возвращает агрегированную статистику погашений кода
func (s *PromoService) Stats(ctx context.Context, code string) (*model.PromoCodeStats, error) {
	canonical := model.NormalizePromoCode(code)

	stats, err := s.promoRepo.GetStats(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("get promo stats: %w", err)
	}
	if stats == nil {
		return nil, ErrPromoNotFound
	}

	return stats, nil
}

// List возвращает страницу промокодов, опционально по статусу. Страницы с единицы
func (s *PromoService) List(ctx context.Context, status *model.PromoCodeStatus, page int) ([]*model.PromoCode, error) {
	if page < 1 {
		page = 1
	}

	promos, err := s.promoRepo.List(ctx, status, promoPageSize, (page-1)*promoPageSize)
	if err != nil {
		return nil, fmt.Errorf("list promo codes: %w", err)
	}

	return promos, nil
}

// Create создаёт новый промокод
func (s *PromoService) Create(ctx context.Context, input CreatePromoInput) (*model.PromoCode, error) {
	input.Code = model.NormalizePromoCode(input.Code)

	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := checkPromoPayload(input); err != nil {
		return nil, err
	}

	validFrom := s.clock.Now()
	if input.ValidFrom != nil {
		validFrom = *input.ValidFrom
	}
	if input.ValidUntil != nil && !input.ValidUntil.After(validFrom) {
		return nil, fmt.Errorf("%w: valid_until must be after valid_from", ErrInvalidInput)
	}

	maxUsesPerUser := input.MaxUsesPerUser
	if maxUsesPerUser == 0 {
		maxUsesPerUser = model.DefaultMaxUsesPerUser
	}

	promo := &model.PromoCode{
		Code:               input.Code,
		Type:               input.Type,
		DiscountPercent:    input.DiscountPercent,
		DiscountAmount:     input.DiscountAmount,
		TrialExtensionDays: input.TrialExtensionDays,
		Status:             model.PromoStatusActive,
		ValidFrom:          validFrom,
		ValidUntil:         input.ValidUntil,
		MaxUses:            input.MaxUses,
		MaxUsesPerUser:     maxUsesPerUser,
	}

	if err := s.promoRepo.Create(ctx, promo); err != nil {
		if base.IsUniqueViolation(err) {
			return nil, ErrPromoExists
		}
		return nil, fmt.Errorf("create promo code: %w", err)
	}

	s.logger.Info("Promo code created",
		zap.String("code", promo.Code),
		zap.String("type", string(promo.Type)),
	)

	return promo, nil
}

// ExpireStale переводит в expired активные коды с истёкшим сроком действия.
// Вызывается фоновой задачей; Validate и Redeem проверяют срок и сами,
// так что задача лишь выравнивает хранимый статус
func (s *PromoService) ExpireStale(ctx context.Context) (int64, error) {
	n, err := s.promoRepo.MarkExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("mark expired: %w", err)
	}

	if n > 0 {
		s.logger.Info("Expired promo codes swept", zap.Int64("count", n))
	}

	return n, nil
}

// checkRedeemable общая цепочка проверок Validate и Redeem.
// В Redeem выполняется повторно под блокировкой строки кода
func (s *PromoService) checkRedeemable(ctx context.Context, promo *model.PromoCode, masterID int64) error {
	switch promo.Status {
	case model.PromoStatusInactive:
		return ErrPromoInactive
	case model.PromoStatusExpired:
		return ErrPromoExpired
	case model.PromoStatusDepleted:
		return depletedError(promo)
	}

	now := s.clock.Now()
	if promo.IsExpired(now) {
		return ErrPromoExpired
	}
	if promo.IsDepleted() {
		return depletedError(promo)
	}
	if now.Before(promo.ValidFrom) {
		return ErrPromoInactive
	}

	used, err := s.promoRepo.CountUsagesByMaster(ctx, promo.ID, masterID)
	if err != nil {
		return fmt.Errorf("count usages: %w", err)
	}
	if used >= promo.MaxUsesPerUser {
		return &LimitError{Err: ErrPromoAlreadyUsed, Current: used, Limit: promo.MaxUsesPerUser}
	}

	return nil
}

func depletedError(promo *model.PromoCode) *LimitError {
	limit := promo.CurrentUses
	if promo.MaxUses != nil {
		limit = *promo.MaxUses
	}
	return &LimitError{Err: ErrPromoDepleted, Current: promo.CurrentUses, Limit: limit}
}

// checkPromoPayload сверяет заполненное поле скидки с типом кода
func checkPromoPayload(input CreatePromoInput) error {
	percent := input.DiscountPercent != nil
	amount := input.DiscountAmount != nil
	days := input.TrialExtensionDays != nil

	switch input.Type {
	case model.PromoTypePercent:
		if !percent || amount || days {
			return fmt.Errorf("%w: percent code requires discount_percent only", ErrInvalidInput)
		}
	case model.PromoTypeFixed:
		if !amount || percent || days {
			return fmt.Errorf("%w: fixed code requires discount_amount only", ErrInvalidInput)
		}
	case model.PromoTypeTrialExtension:
		if !days || percent || amount {
			return fmt.Errorf("%w: trial_extension code requires trial_extension_days only", ErrInvalidInput)
		}
	}

	return nil
}

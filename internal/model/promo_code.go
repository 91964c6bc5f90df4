package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PromoCodeType тип скидки промокода
type PromoCodeType string

const (
	PromoTypePercent        PromoCodeType = "percent"         // Процент от суммы
	PromoTypeFixed          PromoCodeType = "fixed"           // Фиксированная сумма
	PromoTypeTrialExtension PromoCodeType = "trial_extension" // Продление пробного периода
)

// PromoCodeStatus статус промокода
type PromoCodeStatus string

const (
	PromoStatusActive   PromoCodeStatus = "active"
	PromoStatusInactive PromoCodeStatus = "inactive" // Отключён администратором
	PromoStatusExpired  PromoCodeStatus = "expired"  // Прошёл valid_until
	PromoStatusDepleted PromoCodeStatus = "depleted" // Достигнут max_uses
)

// Лимит по умолчанию: один и тот же мастер погашает код один раз
const DefaultMaxUsesPerUser = 1

// NormalizePromoCode приводит код к каноническому виду: верхний регистр без пробелов
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// PromoCode представляет промокод на оплату подписки.
// Полезная нагрузка скидки зависит от типа: заполнено ровно одно из
// DiscountPercent / DiscountAmount / TrialExtensionDays
type PromoCode struct {
	ID                 int64           `json:"id"`
	Code               string          `json:"code"` // канонический верхний регистр, 4–20 букв и цифр
	Type               PromoCodeType   `json:"type"`
	DiscountPercent    *int            `json:"discount_percent"`     // 1–100
	DiscountAmount     *int            `json:"discount_amount"`      // >= 1, в рублях
	TrialExtensionDays *int            `json:"trial_extension_days"` // 1–365
	Status             PromoCodeStatus `json:"status"`
	ValidFrom          time.Time       `json:"valid_from"`
	ValidUntil         *time.Time      `json:"valid_until"` // nil = бессрочный
	MaxUses            *int            `json:"max_uses"`    // nil = без глобального лимита
	MaxUsesPerUser     int             `json:"max_uses_per_user"`
	CurrentUses        int             `json:"current_uses"`
	CreatedAt          time.Time       `json:"created_at"`
}

// IsExpired прошёл ли valid_until на момент now
func (p *PromoCode) IsExpired(now time.Time) bool {
	return p.ValidUntil != nil && now.After(*p.ValidUntil)
}

// IsDepleted исчерпан ли глобальный лимит использований
func (p *PromoCode) IsDepleted() bool {
	return p.MaxUses != nil && p.CurrentUses >= *p.MaxUses
}

// Discount вычисляет денежную скидку для суммы amount.
// Процент округляется вниз; фиксированная скидка не опускает сумму ниже нуля;
// trial_extension даёт 0 — дни продления применяет подписочный модуль
func (p *PromoCode) Discount(amount int) int {
	switch p.Type {
	case PromoTypePercent:
		if p.DiscountPercent == nil {
			return 0
		}
		return amount * *p.DiscountPercent / 100
	case PromoTypeFixed:
		if p.DiscountAmount == nil {
			return 0
		}
		if *p.DiscountAmount > amount {
			return amount
		}
		return *p.DiscountAmount
	default:
		return 0
	}
}

// PromoCodeUsage строка журнала погашений: одна строка на успешное погашение,
// только добавляется. Источник истины для лимитов на пользователя и статистики
type PromoCodeUsage struct {
	ID             int64      `json:"id"`
	PromoCodeID    int64      `json:"promo_code_id"`
	MasterID       int64      `json:"master_id"`
	OriginalAmount int        `json:"original_amount"`
	DiscountAmount int        `json:"discount_amount"`
	FinalAmount    int        `json:"final_amount"`
	SubscriptionID *uuid.UUID `json:"subscription_id"` // платёж подписки, к которому применена скидка
	CreatedAt      time.Time  `json:"created_at"`
}

// PromoCodeStats агрегированная статистика по журналу погашений кода
type PromoCodeStats struct {
	Code               string          `json:"code"`
	Status             PromoCodeStatus `json:"status"`
	UsageCount         int             `json:"usage_count"`
	UniqueRedeemers    int             `json:"unique_redeemers"`
	TotalDiscountGiven int             `json:"total_discount_given"`
	TotalFinalAmount   int             `json:"total_final_amount"`
	CurrentUses        int             `json:"current_uses"`
	MaxUses            *int            `json:"max_uses"`
}

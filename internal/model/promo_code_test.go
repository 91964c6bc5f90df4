package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePromoCode(t *testing.T) {
	assert.Equal(t, "SUMMER2025", NormalizePromoCode("summer2025"))
	assert.Equal(t, "SUMMER2025", NormalizePromoCode("  SuMmEr2025  "))
	assert.Equal(t, "SUMMER2025", NormalizePromoCode("SUMMER2025"))
}

func TestPromoCode_Discount(t *testing.T) {
	pct := func(v int) *PromoCode {
		return &PromoCode{Type: PromoTypePercent, DiscountPercent: &v}
	}
	fixed := func(v int) *PromoCode {
		return &PromoCode{Type: PromoTypeFixed, DiscountAmount: &v}
	}

	tests := []struct {
		name   string
		promo  *PromoCode
		amount int
		want   int
	}{
		{"20% от 990 округляется вниз", pct(20), 990, 198},
		{"33% от 100", pct(33), 100, 33},
		{"1% от 99 даёт 0", pct(1), 99, 0},
		{"100% покрывает сумму целиком", pct(100), 990, 990},
		{"процент от нуля", pct(50), 0, 0},
		{"фиксированная меньше суммы", fixed(300), 990, 300},
		{"фиксированная равна сумме", fixed(990), 990, 990},
		{"фиксированная больше суммы ограничена ею", fixed(1500), 990, 990},
		{"продление триала не даёт денежной скидки", &PromoCode{Type: PromoTypeTrialExtension}, 990, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.promo.Discount(tt.amount))
		})
	}
}

func TestPromoCode_IsExpired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, (&PromoCode{}).IsExpired(now), "бессрочный код не истекает")
	assert.False(t, (&PromoCode{ValidUntil: &future}).IsExpired(now))
	assert.True(t, (&PromoCode{ValidUntil: &past}).IsExpired(now))
	assert.False(t, (&PromoCode{ValidUntil: &now}).IsExpired(now), "граница включительно")
}

func TestPromoCode_IsDepleted(t *testing.T) {
	five := 5

	assert.False(t, (&PromoCode{CurrentUses: 100}).IsDepleted(), "без лимита код не исчерпывается")
	assert.False(t, (&PromoCode{MaxUses: &five, CurrentUses: 4}).IsDepleted())
	assert.True(t, (&PromoCode{MaxUses: &five, CurrentUses: 5}).IsDepleted())
	assert.True(t, (&PromoCode{MaxUses: &five, CurrentUses: 6}).IsDepleted())
}

package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/controller/format"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/service"
	"go.uber.org/zap"
)

// HandleCheckPromo обрабатывает команду /checkpromo: проверка без погашения
func (h *Handlers) HandleCheckPromo(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	master, ok := h.requireMaster(ctx, b, update)
	if !ok {
		return
	}

	code := commandArgs(update.Message.Text)
	if code == "" {
		h.sendError(ctx, b, update.Message.Chat.ID, "Формат: /checkpromo код")
		return
	}

	promo, err := h.promoService.Validate(ctx, code, master.ID)
	if err != nil {
		h.replyBusinessError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	text := fmt.Sprintf(
		"🎟 Промокод %s действует: %s.\n\n", promo.Code, describePromo(promo))
	if promo.Type != model.PromoTypeTrialExtension {
		discount := promo.Discount(h.subscriptionPrice)
		text += fmt.Sprintf("Подписка %s → %s.\n",
			format.Price(h.subscriptionPrice), format.Price(h.subscriptionPrice-discount))
	}
	text += fmt.Sprintf("Применить: /promo %s", promo.Code)

	h.sendMessage(ctx, b, update.Message.Chat.ID, text)
}

// HandlePromo обрабатывает команду /promo: погашение промокода
func (h *Handlers) HandlePromo(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	master, ok := h.requireMaster(ctx, b, update)
	if !ok {
		return
	}

	code := commandArgs(update.Message.Text)
	if code == "" {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"Формат: /promo код\nСначала проверить: /checkpromo код")
		return
	}

	redemption, err := h.promoService.Redeem(ctx, code, master.ID, nil, h.subscriptionPrice)
	if err != nil {
		h.metrics.PromoRejections.WithLabelValues(promoRejectReason(err)).Inc()
		h.replyBusinessError(ctx, b, update.Message.Chat.ID, err)
		return
	}
	h.metrics.PromoRedemptions.Inc()

	promo := redemption.Promo

	// Дни продления применяются сразу при погашении
	if promo.Type == model.PromoTypeTrialExtension && promo.TrialExtensionDays != nil {
		until, err := h.masterService.ExtendTrial(ctx, master.ID, *promo.TrialExtensionDays)
		if err != nil {
			h.logger.Error("Failed to extend trial after redemption",
				zap.String("code", promo.Code),
				zap.Int64("master_id", master.ID),
				zap.Error(err),
			)
			h.sendError(ctx, b, update.Message.Chat.ID,
				"❌ Код погашен, но продлить пробный период не удалось. Напишите в поддержку.")
			return
		}

		h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
			"✅ Промокод %s применён!\n\nПробный период продлён на %d %s — до %s.",
			promo.Code, *promo.TrialExtensionDays,
			format.PluralizeDays(*promo.TrialExtensionDays), format.Date(until)))
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"✅ Промокод %s применён!\n\n"+
			"Подписка: %s\nСкидка: %s\nК оплате: %s",
		promo.Code,
		format.Price(redemption.OriginalAmount),
		format.Price(redemption.DiscountAmount),
		format.Price(redemption.FinalAmount)))
}

// describePromo описание скидки промокода для пользователя
func describePromo(promo *model.PromoCode) string {
	switch promo.Type {
	case model.PromoTypePercent:
		if promo.DiscountPercent != nil {
			return fmt.Sprintf("скидка %d%%", *promo.DiscountPercent)
		}
	case model.PromoTypeFixed:
		if promo.DiscountAmount != nil {
			return fmt.Sprintf("скидка %s", format.Price(*promo.DiscountAmount))
		}
	case model.PromoTypeTrialExtension:
		if promo.TrialExtensionDays != nil {
			return fmt.Sprintf("продление пробного периода на %d %s",
				*promo.TrialExtensionDays, format.PluralizeDays(*promo.TrialExtensionDays))
		}
	}
	return "скидка"
}

// promoRejectReason метка причины отказа для метрик
func promoRejectReason(err error) string {
	switch {
	case errors.Is(err, service.ErrPromoNotFound):
		return "not_found"
	case errors.Is(err, service.ErrPromoAlreadyUsed):
		return "already_used"
	case errors.Is(err, service.ErrPromoDepleted):
		return "depleted"
	case errors.Is(err, service.ErrPromoExpired):
		return "expired"
	case errors.Is(err, service.ErrPromoInactive):
		return "inactive"
	default:
		return "error"
	}
}

package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/controller/format"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/service"
	"go.uber.org/zap"
)

// requireMaster проверяет, что отправитель зарегистрирован.
// Возвращает мастера и true, либо nil и false после отправки подсказки
func (h *Handlers) requireMaster(ctx context.Context, b *bot.Bot, update *models.Update) (*model.Master, bool) {
	if update.Message == nil {
		return nil, false
	}

	telegramID := update.Message.From.ID
	master, err := h.masterService.GetByTelegramID(ctx, telegramID)

	if err != nil {
		h.logger.Error("Failed to get master", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return nil, false
	}

	if master == nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Вы не зарегистрированы. Используйте /start.")
		return nil, false
	}

	return master, true
}

// sendError отправляет сообщение об ошибке и логирует, если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует, если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendHTML отправляет сообщение с HTML-разметкой
func (h *Handlers) sendHTML(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// replyBusinessError переводит ошибку движка в сообщение пользователю.
// Неизвестные ошибки логируются и показываются обезличенно
func (h *Handlers) replyBusinessError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	h.sendError(ctx, b, chatID, h.errorText(err))
}

func (h *Handlers) errorText(err error) string {
	var conflictErr *service.ConflictError
	var statusErr *service.StatusError

	switch {
	case errors.As(err, &conflictErr):
		return fmt.Sprintf("⛔ Время занято: с %s до %s уже есть запись.",
			format.Time(conflictErr.BusyStart), format.Time(conflictErr.BusyEnd))
	case errors.As(err, &statusErr):
		current := format.AppointmentStatus(statusErr.Current)
		return fmt.Sprintf("⛔ Запись уже в статусе «%s», изменить её нельзя.", current.Text)
	case errors.Is(err, service.ErrPromoAlreadyUsed):
		return "⛔ Вы уже использовали этот промокод."
	case errors.Is(err, service.ErrPromoDepleted):
		return "⛔ Лимит использований промокода исчерпан."
	case errors.Is(err, service.ErrPromoExpired):
		return "⛔ Срок действия промокода истёк."
	case errors.Is(err, service.ErrPromoInactive):
		return "⛔ Промокод не действует."
	case errors.Is(err, service.ErrPromoNotFound):
		return "❌ Такой промокод не найден."
	case errors.Is(err, service.ErrClientExists):
		return "❌ Клиент с таким телефоном уже есть."
	case errors.Is(err, service.ErrClientNotFound):
		return "❌ Клиент не найден."
	case errors.Is(err, service.ErrServiceInactive):
		return "❌ Услуга отключена. Включите её: /services"
	case errors.Is(err, service.ErrServiceNotFound):
		return "❌ Услуга не найдена."
	case errors.Is(err, service.ErrAppointmentNotFound):
		return "❌ Запись не найдена."
	case errors.Is(err, service.ErrMasterNotFound):
		return "❌ Вы не зарегистрированы. Используйте /start."
	case errors.Is(err, service.ErrInvalidInput):
		return "❌ Неверные данные: " + trimSentinel(err)
	default:
		h.logger.Error("Unhandled business error", zap.Error(err))
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}

// trimSentinel убирает сторожевой префикс из текста ошибки валидации
func trimSentinel(err error) string {
	prefix := service.ErrInvalidInput.Error() + ": "
	msg := err.Error()
	if strings.HasPrefix(msg, prefix) {
		return msg[len(prefix):]
	}
	return msg
}

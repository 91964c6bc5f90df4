package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/controller/format"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := update.Message.From
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)

	master, err := h.masterService.Register(ctx, user.ID, name)
	if err != nil {
		h.logger.Error("Failed to register master", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Я помогаю вести запись клиентов: услуги, расписание, промокоды на подписку.\n\n"+
			"С чего начать:\n"+
			"/addservice — добавить услугу\n"+
			"/addclient — добавить клиента\n"+
			"/book — записать клиента\n"+
			"/day — расписание на день\n"+
			"/help — все команды\n\n"+
			"Часовой пояс: %s (сменить: /timezone)",
		master.Name,
		master.Timezone,
	)

	if master.TrialUntil != nil {
		welcomeText += fmt.Sprintf("\nПробный период до %s.", format.Date(*master.TrialUntil))
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Команды:\n\n" +
		"Услуги:\n" +
		"/services — список услуг\n" +
		"/addservice Название | минуты | цена\n" +
		"/editservice id | Название | минуты | цена\n" +
		"/toggleservice id — включить или отключить\n\n" +
		"Клиенты:\n" +
		"/clients — список клиентов\n" +
		"/addclient Имя | телефон\n\n" +
		"Записи:\n" +
		"/book телефон | id услуги | дата время\n" +
		"    пример: /book +79991234567 | 2 | 16.06 15:30\n" +
		"/day [дата] — расписание на день\n" +
		"/week — расписание на неделю\n" +
		"/confirm id — клиент подтвердил\n" +
		"/done id [сумма] — визит состоялся\n" +
		"/noshow id — клиент не пришёл\n" +
		"/cancelbooking id [причина] — отменить запись\n\n" +
		"Подписка:\n" +
		"/checkpromo код — проверить промокод\n" +
		"/promo код — применить промокод\n\n" +
		"Настройки:\n" +
		"/timezone — часовой пояс, например /timezone Asia/Yekaterinburg"

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleTimezone обрабатывает команду /timezone
func (h *Handlers) HandleTimezone(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	master, ok := h.requireMaster(ctx, b, update)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	if args == "" {
		h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
			"🕐 Ваш часовой пояс: %s\n\n"+
				"Сменить: /timezone <имя пояса>, например /timezone Asia/Novosibirsk",
			master.Timezone,
		))
		return
	}

	if err := h.masterService.SetTimezone(ctx, master.ID, args); err != nil {
		h.replyBusinessError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("✅ Часовой пояс изменён на %s.", args))
}

// HandleUnknown отвечает на сообщения, не совпавшие ни с одной командой
func (h *Handlers) HandleUnknown(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"🤔 Не понимаю эту команду. Список команд: /help")
}

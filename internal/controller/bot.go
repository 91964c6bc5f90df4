package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/controller/handlers"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(botInstance *bot.Bot, cmdHandlers *handlers.Handlers, logger *zap.Logger) *BotController {
	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует обработчики команд.
// Команды с аргументами матчатся по префиксу
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/timezone", bot.MatchTypePrefix, c.handlers.HandleTimezone)

	// Услуги
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/services", bot.MatchTypeExact, c.handlers.HandleServices)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addservice", bot.MatchTypePrefix, c.handlers.HandleAddService)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/editservice", bot.MatchTypePrefix, c.handlers.HandleEditService)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/toggleservice", bot.MatchTypePrefix, c.handlers.HandleToggleService)

	// Клиенты
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/clients", bot.MatchTypeExact, c.handlers.HandleClients)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addclient", bot.MatchTypePrefix, c.handlers.HandleAddClient)

	// Записи
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypePrefix, c.handlers.HandleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/day", bot.MatchTypePrefix, c.handlers.HandleDay)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypeExact, c.handlers.HandleWeek)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/confirm", bot.MatchTypePrefix, c.handlers.HandleConfirm)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/done", bot.MatchTypePrefix, c.handlers.HandleDone)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/noshow", bot.MatchTypePrefix, c.handlers.HandleNoShow)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancelbooking", bot.MatchTypePrefix, c.handlers.HandleCancelBooking)

	// Промокоды подписки
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/checkpromo", bot.MatchTypePrefix, c.handlers.HandleCheckPromo)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/promo", bot.MatchTypePrefix, c.handlers.HandlePromo)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "day", Description: "📅 Расписание на день"},
		{Command: "week", Description: "🗓 Расписание на неделю"},
		{Command: "book", Description: "➕ Записать клиента"},
		{Command: "services", Description: "💅 Мои услуги"},
		{Command: "clients", Description: "👥 Мои клиенты"},
		{Command: "promo", Description: "🎟 Применить промокод"},
		{Command: "timezone", Description: "🕐 Часовой пояс"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start запускает long-polling бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot")
	c.bot.Start(ctx)
	return nil
}

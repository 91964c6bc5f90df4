package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/controller/format"
)

// HandleServices обрабатывает команду /services
func (h *Handlers) HandleServices(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	master, ok := h.requireMaster(ctx, b, update)
	if !ok {
		return
	}

	services, err := h.catalogService.List(ctx, master.ID)
	if err != nil {
		h.replyBusinessError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	if len(services) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			"У вас пока нет услуг.\n\nДобавить: /addservice Название | минуты | цена")
		return
	}

	var sb strings.Builder
	sb.WriteString("💅 Ваши услуги:\n\n")
	for _, svc := range services {
		mark := "🟢"
		if !svc.IsActive {
			mark = "⚫️"
		}
		sb.WriteString(fmt.Sprintf("%s #%d %s — %s, %s\n",
			mark, svc.ID, svc.Name, format.Duration(svc.DurationMinutes), format.Price(svc.Price)))
	}
	sb.WriteString("\nИзменить: /editservice id | Название | минуты | цена\n")
	sb.WriteString("Включить или отключить: /toggleservice id")

	h.sendMessage(ctx, b, update.Message.Chat.ID, sb.String())
}

// HandleAddService обрабатывает команду /addservice
func (h *Handlers) HandleAddService(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	master, ok := h.requireMaster(ctx, b, update)
	if !ok {
		return
	}

	fields := splitFields(commandArgs(update.Message.Text))
	if len(fields) != 3 {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"Формат: /addservice Название | минуты | цена\nНапример: /addservice Маникюр | 90 | 1500")
		return
	}

	duration, err := strconv.Atoi(fields[1])
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Длительность должна быть числом минут.")
		return
	}
	price, err := strconv.Atoi(fields[2])
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Цена должна быть целым числом рублей.")
		return
	}

	svc, err := h.catalogService.Add(ctx, master.ID, fields[0], duration, price)
	if err != nil {
		h.replyBusinessError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"✅ Услуга добавлена!\n\n#%d %s — %s, %s",
		svc.ID, svc.Name, format.Duration(svc.DurationMinutes), format.Price(svc.Price)))
}

// HandleEditService обрабатывает команду /editservice
func (h *Handlers) HandleEditService(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	master, ok := h.requireMaster(ctx, b, update)
	if !ok {
		return
	}

	fields := splitFields(commandArgs(update.Message.Text))
	if len(fields) != 4 {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"Формат: /editservice id | Название | минуты | цена")
		return
	}

	serviceID, err := parseID(fields[0])
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Первым полем нужен номер услуги из /services.")
		return
	}
	duration, err := strconv.Atoi(fields[2])
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Длительность должна быть числом минут.")
		return
	}
	price, err := strconv.Atoi(fields[3])
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Цена должна быть целым числом рублей.")
		return
	}

	svc, err := h.catalogService.Edit(ctx, master.ID, serviceID, fields[1], duration, price)
	if err != nil {
		h.replyBusinessError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"✅ Услуга обновлена: #%d %s — %s, %s\n\nУже созданные записи не меняются.",
		svc.ID, svc.Name, format.Duration(svc.DurationMinutes), format.Price(svc.Price)))
}

// HandleToggleService обрабатывает команду /toggleservice
func (h *Handlers) HandleToggleService(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	master, ok := h.requireMaster(ctx, b, update)
	if !ok {
		return
	}

	serviceID, err := parseID(commandArgs(update.Message.Text))
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "Формат: /toggleservice id (номер из /services)")
		return
	}

	svc, err := h.catalogService.Toggle(ctx, master.ID, serviceID)
	if err != nil {
		h.replyBusinessError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	if svc.IsActive {
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("🟢 Услуга «%s» включена, на неё снова можно записывать.", svc.Name))
	} else {
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("⚫️ Услуга «%s» отключена. Существующие записи остались.", svc.Name))
	}
}

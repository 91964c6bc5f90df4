package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/controller/format"
)

// HandleClients обрабатывает команду /clients
func (h *Handlers) HandleClients(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	master, ok := h.requireMaster(ctx, b, update)
	if !ok {
		return
	}

	clients, err := h.clientService.List(ctx, master.ID)
	if err != nil {
		h.replyBusinessError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	if len(clients) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			"У вас пока нет клиентов.\n\nДобавить: /addclient Имя | телефон")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👥 %d %s:\n\n", len(clients), format.PluralizeClients(len(clients))))
	for _, c := range clients {
		sb.WriteString(fmt.Sprintf("• %s, %s", c.Name, c.Phone))
		if c.TotalVisits > 0 {
			sb.WriteString(fmt.Sprintf(" — %d %s на %s",
				c.TotalVisits, visitsWord(c.TotalVisits), format.Price(c.TotalSpent)))
		}
		sb.WriteString("\n")
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, sb.String())
}

// HandleAddClient обрабатывает команду /addclient
func (h *Handlers) HandleAddClient(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	master, ok := h.requireMaster(ctx, b, update)
	if !ok {
		return
	}

	fields := splitFields(commandArgs(update.Message.Text))
	if len(fields) != 2 {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"Формат: /addclient Имя | телефон\nНапример: /addclient Мария | +79991234567")
		return
	}

	client, err := h.clientService.Add(ctx, master.ID, fields[0], fields[1])
	if err != nil {
		h.replyBusinessError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"✅ Клиент добавлен: %s, %s\n\nЗаписать: /book %s | id услуги | дата время",
		client.Name, client.Phone, client.Phone))
}

func visitsWord(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "визит"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "визита"
	}
	return "визитов"
}

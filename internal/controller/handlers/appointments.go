package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/controller/format"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/service"
	"go.uber.org/zap"
)

// HandleBook обрабатывает команду /book
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
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
			"Формат: /book телефон | id услуги | дата время\n"+
				"Например: /book +79991234567 | 2 | 16.06 15:30")
		return
	}

	client, err := h.clientService.FindByPhone(ctx, master.ID, fields[0])
	if err != nil {
		h.replyBusinessError(ctx, b, update.Message.Chat.ID, err)
		return
	}
	if client == nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Клиент с таким телефоном не найден.\n\nДобавить: /addclient Имя | телефон")
		return
	}

	serviceID, err := parseID(fields[1])
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Вторым полем нужен номер услуги из /services.")
		return
	}

	loc := h.tz.Resolve(master.Timezone)
	startTime, err := h.parseDateTime(fields[2], loc)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Не удалось разобрать дату и время. Формат: 16.06.2025 15:30 или 16.06 15:30")
		return
	}

	appointment, err := h.appointmentService.Create(ctx, master.ID, client.ID, serviceID, startTime, "")
	if err != nil {
		if errors.Is(err, service.ErrAppointmentConflict) {
			h.metrics.AppointmentConflicts.Inc()
		}
		h.replyBusinessError(ctx, b, update.Message.Chat.ID, err)
		return
	}
	h.metrics.AppointmentsCreated.Inc()

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"✅ Запись создана!\n\n"+
			"#%d %s\n"+
			"📅 %s\n"+
			"🕐 %s\n"+
			"💅 %s, %s\n\n"+
			"Подтвердить: /confirm %d",
		appointment.ID, client.Name,
		format.DateWithWeekday(appointment.StartTime.In(loc)),
		format.TimeRange(appointment.StartTime.In(loc), appointment.EndTime.In(loc)),
		appointment.Service.Name, format.Price(appointment.Service.Price),
		appointment.ID))
}

// HandleDay обрабатывает команду /day
func (h *Handlers) HandleDay(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	master, ok := h.requireMaster(ctx, b, update)
	if !ok {
		return
	}

	loc := h.tz.Resolve(master.Timezone)
	day := h.clock.Now().In(loc)

	if args := commandArgs(update.Message.Text); args != "" {
		parsed, err := h.parseDate(args, loc)
		if err != nil {
			h.sendError(ctx, b, update.Message.Chat.ID,
				"❌ Не удалось разобрать дату. Формат: /day 16.06.2025 или /day 16.06")
			return
		}
		day = parsed
	}

	group, err := h.appointmentService.DaySchedule(ctx, master.ID, day)
	if err != nil {
		h.replyBusinessError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.sendHTML(ctx, b, update.Message.Chat.ID, h.renderDay(group, loc))
}

// HandleWeek обрабатывает команду /week
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	master, ok := h.requireMaster(ctx, b, update)
	if !ok {
		return
	}

	loc := h.tz.Resolve(master.Timezone)

	groups, err := h.appointmentService.Schedule(ctx, master.ID, h.clock.Now().In(loc), 7)
	if err != nil {
		h.replyBusinessError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	if len(groups) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "📅 На ближайшую неделю записей нет.")
		return
	}

	total := 0
	for _, group := range groups {
		total += len(group.Appointments)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🗓 <b>Расписание на неделю</b> — %d %s\n",
		total, format.PluralizeAppointments(total)))
	for _, group := range groups {
		sb.WriteString("\n")
		sb.WriteString(h.renderDay(group, loc))
	}

	h.sendHTML(ctx, b, update.Message.Chat.ID, sb.String())
}

// renderDay форматирует день расписания с итогом
func (h *Handlers) renderDay(group *service.DayGroup, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 <b>%s</b>\n", format.DateWithWeekday(group.Date.In(loc))))

	if len(group.Appointments) == 0 {
		sb.WriteString("Записей нет.\n")
		return sb.String()
	}

	for _, a := range group.Appointments {
		display := format.AppointmentStatus(a.Status)
		sb.WriteString(fmt.Sprintf("%s #%d %s — %s",
			display.Emoji,
			a.ID,
			format.TimeRange(a.StartTime.In(loc), a.EndTime.In(loc)),
			a.Client.Name,
		))
		sb.WriteString(fmt.Sprintf(", %s (%s)", a.Service.Name, h.appointmentAmount(a)))
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Итого за день: <b>%s</b>\n", format.Price(group.Total)))
	return sb.String()
}

// appointmentAmount сумма записи для показа: у завершённой — зафиксированная
// оплата, у активной — текущая цена услуги
func (h *Handlers) appointmentAmount(a *model.Appointment) string {
	if a.Status == model.AppointmentStatusCompleted && a.PaymentAmount != nil {
		return format.Price(*a.PaymentAmount)
	}
	if a.Status.IsActive() && a.Service != nil {
		return format.Price(a.Service.Price)
	}
	return format.Price(0)
}

// HandleConfirm обрабатывает команду /confirm
func (h *Handlers) HandleConfirm(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	master, ok := h.requireMaster(ctx, b, update)
	if !ok {
		return
	}

	appointmentID, err := parseID(commandArgs(update.Message.Text))
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "Формат: /confirm id (номер записи из /day)")
		return
	}

	appointment, err := h.appointmentService.Confirm(ctx, appointmentID, master.ID)
	if err != nil {
		h.replyBusinessError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	loc := h.tz.Resolve(master.Timezone)
	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"✅ Запись #%d подтверждена (%s, %s).",
		appointment.ID,
		format.Date(appointment.StartTime.In(loc)),
		format.TimeRange(appointment.StartTime.In(loc), appointment.EndTime.In(loc))))
}

// HandleDone обрабатывает команду /done: визит состоялся
func (h *Handlers) HandleDone(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	master, ok := h.requireMaster(ctx, b, update)
	if !ok {
		return
	}

	args, notes := splitNotes(commandArgs(update.Message.Text))
	parts := strings.Fields(args)
	if len(parts) < 1 || len(parts) > 2 {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"Формат: /done id [сумма] [| заметка]\nБез суммы берётся текущая цена услуги.")
		return
	}

	appointmentID, err := parseID(parts[0])
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Первым аргументом нужен номер записи.")
		return
	}

	var amount *int
	if len(parts) == 2 {
		v, err := strconv.Atoi(parts[1])
		if err != nil {
			h.sendError(ctx, b, update.Message.Chat.ID, "❌ Сумма должна быть целым числом рублей.")
			return
		}
		amount = &v
	}

	appointment, err := h.appointmentService.Complete(ctx, appointmentID, master.ID, true, amount, notes)
	if err != nil {
		h.replyBusinessError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	paid := 0
	if appointment.PaymentAmount != nil {
		paid = *appointment.PaymentAmount
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"✔️ Запись #%d завершена, оплата %s.", appointment.ID, format.Price(paid)))
}

// HandleNoShow обрабатывает команду /noshow: клиент не пришёл
func (h *Handlers) HandleNoShow(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	master, ok := h.requireMaster(ctx, b, update)
	if !ok {
		return
	}

	args, notes := splitNotes(commandArgs(update.Message.Text))
	appointmentID, err := parseID(strings.TrimSpace(args))
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "Формат: /noshow id [| заметка]")
		return
	}

	appointment, err := h.appointmentService.Complete(ctx, appointmentID, master.ID, false, nil, notes)
	if err != nil {
		h.replyBusinessError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"🚫 Запись #%d закрыта как неявка. Счётчики клиента не изменились.", appointment.ID))
}

// HandleCancelBooking обрабатывает команду /cancelbooking
func (h *Handlers) HandleCancelBooking(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	master, ok := h.requireMaster(ctx, b, update)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	parts := strings.SplitN(args, " ", 2)

	appointmentID, err := parseID(parts[0])
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"Формат: /cancelbooking id [причина]\nНапример: /cancelbooking 5 клиент заболел")
		return
	}

	reason := ""
	if len(parts) == 2 {
		reason = strings.TrimSpace(parts[1])
	}

	appointment, err := h.appointmentService.Cancel(ctx, appointmentID, master.ID, service.CancelActorMaster, reason)
	if err != nil {
		h.replyBusinessError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.logger.Info("Appointment cancelled via bot",
		zap.Int64("appointment_id", appointment.ID),
		zap.Int64("master_id", master.ID),
	)

	loc := h.tz.Resolve(master.Timezone)
	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"❌ Запись #%d на %s %s отменена. Время снова свободно.",
		appointment.ID,
		format.Date(appointment.StartTime.In(loc)),
		format.Time(appointment.StartTime.In(loc))))
}

// splitNotes отделяет заметку после «|» от остальных аргументов
func splitNotes(args string) (string, string) {
	parts := strings.SplitN(args, "|", 2)
	if len(parts) < 2 {
		return strings.TrimSpace(args), ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}

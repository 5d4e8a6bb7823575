package handler

import (
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vacation-planner/internal/models"
	"vacation-planner/internal/render"
)

// Telegram rejects callback data longer than this.
const maxCallbackData = 64

func (h *Handler) sendList(chatID int64, area string) {
	records := h.planner.FilterByArea(area)
	rows := render.Table(records, h.planner.Colors())

	title := "🌴 Vacations"
	if area != models.AllAreas {
		title = fmt.Sprintf("🌴 Vacations · %s", area)
	}

	msg := tgbotapi.NewMessage(chatID, title+"\n\n"+render.TableText(rows))
	if len(rows) > 0 {
		msg.ReplyMarkup = recordKeyboard(rows)
	}
	h.send(msg)
}

func recordKeyboard(rows []render.Row) tgbotapi.InlineKeyboardMarkup {
	buttons := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ #"+row.ID+" "+row.EmployeeName, callbackEdit+row.ID),
			tgbotapi.NewInlineKeyboardButtonData("❌ #"+row.ID, callbackDelete+row.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(buttons...)
}

func (h *Handler) sendAreas(chatID int64) {
	areas := h.planner.Areas()
	if len(areas) == 0 {
		h.sendText(chatID, "No vacations registered.")
		return
	}

	buttons := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("All areas", callbackArea+models.AllAreas)),
	}
	for _, area := range areas {
		data := callbackArea + area
		if area == "" || len(data) > maxCallbackData {
			continue
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(area, data)))
	}

	msg := tgbotapi.NewMessage(chatID, "🏷 Filter by area:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	h.send(msg)
}

func (h *Handler) deleteRecord(chatID int64, id string) {
	ctx, cancel := h.context()
	defer cancel()

	err := h.planner.Delete(ctx, id)
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		h.sendText(chatID, fmt.Sprintf("ℹ️ Record #%s is already gone. Use /list to refresh.", id))
		return
	case err != nil:
		h.logger.WithError(err).WithField("record_id", id).Error("Failed to delete record")
		h.sendText(chatID, "❌ Could not remove the record: "+err.Error())
		return
	}

	// A form still pointing at the removed record can no longer be saved
	if sess, exists := h.sessions[chatID]; exists && sess.form.TargetID == id {
		delete(h.sessions, chatID)
	}

	h.sendText(chatID, fmt.Sprintf("🗑 Record #%s removed.", id))
}

// sendCalendar shows one month. month is YYYY-MM or MM/YYYY; empty means the
// month of the earliest vacation.
func (h *Handler) sendCalendar(chatID int64, month string) {
	records := h.planner.Records()

	day := render.InitialDate(records)
	if month != "" {
		parsed, err := parseMonth(month)
		if err != nil {
			h.sendText(chatID, "❌ Invalid month. Use YYYY-MM, for example /calendar 2026-07")
			return
		}
		day = parsed
	}

	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	prev := first.AddDate(0, -1, 0).Format("2006-01")
	next := first.AddDate(0, 1, 0).Format("2006-01")

	msg := tgbotapi.NewMessage(chatID, render.MonthAgenda(records, day))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ "+prev, callbackMonth+prev),
		tgbotapi.NewInlineKeyboardButtonData(next+" ▶️", callbackMonth+next),
	))
	h.send(msg)
}

func parseMonth(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01", "01/2006", "01.2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid month %q", models.ErrValidation, s)
}

package handler

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vacation-planner/internal/models"
	"vacation-planner/internal/render"
)

const helpText = `🌴 Vacation planner

📋 Records:
/add - Register a new vacation
/list [area] - Show vacations, optionally for one area
/areas - Pick an area to filter by
/cancel - Close the open form

📅 Calendar:
/calendar [YYYY-MM] - Vacations of a month
/ics - Download the calendar as an .ics file

🛠 Utilities:
/reload - Reload records from storage
/help - Show this message

💡 Each line of /list has buttons to edit ✏️ or remove ❌ the record.
Dates are accepted as YYYY-MM-DD or dd/mm/yyyy.`

func (h *Handler) handleCommand(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start", "help":
		h.sendText(chatID, helpText)
	case "add", "new":
		h.startCreate(chatID)
	case "cancel":
		h.cancelForm(chatID)
	case "list":
		area := models.AllAreas
		if args != "" {
			area = args
		}
		h.sendList(chatID, area)
	case "areas":
		h.sendAreas(chatID)
	case "calendar":
		h.sendCalendar(chatID, args)
	case "ics":
		h.sendICS(chatID)
	case "reload":
		h.reload(chatID)
	default:
		h.sendText(chatID, "❌ Unknown command. Use /help for the list of commands.")
	}
}

func (h *Handler) reload(chatID int64) {
	ctx, cancel := h.context()
	defer cancel()

	records, err := h.planner.LoadAll(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Reload failed")
		h.sendText(chatID, "⚠️ Could not load vacations, the list is empty until storage is reachable: "+err.Error())
		return
	}

	h.sendText(chatID, fmt.Sprintf("🔄 Loaded %d vacation records.", len(records)))
}

func (h *Handler) sendICS(chatID int64) {
	data, err := render.ICS(h.planner.Records(), h.now())
	if errors.Is(err, render.ErrNoEvents) {
		h.sendText(chatID, "No vacations registered.")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to build calendar file")
		h.sendText(chatID, "❌ Could not build the calendar file: "+err.Error())
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "vacations.ics", Bytes: data})
	doc.Caption = "📅 Vacation calendar"
	h.send(doc)
}

package handler

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"vacation-planner/internal/colors"
	"vacation-planner/internal/form"
	"vacation-planner/internal/models"
)

// Messenger is the part of the Telegram client the handler talks through.
type Messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Planner is the vacation service as seen by the bot.
type Planner interface {
	form.Recorder
	LoadAll(ctx context.Context) ([]models.VacationRecord, error)
	Delete(ctx context.Context, id string) error
	FilterByArea(area string) []models.VacationRecord
	Records() []models.VacationRecord
	Areas() []string
	Find(id string) (models.VacationRecord, bool)
	Overlapping(record models.VacationRecord) []models.VacationRecord
	Colors() *colors.Palette
}

// Callback data prefixes.
const (
	callbackEdit   = "edit:"
	callbackDelete = "delete:"
	callbackArea   = "area:"
	callbackMonth  = "month:"
)

type Handler struct {
	client   Messenger
	planner  Planner
	sessions map[int64]*session
	timeout  time.Duration
	now      func() time.Time
	logger   logrus.FieldLogger
}

func NewHandler(client Messenger, planner Planner, timeout time.Duration, logger logrus.FieldLogger) *Handler {
	return &Handler{
		client:   client,
		planner:  planner,
		sessions: make(map[int64]*session),
		timeout:  timeout,
		now:      time.Now,
		logger:   logger,
	}
}

// HandleUpdates processes updates until the channel is closed.
func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		h.HandleUpdate(update)
	}
}

func (h *Handler) HandleUpdate(update tgbotapi.Update) {
	// Inline buttons
	if update.CallbackQuery != nil {
		h.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	h.handleMessage(update.Message)
}

func (h *Handler) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	// Stop the loading indicator on the button
	defer h.client.Request(tgbotapi.NewCallback(callback.ID, ""))

	if callback.Message == nil || callback.Message.Chat == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	h.logger.WithFields(logrus.Fields{"chat_id": chatID, "callback": data}).Debug("Callback received")

	switch {
	case strings.HasPrefix(data, callbackEdit):
		h.startEdit(chatID, strings.TrimPrefix(data, callbackEdit))
	case strings.HasPrefix(data, callbackDelete):
		h.deleteRecord(chatID, strings.TrimPrefix(data, callbackDelete))
	case strings.HasPrefix(data, callbackArea):
		h.sendList(chatID, strings.TrimPrefix(data, callbackArea))
	case strings.HasPrefix(data, callbackMonth):
		h.sendCalendar(chatID, strings.TrimPrefix(data, callbackMonth))
	default:
		h.logger.WithField("callback", data).Warn("Unknown callback data")
	}
}

func (h *Handler) handleMessage(message *tgbotapi.Message) {
	if message.Chat == nil {
		return
	}
	chatID := message.Chat.ID

	user := ""
	if message.From != nil {
		user = message.From.UserName
	}
	h.logger.WithField("chat_id", chatID).Infof("[%s] %s", user, message.Text)

	// Commands win over an open form so /cancel and /help always work
	if message.IsCommand() {
		h.handleCommand(message)
		return
	}

	if sess, exists := h.sessions[chatID]; exists {
		h.handleFormStep(chatID, sess, strings.TrimSpace(message.Text))
		return
	}

	h.sendText(chatID, "🤔 I did not understand that. Use /help for the list of commands.")
}

func (h *Handler) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), h.timeout)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.client.Send(c); err != nil {
		h.logger.WithError(err).Error("Failed to send message")
	}
}

func (h *Handler) sendText(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

package handler

import (
	"errors"
	"fmt"

	"vacation-planner/internal/form"
	"vacation-planner/internal/models"
	"vacation-planner/internal/render"
)

type step int

const (
	stepName step = iota
	stepArea
	stepDates
)

// keepValue in reply to a prompt keeps the value already in the form.
const keepValue = "-"

// session is the open form of one chat.
type session struct {
	form  form.State
	step  step
	draft models.RecordInput
}

func (h *Handler) startCreate(chatID int64) {
	sess := &session{draft: models.DefaultInput(h.now())}
	sess.form = sess.form.OpenNew()
	h.sessions[chatID] = sess

	h.sendText(chatID, `🌴 New vacation

Step 1 of 3:
✏️ Send the employee name:`)
}

func (h *Handler) startEdit(chatID int64, id string) {
	record, ok := h.planner.Find(id)
	if !ok {
		h.sendText(chatID, fmt.Sprintf("ℹ️ Record #%s no longer exists. Use /list to refresh.", id))
		return
	}

	sess := &session{draft: record.Input()}
	sess.form = sess.form.BeginEdit(id)
	h.sessions[chatID] = sess

	h.sendText(chatID, fmt.Sprintf(`✏️ Editing #%s

Step 1 of 3:
Current name: %s
Send the new name, or "-" to keep it:`, id, record.EmployeeName))
}

func (h *Handler) cancelForm(chatID int64) {
	if _, exists := h.sessions[chatID]; !exists {
		h.sendText(chatID, "Nothing to cancel.")
		return
	}
	delete(h.sessions, chatID)
	h.sendText(chatID, "❌ Form closed, nothing was saved.")
}

func (h *Handler) handleFormStep(chatID int64, sess *session, text string) {
	if text == "" {
		h.sendText(chatID, "✏️ Please reply with text, or /cancel to close the form.")
		return
	}

	switch sess.step {
	case stepName:
		if text != keepValue {
			sess.draft.EmployeeName = text
		}
		if sess.draft.EmployeeName == "" {
			h.sendText(chatID, "❌ The employee name is required. Send the name:")
			return
		}
		sess.step = stepArea

		current := ""
		if sess.form.Editing() && sess.draft.Area != "" {
			current = "\nCurrent area: " + sess.draft.Area
		}
		h.sendText(chatID, fmt.Sprintf(`Step 2 of 3:
✅ Name: %s%s
✏️ Send the area (or "-" to leave it as is):`, sess.draft.EmployeeName, current))

	case stepArea:
		if text != keepValue {
			sess.draft.Area = text
		}
		sess.step = stepDates

		h.sendText(chatID, fmt.Sprintf(`Step 3 of 3:
Current period: %s → %s
✏️ Send the first and last day, for example 2026-07-01 2026-07-14 or 01/07/2026 14/07/2026 (or "-" to keep it):`,
			models.FormatLocale(sess.draft.StartDate), models.FormatLocale(sess.draft.EndDate)))

	case stepDates:
		if text != keepValue {
			start, end, err := models.ParseDateRange(text)
			if err != nil {
				h.sendText(chatID, "❌ "+err.Error()+"\nSend the period again:")
				return
			}
			sess.draft.StartDate, sess.draft.EndDate = start, end
		}
		h.submit(chatID, sess)
	}
}

func (h *Handler) submit(chatID int64, sess *session) {
	ctx, cancel := h.context()
	defer cancel()

	state, record, err := form.Submit(ctx, h.planner, sess.form, sess.draft)
	if errors.Is(err, models.ErrRecordNotFound) {
		delete(h.sessions, chatID)
		h.sendText(chatID, fmt.Sprintf("ℹ️ Record #%s no longer exists. Use /list to refresh.", sess.form.TargetID))
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Warn("Form submit failed")
		h.sendText(chatID, "❌ Could not save: "+err.Error()+"\nSend the period again to retry, or /cancel.")
		return
	}
	sess.form = state
	if !sess.form.Open {
		delete(h.sessions, chatID)
	}

	rows := render.Table([]models.VacationRecord{record}, h.planner.Colors())
	reply := "✅ Saved!\n\n" + render.TableText(rows)
	if overlaps := h.planner.Overlapping(record); len(overlaps) > 0 {
		reply += "\n\n⚠️ Overlaps with:\n" + render.TableText(render.Table(overlaps, h.planner.Colors()))
	}
	h.sendText(chatID, reply)
}

package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/state"
	"github.com/Freeeeeet/postqueue_bot/internal/queue"
	"github.com/Freeeeeet/postqueue_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ErrInvalidRescheduleInput ввод не похож на "HH:MM" или "YYYY-MM-DD HH:MM"
var ErrInvalidRescheduleInput = errors.New("invalid reschedule input")

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния оператора
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	d, ok := h.stateManager.Get(telegramID)
	if !ok {
		h.logger.Debug("No active dialog, ignoring message",
			zap.Int64("telegram_id", telegramID))
		return
	}

	h.logger.Info("Dialog input",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(d.State)))

	switch d.State {
	case state.StateRescheduleTime:
		h.handleRescheduleInput(ctx, b, update, d)
	case state.StateTimeslotsInput:
		h.handleTimeslotsInput(ctx, b, update)
	default:
		h.logger.Warn("Unknown dialog state",
			zap.Int64("telegram_id", telegramID),
			zap.String("state", string(d.State)))
		h.stateManager.ClearState(telegramID)
	}
}

// handleRescheduleInput переносит пост на введённое время (и дату)
func (h *Handlers) handleRescheduleInput(ctx context.Context, b *bot.Bot, update *models.Update, d state.Dialog) {
	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	sess, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	date, clock, err := parseRescheduleInput(update.Message.Text, d.Date, sess.Now().Location())
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ "+queue.MsgInvalidTime+" To change the date send YYYY-MM-DD HH:MM.")
		return
	}

	// Дата из ввода остаётся в диалоге, даже если время не подошло
	if !date.Equal(d.Date) {
		d.Date = date
		h.stateManager.Set(telegramID, d)
	}

	v, err := sess.Reschedule(ctx, d.PostID, date, clock, telegramID)
	if err != nil {
		h.logger.Error("Failed to reschedule post",
			zap.String("post_id", d.PostID),
			zap.Error(err))
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}
	if !v.Valid {
		post, found := sess.Post(d.PostID)
		if !found {
			h.stateManager.ClearState(telegramID)
			h.sendError(ctx, b, chatID, common.ErrorMessage(service.ErrPostNotInQueue))
			return
		}
		text, kb := common.RescheduleScreen(post, date, v.Message)
		h.sendMessage(ctx, b, chatID, text, kb)
		return
	}

	h.stateManager.ClearState(telegramID)
	h.logger.Info("Post rescheduled",
		zap.Int64("telegram_id", telegramID),
		zap.String("post_id", d.PostID),
		zap.Time("date", date),
		zap.String("time", clock))

	h.sendMessage(ctx, b, chatID, "✅ Scheduled for "+formatting.FormatDate(date)+" "+clock, nil)
	h.sendQueue(ctx, b, chatID, sess, common.PageOf(sess.View(), d.PostID))
}

// handleTimeslotsInput сохраняет новую сетку таймслотов
func (h *Handlers) handleTimeslotsInput(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	sess, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	cfg, err := service.ParseTimeslots(update.Message.Text)
	if err != nil {
		h.logger.Debug("Invalid timeslots input", zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\n"+err.Error())
		return
	}

	if err := sess.UpdateTimeslots(ctx, cfg); err != nil {
		h.logger.Error("Failed to update timeslots",
			zap.String("client_id", sess.Client().ID),
			zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	h.stateManager.ClearState(telegramID)
	text, kb := common.TimeslotsScreen(sess.Timeslots())
	h.sendMessage(ctx, b, chatID, "✅ Timeslots saved\n\n"+text, kb)
}

// parseRescheduleInput разбирает "HH:MM" (дата из диалога) или "YYYY-MM-DD HH:MM"
func parseRescheduleInput(text string, dialogDate time.Time, loc *time.Location) (time.Time, string, error) {
	fields := strings.Fields(text)

	var date time.Time
	var clock string
	switch len(fields) {
	case 1:
		date, clock = dialogDate, fields[0]
	case 2:
		parsed, err := time.ParseInLocation("2006-01-02", fields[0], loc)
		if err != nil {
			return time.Time{}, "", ErrInvalidRescheduleInput
		}
		date, clock = parsed, fields[1]
	default:
		return time.Time{}, "", ErrInvalidRescheduleInput
	}

	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, "", ErrInvalidRescheduleInput
	}
	// "9:05" -> "09:05"
	return date, t.Format("15:04"), nil
}

package handlers

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 <b>Commands</b>\n\n" +
	"/clients - Pick the client whose queue you manage\n" +
	"/queue - Scheduled posts grouped by day\n" +
	"/calendar - Week view with published and failed posts\n" +
	"/timeslots - Posting times for each weekday\n" +
	"/history - Recent schedule changes\n" +
	"/cancel - Stop the current dialog\n\n" +
	"In the queue tap ✋ on a post, then tap the slot to drop it on. " +
	"A slot on the same day swaps the posts. A slot on another day asks for the time."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From
	user, err := h.userService.RegisterUser(
		ctx,
		from.ID,
		from.Username,
		from.FirstName,
		from.LastName,
		from.LanguageCode,
	)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", from.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Registration failed. Please try again later.")
		return
	}

	text := fmt.Sprintf("👋 Hi, %s!\n\nThis bot manages the LinkedIn posting queue of your agency's clients.\n\n",
		html.EscapeString(user.FirstName))
	if user.HasAgency() {
		text += "Start with /clients to pick a client.\n\n"
	} else {
		text += "⚠️ Your account is not attached to an agency yet. Ask an admin to add you.\n\n"
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, text+helpText, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleClients обрабатывает команду /clients
func (h *Handlers) HandleClients(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	list, err := h.userService.ListClients(ctx, user)
	if err != nil {
		h.logger.Error("Failed to list clients", zap.Int64("telegram_id", user.TelegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}

	current := ""
	if user.CurrentClientID != nil {
		current = *user.CurrentClientID
	}
	text, kb := common.ClientsScreen(list, current)
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleQueue обрабатывает команду /queue
func (h *Handlers) HandleQueue(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}
	sess.EndDrag()
	h.sendQueue(ctx, b, update.Message.Chat.ID, sess, 0)
}

// HandleCalendar обрабатывает команду /calendar
func (h *Handlers) HandleCalendar(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	png, caption, kb, err := common.WeekView(ctx, sess, 0)
	if err != nil {
		h.logger.Error("Failed to render week", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}
	h.sendPhoto(ctx, b, update.Message.Chat.ID, png, caption, kb)
}

// HandleTimeslots обрабатывает команду /timeslots
func (h *Handlers) HandleTimeslots(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}
	text, kb := common.TimeslotsScreen(sess.Timeslots())
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleHistory обрабатывает команду /history
func (h *Handlers) HandleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	events, err := h.queueService.History(ctx, sess.Client().ID, historyLimit)
	if err != nil {
		h.logger.Error("Failed to load history", zap.String("client_id", sess.Client().ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, common.HistoryScreen(events, sess.Now().Location()), nil)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Nothing to cancel.", nil)
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Cancelled.\n\nBack to the queue: /queue", nil)
}

package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/clients"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/queueview"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/timeslots"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	switch {
	case data == common.CbNoop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Clients =====
	case strings.HasPrefix(data, common.CbClient):
		clients.HandleSelectClient(ctx, b, callback, h)

	// ===== Queue: drag and drop =====
	case strings.HasPrefix(data, common.CbDrag):
		queueview.HandleDrag(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbDrop):
		queueview.HandleDrop(ctx, b, callback, h)
	case data == common.CbDragEnd:
		queueview.HandleDragEnd(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbReschedule):
		queueview.HandleReschedule(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbTime):
		queueview.HandleTime(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbRemove):
		queueview.HandleRemove(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbTop):
		queueview.HandleMoveToTop(ctx, b, callback, h)

	// ===== Queue: view =====
	case data == common.CbHide:
		queueview.HandleToggleEmpty(ctx, b, callback, h)
	case data == common.CbMore:
		queueview.HandleLoadMore(ctx, b, callback, h)
	case data == common.CbPrev:
		queueview.HandleLoadPrevious(ctx, b, callback, h)
	case data == common.CbRefresh:
		queueview.HandleRefresh(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbPage):
		queueview.HandlePage(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbDay):
		queueview.HandleDay(ctx, b, callback, h)

	// ===== Calendar =====
	case strings.HasPrefix(data, common.CbCalendarWeek):
		queueview.HandleCalendarWeek(ctx, b, callback, h)
	case data == common.CbCalendar:
		queueview.HandleCalendar(ctx, b, callback, h)

	// ===== Timeslots =====
	case data == common.CbTimeslots:
		timeslots.HandleView(ctx, b, callback, h)
	case data == common.CbTimeslotsEdit:
		timeslots.HandleEdit(ctx, b, callback, h)

	// ===== Unknown Callback =====
	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Unknown action")
	}

	h.Logger.Debug("Callback routed", zap.String("data", data))
}

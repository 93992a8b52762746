package queueview

import (
	"context"
	"strconv"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/postqueue_bot/internal/queue"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ShowQueue перерисовывает текущее сообщение экраном очереди
func ShowQueue(hc *common.HandlerContext, page int) error {
	text, kb := common.QueueScreen(common.QueueInput(hc.Session, page))
	return hc.EditMessage(text, kb)
}

// showQueueAt перерисовывает очередь на странице слота
func showQueueAt(hc *common.HandlerContext, slotID string) {
	page := common.PageOf(hc.Session.View(), slotID)
	if err := ShowQueue(hc, page); err != nil {
		hc.Handler.Logger.Error("Failed to render queue", zap.Error(err))
	}
}

// HandleRefresh перечитывает источники и показывает очередь.
// Служит и кнопкой "назад к очереди": активный жест и диалог сбрасываются.
func HandleRefresh(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.Session.EndDrag()
		hc.ClearState()

		if err := hc.Session.Refresh(ctx); err != nil {
			h.Logger.Warn("Queue refresh incomplete",
				zap.String("client_id", hc.Session.Client().ID),
				zap.Error(err))
			hc.Answer("⚠️ Some months could not be refreshed")
		} else {
			hc.Answer("🔄 Updated")
		}

		if err := ShowQueue(hc, 0); err != nil {
			h.Logger.Error("Failed to render queue", zap.Error(err))
		}
	})
}

// HandleToggleEmpty переключает показ пустых слотов
func HandleToggleEmpty(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		policy := hc.Session.ToggleEmptySlots()
		h.Logger.Debug("Empty slot policy changed",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("policy", policy.String()))

		if policy == queue.EmptySlotsHidden {
			hc.Answer("Empty slots hidden")
		} else {
			hc.Answer("Empty slots shown")
		}
		if err := ShowQueue(hc, 0); err != nil {
			h.Logger.Error("Failed to render queue", zap.Error(err))
		}
	})
}

// HandleLoadMore добавляет в окно следующий месяц
func HandleLoadMore(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		m, err := hc.Session.LoadMoreDays(ctx)
		answerMonth(hc, m, err)

		view := hc.Session.View()
		if err := ShowQueue(hc, common.QueuePages(view)-1); err != nil {
			h.Logger.Error("Failed to render queue", zap.Error(err))
		}
	})
}

// HandleLoadPrevious добавляет в окно предыдущий месяц
func HandleLoadPrevious(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		m, err := hc.Session.LoadPreviousDays(ctx)
		answerMonth(hc, m, err)

		if err := ShowQueue(hc, 0); err != nil {
			h.Logger.Error("Failed to render queue", zap.Error(err))
		}
	})
}

func answerMonth(hc *common.HandlerContext, m queue.MonthKey, err error) {
	label := formatting.FormatMonth(m.Year, m.Month)
	if err != nil {
		hc.Handler.Logger.Warn("Month load failed",
			zap.String("month", m.String()),
			zap.Error(err))
		hc.AnswerAlert("⚠️ Could not load " + label + ". Tap Refresh to retry.")
		return
	}
	hc.Answer("📥 Loaded " + label)
}

// HandlePage переключает страницу очереди
func HandlePage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	arg, err := common.ParseArgFromCallback(callback.Data, common.CbPage)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}
	page, err := strconv.Atoi(arg)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.Answer("")
		if err := ShowQueue(hc, page); err != nil {
			h.Logger.Error("Failed to render queue page", zap.Int("page", page), zap.Error(err))
		}
	})
}

// HandleDay показывает все посты выбранного дня
func HandleDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	arg, err := common.ParseArgFromCallback(callback.Data, common.CbDay)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		now := hc.Session.Now()
		date, err := time.ParseInLocation("2006-01-02", arg, now.Location())
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "parse day")
			return
		}
		if err := hc.Session.EnsureRange(ctx, date, date); err != nil {
			h.Logger.Warn("Day month not loaded", zap.String("date", arg), zap.Error(err))
		}

		group, found := hc.Session.DayView(date)
		text, kb := common.DayScreen(group, found, date, now)
		hc.Answer("")
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to render day", zap.String("date", arg), zap.Error(err))
		}
	})
}

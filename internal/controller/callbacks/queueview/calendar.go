package queueview

import (
	"context"
	"strconv"

	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleCalendar показывает текущую неделю картинкой
func HandleCalendar(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		showWeek(hc, 0)
	})
}

// HandleCalendarWeek листает недели
func HandleCalendarWeek(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	arg, err := common.ParseArgFromCallback(callback.Data, common.CbCalendarWeek)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}
	offset, err := strconv.Atoi(arg)
	if err != nil {
		h.Logger.Error("Failed to parse week offset", zap.String("data", callback.Data), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		showWeek(hc, offset)
	})
}

func showWeek(hc *common.HandlerContext, offset int) {
	png, caption, kb, err := common.WeekView(hc.Ctx, hc.Session, offset)
	if err != nil {
		common.HandleError(hc, err, "render week")
		return
	}

	hc.Answer("")
	if err := hc.ReplacePhoto(png, caption, kb); err != nil {
		hc.Handler.Logger.Error("Failed to send week image",
			zap.Int("offset", offset),
			zap.Error(err))
	}
}

package timeslots

import (
	"context"

	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/state"
	"github.com/Freeeeeet/postqueue_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleView показывает сетку таймслотов клиента
func HandleView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		text, kb := common.TimeslotsScreen(hc.Session.Timeslots())
		hc.Answer("")
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to render timeslots", zap.Error(err))
		}
	})
}

// HandleEdit ждёт новую сетку текстом
func HandleEdit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		snapshot := hc.Session.Timeslots()
		if !snapshot.Initialized {
			hc.AnswerAlert(common.ErrorMessage(service.ErrTimeslotsNotReady))
			return
		}

		d := state.Dialog{State: state.StateTimeslotsInput}
		if hc.Message != nil {
			d.MessageID = hc.Message.ID
		}
		hc.SetDialog(d)

		kb := keyboard.NewBuilder().
			Row(keyboard.CancelButton(common.CbDragEnd)).
			Build()
		hc.Answer("")
		if err := hc.EditMessage(common.TimeslotsPrompt(snapshot.Config), kb); err != nil {
			h.Logger.Error("Failed to render timeslots prompt", zap.Error(err))
		}
	})
}

package clients

import (
	"context"

	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/queueview"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleSelectClient делает клиента текущим и открывает его очередь
func HandleSelectClient(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	clientID, err := common.ParseArgFromCallback(callback.Data, common.CbClient)
	if err != nil {
		h.Logger.Error("Failed to parse client ID", zap.String("data", callback.Data), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		client, err := h.UserService.SelectClient(ctx, hc.User, clientID)
		if err != nil {
			common.HandleError(hc, err, "select client")
			return
		}

		// Диалог относился к очереди прежнего клиента
		hc.ClearState()

		if err := hc.RequireSession(); err != nil {
			common.HandleError(hc, err, "open queue")
			return
		}

		hc.Answer("👥 " + client.Name)
		if err := queueview.ShowQueue(hc, 0); err != nil {
			h.Logger.Error("Failed to render queue",
				zap.String("client_id", client.ID),
				zap.Error(err))
		}
	})
}

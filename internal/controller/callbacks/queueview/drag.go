package queueview

import (
	"context"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/state"
	"github.com/Freeeeeet/postqueue_bot/internal/queue"
	"github.com/Freeeeeet/postqueue_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleDrag берёт пост из очереди и показывает слоты, куда его можно бросить
func HandleDrag(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	postID, err := common.ParseArgFromCallback(callback.Data, common.CbDrag)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		// Кнопка со старого сообщения: прежний жест бросаем
		if prev, ok := hc.Session.DragSource(); ok {
			h.Logger.Debug("Replacing active drag",
				zap.String("previous_post_id", prev.ID()),
				zap.String("post_id", postID))
			hc.Session.EndDrag()
		}

		if err := hc.Session.StartDrag(postID); err != nil {
			common.HandleError(hc, err, "start drag")
			return
		}
		source, ok := hc.Session.DragSource()
		if !ok {
			common.HandleError(hc, queue.ErrNoActiveDrag, "start drag")
			return
		}

		h.Logger.Info("Drag started",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("post_id", postID))

		text, kb := common.DragScreen(source, hc.Session.View())
		hc.Answer("✋ Pick a slot")
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to render drag screen", zap.Error(err))
		}
	})
}

// HandleDrop бросает пост на выбранный слот
func HandleDrop(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	slotID, err := common.ParseArgFromCallback(callback.Data, common.CbDrop)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		// В Telegram нет наведения: нажатие на слот это наведение и сразу бросание
		if err := hc.Session.DragOver(slotID); err != nil {
			common.HandleError(hc, err, "drag over")
			return
		}
		outcome, err := hc.Session.Drop(slotID)
		if err != nil {
			common.HandleError(hc, err, "drop")
			return
		}

		h.Logger.Info("Post dropped",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("post_id", outcome.Source.ID()),
			zap.String("slot_id", slotID),
			zap.String("outcome", outcome.Kind.String()))

		switch outcome.Kind {
		case queue.OutcomeReorder:
			applyReorder(hc, outcome)
		case queue.OutcomeRescheduleDialog:
			openReschedule(hc, outcome.Source.Post.ID, outcome.TargetDate, "")
		default:
			hc.Answer("Nothing changed")
			showQueueAt(hc, outcome.Source.ID())
		}
	})
}

func applyReorder(hc *common.HandlerContext, outcome queue.DropOutcome) {
	v, err := hc.Session.ApplyReorder(hc.Ctx, outcome, hc.TelegramID)
	switch {
	case err != nil:
		common.HandleError(hc, err, "apply reorder")
	case !v.Valid:
		hc.AnswerAlert("⚠️ " + v.Message)
	default:
		hc.Answer("✅ Moved to " + outcome.Target.Clock())
	}
	showQueueAt(hc, outcome.Source.ID())
}

// openReschedule начинает диалог переноса с предзаполненной датой
func openReschedule(hc *common.HandlerContext, postID string, date time.Time, problem string) {
	post, ok := hc.Session.Post(postID)
	if !ok {
		common.HandleError(hc, service.ErrPostNotInQueue, "open reschedule")
		return
	}

	d := state.Dialog{
		State:  state.StateRescheduleTime,
		PostID: postID,
		Date:   date,
	}
	if hc.Message != nil {
		d.MessageID = hc.Message.ID
	}
	hc.SetDialog(d)

	text, kb := common.RescheduleScreen(post, date, problem)
	hc.Answer("")
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to render reschedule dialog", zap.Error(err))
	}
}

// HandleDragEnd отменяет жест и диалог переноса
func HandleDragEnd(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		source, dragging := hc.Session.DragSource()
		hc.Session.EndDrag()
		hc.ClearState()

		hc.Answer("Cancelled")
		if dragging {
			showQueueAt(hc, source.ID())
			return
		}
		if err := ShowQueue(hc, 0); err != nil {
			h.Logger.Error("Failed to render queue", zap.Error(err))
		}
	})
}

// HandleReschedule открывает диалог переноса на дате самого поста
func HandleReschedule(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	postID, err := common.ParseArgFromCallback(callback.Data, common.CbReschedule)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.Session.EndDrag()

		post, ok := hc.Session.Post(postID)
		if !ok {
			common.HandleError(hc, service.ErrPostNotInQueue, "reschedule")
			return
		}
		date := hc.Session.Now()
		if at, ok := post.ScheduledTime(); ok {
			date = at.In(date.Location())
		}
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

		openReschedule(hc, postID, date, "")
	})
}

// HandleTime переносит пост из диалога на выбранное время
func HandleTime(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	clock, err := common.ParseArgFromCallback(callback.Data, common.CbTime)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		d, ok := hc.Dialog()
		if !ok || d.State != state.StateRescheduleTime {
			common.HandleError(hc, common.ErrNoDialog, "reschedule time")
			return
		}

		v, err := hc.Session.Reschedule(ctx, d.PostID, d.Date, clock, hc.TelegramID)
		if err != nil {
			hc.ClearState()
			common.HandleError(hc, err, "reschedule")
			showQueueAt(hc, d.PostID)
			return
		}
		if !v.Valid {
			openReschedule(hc, d.PostID, d.Date, v.Message)
			return
		}

		hc.ClearState()
		h.Logger.Info("Post rescheduled",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("post_id", d.PostID),
			zap.Time("date", d.Date),
			zap.String("time", clock))

		hc.Answer("✅ Scheduled for " + formatting.FormatDate(d.Date) + " " + clock)
		showQueueAt(hc, d.PostID)
	})
}

// HandleRemove снимает пост с плана
func HandleRemove(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	postID, err := common.ParseArgFromCallback(callback.Data, common.CbRemove)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		page := common.PageOf(hc.Session.View(), postID)
		hc.Session.EndDrag()

		if err := hc.Session.RemoveFromQueue(ctx, postID, hc.TelegramID); err != nil {
			common.HandleError(hc, err, "remove from queue")
		} else {
			h.Logger.Info("Post removed from queue",
				zap.Int64("telegram_id", hc.TelegramID),
				zap.String("post_id", postID))
			hc.Answer("🗑 Moved back to drafts")
		}

		if err := ShowQueue(hc, page); err != nil {
			h.Logger.Error("Failed to render queue", zap.Error(err))
		}
	})
}

// HandleMoveToTop ставит пост перед первым в очереди
func HandleMoveToTop(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	postID, err := common.ParseArgFromCallback(callback.Data, common.CbTop)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.Session.EndDrag()

		if err := hc.Session.MoveToTop(ctx, postID, hc.TelegramID); err != nil {
			common.HandleError(hc, err, "move to top")
			showQueueAt(hc, postID)
			return
		}

		h.Logger.Info("Post moved to top",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("post_id", postID))
		hc.Answer("⬆️ Moved to the top")
		if err := ShowQueue(hc, 0); err != nil {
			h.Logger.Error("Failed to render queue", zap.Error(err))
		}
	})
}

package common

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"github.com/Freeeeeet/postqueue_bot/internal/queue"
	"github.com/Freeeeeet/postqueue_bot/internal/service"
	"github.com/go-telegram/bot/models"
)

const (
	// QueueDaysPerPage дней очереди на одном экране
	QueueDaysPerPage = 7

	// maxSlotButtons ограничение Telegram на размер клавиатуры с запасом
	maxSlotButtons = 40

	// maxScreenText лимит сообщения 4096, оставляем место под подвал
	maxScreenText = 3600
)

// QueueScreenInput данные экрана очереди
type QueueScreenInput struct {
	ClientName          string
	View                queue.Projection
	Policy              queue.EmptySlotPolicy
	Months              queue.MonthWindow
	TimeslotsConfigured bool
	Page                int
	Now                 time.Time
}

// QueuePages число страниц очереди
func QueuePages(p queue.Projection) int {
	if len(p.Days) == 0 {
		return 1
	}
	return (len(p.Days) + QueueDaysPerPage - 1) / QueueDaysPerPage
}

// PageOf страница, на которой находится слот
func PageOf(p queue.Projection, slotID string) int {
	for i, g := range p.Days {
		for _, s := range g.Slots {
			if s.ID() == slotID {
				return i / QueueDaysPerPage
			}
		}
	}
	return 0
}

func pageDays(p queue.Projection, page int) []queue.DayGroup {
	pages := QueuePages(p)
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	start := page * QueueDaysPerPage
	if start >= len(p.Days) {
		return nil
	}
	end := start + QueueDaysPerPage
	if end > len(p.Days) {
		end = len(p.Days)
	}
	return p.Days[start:end]
}

// QueueScreen текст и клавиатура очереди клиента
func QueueScreen(in QueueScreenInput) (string, *models.InlineKeyboardMarkup) {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>Queue · %s</b>\n", html.EscapeString(in.ClientName))
	if keys := in.Months.Keys(); len(keys) > 0 {
		first, last := keys[0], keys[len(keys)-1]
		fmt.Fprintf(&b, "<i>Loaded: %s – %s</i>\n",
			formatting.FormatMonth(first.Year, first.Month),
			formatting.FormatMonth(last.Year, last.Month))
	}
	b.WriteString("\n")

	kb := keyboard.NewBuilder()

	switch {
	case !in.View.Initialized:
		b.WriteString("⏳ Queue is loading, tap Refresh in a moment.")
	case len(in.View.Days) == 0:
		b.WriteString("📭 Nothing scheduled in the loaded months.")
	default:
		if !in.TimeslotsConfigured {
			b.WriteString("⚠️ No timeslots configured yet. Set them with /timeslots.\n\n")
		}
		var drag []models.InlineKeyboardButton
		truncated := 0
		days := pageDays(in.View, in.Page)
		for i, g := range days {
			block := dayBlock(g, in.Now)
			if b.Len()+len(block) > maxScreenText {
				truncated = len(days) - i
				break
			}
			b.WriteString(block)
			for _, s := range g.Slots {
				if f, ok := s.(queue.FilledSlot); ok && len(drag) < maxSlotButtons {
					drag = append(drag, keyboard.Button("✋ "+formatting.SlotButtonText(f), CbDrag+f.ID()))
				}
			}
		}
		if truncated > 0 {
			fmt.Fprintf(&b, "<i>… %s more on this page did not fit. Open them from the 🗓 calendar.</i>\n",
				formatting.Pluralize(truncated, "day", "days"))
		}
		kb.Grid(1, drag...)
		kb.Row(keyboard.PaginationButtons(CbPage, clampPage(in.Page, QueuePages(in.View)), QueuePages(in.View))...)
	}

	hideLabel := "🙈 Hide empty"
	if in.Policy == queue.EmptySlotsHidden {
		hideLabel = "👁 Show empty"
	}
	kb.Row(keyboard.Button(hideLabel, CbHide), keyboard.Button("🔄 Refresh", CbRefresh))
	kb.Row(keyboard.Button("⏪ Earlier month", CbPrev), keyboard.Button("⏩ Next month", CbMore))
	kb.Row(keyboard.Button("🗓 Calendar", CbCalendar), keyboard.Button("🕒 Timeslots", CbTimeslots))

	return b.String(), kb.Build()
}

func clampPage(page, pages int) int {
	if page < 0 {
		return 0
	}
	if page >= pages {
		return pages - 1
	}
	return page
}

func dayBlock(g queue.DayGroup, now time.Time) string {
	var b strings.Builder
	b.WriteString(formatting.FormatDayHeader(g.Date, now))
	if !g.Active {
		b.WriteString(" <i>(no timeslots)</i>")
	}
	b.WriteString("\n")
	if len(g.Slots) == 0 {
		b.WriteString("   <i>nothing here</i>\n")
	}
	for _, s := range g.Slots {
		b.WriteString("   ")
		b.WriteString(formatting.FormatSlotLine(s))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// DragScreen выбор слота для перетаскиваемого поста
func DragScreen(source queue.FilledSlot, view queue.Projection) (string, *models.InlineKeyboardMarkup) {
	var b strings.Builder
	fmt.Fprintf(&b, "✋ <b>Moving</b> %s\n", formatting.FormatDateTime(source.Time()))
	fmt.Fprintf(&b, "<i>%s</i>\n\n", html.EscapeString(source.Preview))
	b.WriteString("Pick a slot to drop it on. Same day swaps the posts, another day opens the time picker.")

	var targets []models.InlineKeyboardButton
	for _, g := range pageDays(view, PageOf(view, source.ID())) {
		for _, s := range g.Slots {
			if s.ID() == source.ID() || len(targets) >= maxSlotButtons {
				continue
			}
			icon := "🔁 "
			if s.IsEmpty() {
				icon = "➕ "
			}
			targets = append(targets, keyboard.Button(icon+formatting.SlotButtonText(s), CbDrop+s.ID()))
		}
	}

	kb := keyboard.NewBuilder().Grid(1, targets...)
	kb.Row(
		keyboard.Button("🕒 Other date/time", CbReschedule+source.ID()),
		keyboard.Button("⬆️ Move to top", CbTop+source.ID()),
	)
	kb.Row(keyboard.Button("🗑 Remove from queue", CbRemove+source.ID()))
	kb.Row(keyboard.CancelButton(CbDragEnd))

	return b.String(), kb.Build()
}

// RescheduleScreen диалог переноса с предзаполненной датой
func RescheduleScreen(post model.ScheduledPost, date time.Time, problem string) (string, *models.InlineKeyboardMarkup) {
	var b strings.Builder
	fmt.Fprintf(&b, "🕒 <b>Reschedule</b> “%s”\n", html.EscapeString(formatting.PostTitle(post)))
	fmt.Fprintf(&b, "Date: <b>%s</b>\n\n", formatting.FormatDate(date))
	b.WriteString("Pick a time or send <code>HH:MM</code>.\n")
	b.WriteString("To change the date as well, send <code>YYYY-MM-DD HH:MM</code>.")
	if problem != "" {
		fmt.Fprintf(&b, "\n\n⚠️ %s", html.EscapeString(problem))
	}

	times := make([]models.InlineKeyboardButton, 0, len(queue.SuggestedTimes))
	for _, t := range queue.SuggestedTimes {
		times = append(times, keyboard.Button(t, CbTime+t))
	}
	kb := keyboard.NewBuilder().
		Row(times...).
		Row(keyboard.CancelButton(CbDragEnd))

	return b.String(), kb.Build()
}

// DayScreen все посты дня, включая опубликованные и ошибки
func DayScreen(g queue.DayGroup, found bool, date, now time.Time) (string, *models.InlineKeyboardMarkup) {
	var b strings.Builder
	b.WriteString(formatting.FormatDayHeader(date, now))
	b.WriteString("\n\n")

	if !found || len(g.Slots) == 0 {
		b.WriteString("<i>No posts on this day.</i>")
	}
	for _, s := range g.Slots {
		f, ok := s.(queue.FilledSlot)
		if !ok {
			continue
		}
		display := formatting.GetStatusDisplay(f.Post.Status)
		fmt.Fprintf(&b, "%s <b>%s</b> · %s\n", display.Emoji, f.Clock(), display.Text)
		fmt.Fprintf(&b, "      %s\n", html.EscapeString(f.Preview))
		if f.Post.Status.Is(model.Error) && f.Post.Message != "" {
			fmt.Fprintf(&b, "      <i>%s</i>\n", html.EscapeString(f.Post.Message))
		}
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🗓 Calendar", CbCalendar)).
		AddBackToQueueButton()
	return b.String(), kb.Build()
}

// CalendarCaption подпись к картинке недели
func CalendarCaption(clientName string, weekStart time.Time) string {
	weekEnd := weekStart.AddDate(0, 0, 6)
	return fmt.Sprintf("🗓 <b>%s</b>\n%s – %s\n\nPick a day to see every post on it.",
		html.EscapeString(clientName), formatting.FormatDate(weekStart), formatting.FormatDate(weekEnd))
}

// CalendarKeyboard дни недели и навигация по неделям
func CalendarKeyboard(weekStart time.Time, offset int) *models.InlineKeyboardMarkup {
	days := make([]models.InlineKeyboardButton, 0, 7)
	for i := 0; i < 7; i++ {
		d := weekStart.AddDate(0, 0, i)
		days = append(days, keyboard.Button(d.Format("Mon 02"), CbDay+d.Format("2006-01-02")))
	}
	return keyboard.NewBuilder().
		Grid(4, days...).
		Row(keyboard.WeekPagination(CbCalendarWeek, offset)...).
		AddBackToQueueButton().
		Build()
}

// WeekStart понедельник недели со сдвигом offset от текущей
func WeekStart(now time.Time, offset int) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sinceMonday := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -sinceMonday+7*offset)
}

// ClientsScreen выбор клиента
func ClientsScreen(clients []*model.Client, currentID string) (string, *models.InlineKeyboardMarkup) {
	if len(clients) == 0 {
		return "👥 Your agency has no clients yet.", nil
	}

	buttons := make([]models.InlineKeyboardButton, 0, len(clients))
	for _, c := range clients {
		label := c.Name
		if label == "" {
			label = c.ID
		}
		if c.ID == currentID {
			label = "✅ " + label
		}
		buttons = append(buttons, keyboard.Button(label, CbClient+c.ID))
	}
	text := fmt.Sprintf("👥 <b>Pick a client</b>\n\n%s in your agency.",
		formatting.Pluralize(len(clients), "client", "clients"))
	return text, keyboard.NewBuilder().Grid(2, buttons...).Build()
}

// TimeslotsScreen текущая сетка таймслотов
func TimeslotsScreen(snapshot queue.TimeslotSnapshot) (string, *models.InlineKeyboardMarkup) {
	var b strings.Builder
	b.WriteString("🕒 <b>Posting timeslots</b>\n\n")
	switch {
	case !snapshot.Initialized:
		b.WriteString("⏳ Timeslots are still loading.")
	case !snapshot.Configured():
		b.WriteString("No timeslots yet. Empty slots will not appear in the queue until you add some.")
	default:
		fmt.Fprintf(&b, "<pre>%s</pre>\n", html.EscapeString(service.FormatTimeslots(snapshot.Config)))
		for _, day := range snapshot.ActiveDays {
			for _, clock := range snapshot.Config.TimesFor(day) {
				profiles := snapshot.Config.Profiles(day, clock)
				if len(profiles) == 0 {
					continue
				}
				names := make([]string, 0, len(profiles))
				for _, p := range profiles {
					names = append(names, p.Name)
				}
				fmt.Fprintf(&b, "👤 %s %s: %s\n", day, clock, html.EscapeString(strings.Join(names, ", ")))
			}
		}
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("✏️ Edit", CbTimeslotsEdit)).
		AddBackToQueueButton()
	return b.String(), kb.Build()
}

// TimeslotsPrompt инструкция для ввода сетки
func TimeslotsPrompt(current model.TimeslotConfig) string {
	var b strings.Builder
	b.WriteString("✏️ <b>Send the new timeslots</b>, one day per line:\n\n")
	b.WriteString("<code>Monday: 09:00, 13:00\nWednesday: 18:30</code>\n\n")
	if len(current.ActiveDays()) > 0 {
		fmt.Fprintf(&b, "Current:\n<pre>%s</pre>\n", html.EscapeString(service.FormatTimeslots(current)))
	}
	b.WriteString("Profiles assigned to a time are kept if the time stays. /cancel to stop.")
	return b.String()
}

// HistoryScreen последние переносы клиента
func HistoryScreen(events []*model.ScheduleEvent, loc *time.Location) string {
	if len(events) == 0 {
		return "📜 No schedule changes yet."
	}
	var b strings.Builder
	b.WriteString("📜 <b>Recent schedule changes</b>\n\n")
	for _, e := range events {
		b.WriteString(formatting.FormatEvent(e, loc))
		b.WriteString("\n")
	}
	return b.String()
}

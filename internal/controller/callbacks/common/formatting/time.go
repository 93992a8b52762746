package formatting

import (
	"fmt"
	"time"
)

// FormatDateTime форматирует дату и время: "Mon 30 Nov 14:00"
func FormatDateTime(t time.Time) string {
	return t.Format("Mon 02 Jan 15:04")
}

// FormatDate форматирует дату: "Mon 30 Nov"
func FormatDate(t time.Time) string {
	return t.Format("Mon 02 Jan")
}

// FormatTime форматирует только время
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatDayHeader заголовок дня очереди относительно сегодняшнего
func FormatDayHeader(date, today time.Time) string {
	label := date.Format("Monday, 02 Jan")
	switch daysBetween(today, date) {
	case 0:
		return fmt.Sprintf("📅 <b>%s</b> · today", label)
	case 1:
		return fmt.Sprintf("📅 <b>%s</b> · tomorrow", label)
	default:
		return fmt.Sprintf("📅 <b>%s</b>", label)
	}
}

// FormatMonth "December 2026"
func FormatMonth(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month, year)
}

func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

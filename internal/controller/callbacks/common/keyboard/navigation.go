package keyboard

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// BackToQueueButton создаёт кнопку возврата к очереди
func BackToQueueButton() models.InlineKeyboardButton {
	return Button("⬅️ Back to queue", "q_refresh")
}

// CancelButton создаёт кнопку "Отмена"
func CancelButton(callbackData string) models.InlineKeyboardButton {
	return Button("✖️ Cancel", callbackData)
}

// AddBackToQueueButton добавляет кнопку возврата к очереди
func (b *Builder) AddBackToQueueButton() *Builder {
	return b.Row(BackToQueueButton())
}

// WeekPagination создаёт пагинацию по неделям
func WeekPagination(prefix string, weekOffset int) []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{
		Button("◀️ Previous week", fmt.Sprintf("%s%d", prefix, weekOffset-1)),
		Button("▶️ Next week", fmt.Sprintf("%s%d", prefix, weekOffset+1)),
	}
}

// PaginationButtons создаёт ряд кнопок пагинации
// prefix - префикс для callback (например "q_page:")
// currentPage - текущая страница (0-based)
func PaginationButtons(prefix string, currentPage, totalPages int) []models.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}

	var buttons []models.InlineKeyboardButton
	if currentPage > 0 {
		buttons = append(buttons, Button("⬅️", fmt.Sprintf("%s%d", prefix, currentPage-1)))
	}
	buttons = append(buttons, Button(fmt.Sprintf("📄 %d/%d", currentPage+1, totalPages), "noop"))
	if currentPage < totalPages-1 {
		buttons = append(buttons, Button("➡️", fmt.Sprintf("%s%d", prefix, currentPage+1)))
	}
	return buttons
}

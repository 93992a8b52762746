package model

import "time"

// User оператор агентства, привязанный к Telegram аккаунту
type User struct {
	ID              int64     `json:"id"`
	TelegramID      int64     `json:"telegram_id"`
	Username        string    `json:"username"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	LanguageCode    string    `json:"language_code"`
	AgencyID        string    `json:"agency_id"`
	CurrentClientID *string   `json:"current_client_id"` // nil - клиент ещё не выбран
	CreatedAt       time.Time `json:"created_at"`
}

// HasAgency проверяет что оператор привязан к агентству
func (u *User) HasAgency() bool {
	return u.AgencyID != ""
}

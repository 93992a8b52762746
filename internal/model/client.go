package model

import "time"

// Client клиент агентства, чьими LinkedIn-постами управляет команда
type Client struct {
	ID        string    `json:"id"`
	AgencyID  string    `json:"agency_id"`
	Name      string    `json:"client_name"`
	AvatarURL string    `json:"profile_image"`
	CreatedAt time.Time `json:"created_at"`
}

package models

import (
	"time"
)

// Notification channels.
const (
	ChannelLocal = "local"
	ChannelPush  = "push"
)

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"not null;index" json:"session_id"`
	Channel   string    `gorm:"not null;index" json:"channel"` // "local" or "push"
	Title     string    `gorm:"not null" json:"title"`
	Subtitle  string    `json:"subtitle"`
	Message   string    `gorm:"not null" json:"message"`
	Cwd       string    `json:"cwd"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

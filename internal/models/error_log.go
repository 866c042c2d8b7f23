package models

import (
	"time"
)

type ErrorLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"index" json:"session_id"`
	ErrorMsg  string    `gorm:"not null" json:"error_msg"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

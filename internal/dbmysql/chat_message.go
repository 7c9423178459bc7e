package dbmysql

import (
	"time"
)

// ChatMessage is one entry of the append-only chat log. Rows are never
// updated and only removed by a bulk clear, so there is no soft delete.
type ChatMessage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SessionID   string    `gorm:"index;size:64;not null" json:"session_id"`
	Sender      string    `gorm:"size:100;not null" json:"sender"`
	MessageText *string   `gorm:"type:text" json:"message_text"`
	FileURL     *string   `gorm:"size:300" json:"file_url"`
	FileName    *string   `gorm:"size:255" json:"file_name,omitempty"`
	Timestamp   time.Time `gorm:"index;not null" json:"timestamp"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

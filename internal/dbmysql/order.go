package dbmysql

import "time"

// Order stores the purchased lines as a JSON document in Items.
type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:120;not null" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Address   string    `gorm:"type:text" json:"address"`
	Items     string    `gorm:"type:text" json:"items"`
	Total     float64   `json:"total"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

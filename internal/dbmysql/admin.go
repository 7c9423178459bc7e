package dbmysql

type Admin struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:120;uniqueIndex;not null" json:"username"`
	Password string `gorm:"size:200;not null" json:"-"`
}

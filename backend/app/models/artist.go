package models

type Artist struct {
	ID   int    `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:64;not null"`
}

// TableName keeps the legacy name; the demo dataset predates this service.
func (Artist) TableName() string { return "Artist" }

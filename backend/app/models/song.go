package models

import "time"

type Song struct {
	ID          int        `gorm:"primaryKey;autoIncrement"`
	Title       string     `gorm:"size:64;not null"`
	ArtistID    *int       `gorm:"column:artistID;index"`
	ReleaseDate *time.Time `gorm:"column:released;type:date"`
	URL         *string    `gorm:"column:URL;size:1024"`
	Distance    *float64
	Artist      *Artist `gorm:"foreignKey:ArtistID;constraint:OnDelete:SET NULL"`
}

func (Song) TableName() string { return "Song" }

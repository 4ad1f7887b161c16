package models

import "gorm.io/gorm"

type Album struct {
	gorm.Model
	UserID uint   `gorm:"not null;index"`
	Title  string `gorm:"type:varchar(255);not null;default:Untitled"`
	Public bool   `gorm:"default:false;not null"`

	Photos []Photo `gorm:"foreignKey:AlbumID"`
}

package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null"`
	// Argon2id encoded hash, never the plain password.
	Password string `gorm:"not null" json:"-"`

	Albums []Album `gorm:"foreignKey:UserID"`
	Photos []Photo `gorm:"foreignKey:UserID"`
}

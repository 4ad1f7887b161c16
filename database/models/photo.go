package models

import (
	"path/filepath"
	"time"

	"gorm.io/gorm"
)

// PhotoStatus tracks how far a photo got through the ingest pipeline.
type PhotoStatus int8

const (
	PhotoStatusReceived          PhotoStatus = 0 // original stored, placeholder metadata
	PhotoStatusMetadataExtracted PhotoStatus = 1 // true resolution and size recorded
	PhotoStatusThumbnailReady    PhotoStatus = 2 // thumbnail written, pipeline done
)

// ThumbnailPending reports whether the thumbnail still has to be generated.
// Photos in the received state were skipped at upload time and are left alone.
func (s PhotoStatus) ThumbnailPending() bool {
	return s == PhotoStatusMetadataExtracted
}

// ThumbnailExt is the fixed extension of every generated thumbnail.
const ThumbnailExt = ".png"

type Photo struct {
	gorm.Model
	// Identifier names the files on disk, decoupled from the numeric id.
	Identifier   string      `gorm:"uniqueIndex;not null"`
	Title        string      `gorm:"type:varchar(255);not null;default:Untitled"`
	Date         time.Time   `gorm:"not null"`
	OriginalName string      `gorm:"not null"`
	Mime         string      `gorm:"not null"`
	Public       bool        `gorm:"default:false;not null"`
	Starred      bool        `gorm:"default:false;not null"`
	Size         int64       `gorm:"default:0;not null"`
	Resolution   string      `gorm:"default:'0 x 0';not null"`
	Status       PhotoStatus `gorm:"default:0;not null"`

	AlbumID *uint `gorm:"index"`
	UserID  uint  `gorm:"not null;index"`
}

// OriginalFile returns the on-disk name of the stored original,
// identifier plus the uploaded file's extension.
func (p *Photo) OriginalFile() string {
	return p.Identifier + filepath.Ext(p.OriginalName)
}

// ThumbnailFile returns the on-disk name of the photo's thumbnail.
func (p *Photo) ThumbnailFile() string {
	return p.Identifier + ThumbnailExt
}

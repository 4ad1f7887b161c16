package photos

import (
	"errors"
	"time"

	"github.com/mikann/photo-gallery/database/models"
	"gorm.io/gorm"
)

// Changes carries the optional fields of a photo update. Nil fields are
// left untouched. An AlbumID of -1 detaches the photo from its album.
type Changes struct {
	Title   *string
	Date    *time.Time
	Public  *bool
	Starred *bool
	AlbumID *int
}

// Repository wraps all photo persistence. Every mutating query is scoped
// to rows owned by the acting user, so a foreign row is never affected.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new photo row.
func (r *Repository) Create(photo *models.Photo) error {
	return r.db.Create(photo).Error
}

// joinAlbum left-joins the owning album so its public flag can enter the
// visibility predicate. Soft-deleted albums count as absent.
func (r *Repository) joinAlbum() *gorm.DB {
	return r.db.Model(&models.Photo{}).
		Select("photos.*").
		Joins("LEFT JOIN albums ON albums.id = photos.album_id AND albums.deleted_at IS NULL")
}

// visibility builds the read predicate: public photos and photos in public
// albums are always eligible, owned photos additionally for userID != 0.
func (r *Repository) visibility(userID uint) *gorm.DB {
	cond := r.db.Where("photos.public = ?", true).Or("albums.public = ?", true)
	if userID != 0 {
		cond = cond.Or("photos.user_id = ?", userID)
	}
	return cond
}

// FindVisible returns the photo when it is visible to the given caller
// (userID 0 means anonymous), gorm.ErrRecordNotFound otherwise.
func (r *Repository) FindVisible(photoID, userID uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.joinAlbum().
		Where("photos.id = ?", photoID).
		Where(r.visibility(userID)).
		First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// GetByIdentifier fetches a photo by its generated identifier.
func (r *Repository) GetByIdentifier(identifier string) (*models.Photo, error) {
	var photo models.Photo
	err := r.db.Where("identifier = ?", identifier).First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// GetOwned fetches a photo only when the caller owns it.
func (r *Repository) GetOwned(photoID, userID uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.db.Where("id = ? AND user_id = ?", photoID, userID).First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// ListPublic returns publicly visible photos in the given album context,
// newest first. A nil albumID selects album-less photos.
func (r *Repository) ListPublic(albumID *uint, limit int) ([]*models.Photo, error) {
	q := r.joinAlbum().Where(r.visibility(0))
	if albumID != nil {
		q = q.Where("photos.album_id = ?", *albumID)
	} else {
		q = q.Where("photos.album_id IS NULL")
	}

	var list []*models.Photo
	err := q.Order("photos.id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// ListByAlbum returns the caller's photos in one album, newest first.
func (r *Repository) ListByAlbum(userID, albumID uint, limit int) ([]*models.Photo, error) {
	var list []*models.Photo
	err := r.db.Where("user_id = ? AND album_id = ?", userID, albumID).
		Order("id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// ListOwned returns all photos of a user, newest first.
func (r *Repository) ListOwned(userID uint, limit int) ([]*models.Photo, error) {
	var list []*models.Photo
	err := r.db.Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// ListOwnedPublic returns a user's public photos, newest first.
func (r *Repository) ListOwnedPublic(userID uint, limit int) ([]*models.Photo, error) {
	var list []*models.Photo
	err := r.db.Where("user_id = ? AND public = ?", userID, true).
		Order("id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// ListOwnedStarred returns a user's starred photos, newest first.
func (r *Repository) ListOwnedStarred(userID uint, limit int) ([]*models.Photo, error) {
	var list []*models.Photo
	err := r.db.Where("user_id = ? AND starred = ?", userID, true).
		Order("id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// ListRecent returns a user's photos ordered by last update.
func (r *Repository) ListRecent(userID uint, limit int) ([]*models.Photo, error) {
	var list []*models.Photo
	err := r.db.Where("user_id = ?", userID).
		Order("updated_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

// CountByUser counts all photos of a user.
func (r *Repository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Photo{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// CountUnsortedPublic counts a user's album-less public photos.
func (r *Repository) CountUnsortedPublic(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Photo{}).
		Where("user_id = ? AND album_id IS NULL AND public = ?", userID, true).
		Count(&count).Error
	return count, err
}

// CountUnsortedStarred counts a user's album-less starred photos.
func (r *Repository) CountUnsortedStarred(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Photo{}).
		Where("user_id = ? AND album_id IS NULL AND starred = ?", userID, true).
		Count(&count).Error
	return count, err
}

// IDsByUser returns ids of all photos of a user, newest first.
func (r *Repository) IDsByUser(userID uint, limit int) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Photo{}).Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).Pluck("id", &ids).Error
	return ids, err
}

// IDsUnsortedPublic returns ids of a user's album-less public photos.
func (r *Repository) IDsUnsortedPublic(userID uint, limit int) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Photo{}).
		Where("user_id = ? AND album_id IS NULL AND public = ?", userID, true).
		Order("id DESC").Limit(limit).Pluck("id", &ids).Error
	return ids, err
}

// IDsUnsortedStarred returns ids of a user's album-less starred photos.
func (r *Repository) IDsUnsortedStarred(userID uint, limit int) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Photo{}).
		Where("user_id = ? AND album_id IS NULL AND starred = ?", userID, true).
		Order("id DESC").Limit(limit).Pluck("id", &ids).Error
	return ids, err
}

// MediaLookup pairs a photo row with the public flag of its album, for
// delivery-time visibility checks.
type MediaLookup struct {
	Photo       *models.Photo
	AlbumPublic bool
}

// Visible reports whether the caller may fetch the media.
func (l *MediaLookup) Visible(userID uint) bool {
	if l.Photo.Public || l.AlbumPublic {
		return true
	}
	return userID != 0 && l.Photo.UserID == userID
}

// LookupMedia loads the delivery view of a photo regardless of caller, the
// visibility decision happens on the result.
func (r *Repository) LookupMedia(photoID uint) (*MediaLookup, error) {
	var photo models.Photo
	if err := r.db.First(&photo, photoID).Error; err != nil {
		return nil, err
	}

	lookup := &MediaLookup{Photo: &photo}
	if photo.AlbumID != nil {
		var album models.Album
		err := r.db.Select("public").First(&album, *photo.AlbumID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		lookup.AlbumPublic = album.Public
	}
	return lookup, nil
}

// UpdateOwned applies the non-nil changes to a photo owned by the caller
// and returns the affected row count.
func (r *Repository) UpdateOwned(photoID, userID uint, changes Changes) (int64, error) {
	updates := map[string]interface{}{}
	if changes.Title != nil {
		updates["title"] = *changes.Title
	}
	if changes.Date != nil {
		updates["date"] = *changes.Date
	}
	if changes.Public != nil {
		updates["public"] = *changes.Public
	}
	if changes.Starred != nil {
		updates["starred"] = *changes.Starred
	}
	if changes.AlbumID != nil {
		if *changes.AlbumID == -1 {
			updates["album_id"] = nil
		} else {
			updates["album_id"] = *changes.AlbumID
		}
	}
	if len(updates) == 0 {
		// Nothing to change still counts as touching the row if it is ours.
		var count int64
		err := r.db.Model(&models.Photo{}).
			Where("id = ? AND user_id = ?", photoID, userID).Count(&count).Error
		return count, err
	}

	result := r.db.Model(&models.Photo{}).
		Where("id = ? AND user_id = ?", photoID, userID).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// IDsByAlbum returns the ids of the caller's photos in one album.
func (r *Repository) IDsByAlbum(albumID, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Photo{}).
		Where("album_id = ? AND user_id = ?", albumID, userID).
		Pluck("id", &ids).Error
	return ids, err
}

// DetachFromAlbum clears the album reference of the caller's photos in the
// given album. The photos themselves are kept.
func (r *Repository) DetachFromAlbum(albumID, userID uint) error {
	return r.db.Model(&models.Photo{}).
		Where("album_id = ? AND user_id = ?", albumID, userID).
		Update("album_id", nil).Error
}

// DeleteOwned removes a photo owned by the caller and returns the affected
// row count.
func (r *Repository) DeleteOwned(photoID, userID uint) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", photoID, userID).
		Delete(&models.Photo{})
	return result.RowsAffected, result.Error
}

// UpdateMetadata records the probed metadata for an uploaded photo and
// advances it to the metadata-extracted state.
func (r *Repository) UpdateMetadata(photoID uint, date time.Time, resolution string, size int64) error {
	return r.db.Model(&models.Photo{}).Where("id = ?", photoID).
		Updates(map[string]interface{}{
			"date":       date,
			"resolution": resolution,
			"size":       size,
			"status":     models.PhotoStatusMetadataExtracted,
		}).Error
}

// UpdateStatus moves a photo to the given ingest state.
func (r *Repository) UpdateStatus(photoID uint, status models.PhotoStatus) error {
	return r.db.Model(&models.Photo{}).Where("id = ?", photoID).
		Update("status", status).Error
}

// ListPendingThumbnails returns photos whose metadata is extracted but
// whose thumbnail never materialised, oldest first. Used by the retry
// scanner.
func (r *Repository) ListPendingThumbnails(updatedBefore time.Time, limit int) ([]*models.Photo, error) {
	var list []*models.Photo
	err := r.db.Where("status = ? AND updated_at < ?", models.PhotoStatusMetadataExtracted, updatedBefore).
		Order("updated_at ASC").Limit(limit).Find(&list).Error
	return list, err
}
